package service

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/geofence_resolver/internal/config"
	geomocks "github.com/shenikar/geofence_resolver/internal/geocode/mocks"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/shenikar/geofence_resolver/internal/service/mocks"
	webhookmocks "github.com/shenikar/geofence_resolver/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestConfig() *config.Config {
	return &config.Config{
		GeocoderTimeout:     time.Second,
		DebounceWindow:      time.Hour,
		MinRadiusMeters:     100,
		MaxRadiusMeters:     5000,
		DefaultRadiusMeters: 500,
		DefaultCenterLat:    37.7749,
		DefaultCenterLng:    -122.4194,
		SessionIdleTimeout:  time.Minute,
	}
}

func newTestManager(t *testing.T, broadcaster SnapshotBroadcaster) *SessionManager {
	t.Helper()
	ctrl := gomock.NewController(t)
	geocoder := geomocks.NewMockGeocoder(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := newTestConfig()
	ctx, cancel := context.WithCancel(context.Background())
	manager := NewSessionManager(ctx, NewRouterFactory(cfg, geocoder, logger), broadcaster, logger, cfg.SessionIdleTimeout)
	t.Cleanup(func() {
		manager.CloseAll()
		cancel()
	})
	return manager
}

func TestSessionManager_CreateSession(t *testing.T) {
	manager := newTestManager(t, nil)

	id, state, err := manager.CreateSession(context.Background())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Nil(t, state.Coordinate)
	assert.Equal(t, 500.0, state.Radius)
	assert.Equal(t, models.ResolutionIdle, state.Resolution.Status)
	assert.Equal(t, uint64(0), state.Revision)
}

func TestSessionManager_CreateSession_AttachesBroadcaster(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	broadcaster := mocks.NewMockSnapshotBroadcaster(ctrl)
	detached := false

	// Ожидания
	broadcaster.EXPECT().
		Attach(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(func() { detached = true })

	manager := newTestManager(t, broadcaster)

	// Действие
	id, _, err := manager.CreateSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, manager.CloseSession(context.Background(), id))

	// Проверки
	assert.True(t, detached)
}

func TestSessionManager_Apply(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()
	id, _, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	state, err := manager.Apply(ctx, id, models.Intent{Kind: models.IntentClick, Latitude: 40.7128, Longitude: -74.006})
	require.NoError(t, err)
	require.NotNil(t, state.Coordinate)
	assert.Equal(t, 40.7128, state.Coordinate.Latitude)
	assert.Equal(t, -74.006, state.Coordinate.Longitude)
	assert.Equal(t, uint64(1), state.Revision)

	state, err = manager.Apply(ctx, id, models.Intent{Kind: models.IntentRadius, Value: 9000})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, state.Radius)
	require.NotNil(t, state.Notice)
	assert.Equal(t, models.NoticeClampedInput, state.Notice.Kind)
	assert.InDelta(t, 5.0, state.DistanceKm, 1e-9)

	state, err = manager.Apply(ctx, id, models.Intent{Kind: models.IntentLatitude, Value: math.NaN()})
	require.NoError(t, err)
	require.NotNil(t, state.Notice)
	assert.Equal(t, models.NoticeInvalidInput, state.Notice.Kind)
	assert.Equal(t, 40.7128, state.Coordinate.Latitude)

	current, err := manager.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, state.Revision, current.Revision)
}

func TestSessionManager_Apply_AddressEchoesQuery(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()
	id, _, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	state, err := manager.Apply(ctx, id, models.Intent{Kind: models.IntentAddress, Query: "Berlin"})

	require.NoError(t, err)
	assert.Equal(t, "Berlin", state.AddressQuery)
	assert.Equal(t, models.ResolutionIdle, state.Resolution.Status)
	assert.Nil(t, state.Coordinate)
}

func TestSessionManager_Apply_UnknownIntent(t *testing.T) {
	manager := newTestManager(t, nil)
	id, _, err := manager.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = manager.Apply(context.Background(), id, models.Intent{Kind: "teleport"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestSessionManager_SessionNotFound(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()
	id := uuid.New()

	_, err := manager.GetState(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = manager.Apply(ctx, id, models.Intent{Kind: models.IntentTileLoadError})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = manager.CloseSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_CloseSession(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()
	id, _, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	require.NoError(t, manager.CloseSession(ctx, id))

	_, err = manager.GetState(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_ReapIdle(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	stale, _, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	active, _, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = manager.Apply(ctx, active, models.Intent{Kind: models.IntentRadiusSlider, Value: 750})
	require.NoError(t, err)

	reaped := manager.ReapIdle()

	assert.Equal(t, 1, reaped)
	_, err = manager.GetState(ctx, stale)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	state, err := manager.GetState(ctx, active)
	require.NoError(t, err)
	assert.Equal(t, 750.0, state.Radius)
}

func TestSessionManager_ReapIdle_PollingKeepsSessionAlive(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	watched, _, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	// Клиент только читает состояние, не отправляя намерений
	for i := 0; i < 3; i++ {
		now = now.Add(45 * time.Second)
		_, err = manager.GetState(ctx, watched)
		require.NoError(t, err)
		assert.Equal(t, 0, manager.ReapIdle())
	}

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, manager.ReapIdle())
	_, err = manager.GetState(ctx, watched)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_ReapIdle_CommitKeepsSessionAlive(t *testing.T) {
	// Подготовка
	manager := newTestManager(t, nil)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockGeofenceRepository(ctrl)
	publisher := webhookmocks.NewMockWebhookPublisher(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	geofences := NewGeofenceService(repo, manager, publisher, logger)

	id, _, err := manager.CreateSession(ctx)
	require.NoError(t, err)
	_, err = manager.Apply(ctx, id, models.Intent{Kind: models.IntentClick, Latitude: 40.7128, Longitude: -74.006})
	require.NoError(t, err)

	// Ожидания
	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	// Действие
	now = now.Add(45 * time.Second)
	_, err = geofences.Commit(ctx, id, "Harbor run")
	require.NoError(t, err)
	now = now.Add(30 * time.Second)

	// Проверки
	assert.Equal(t, 0, manager.ReapIdle())
	_, err = manager.GetState(ctx, id)
	assert.NoError(t, err)
}

func TestSessionManager_ReapIdle_Disabled(t *testing.T) {
	manager := newTestManager(t, nil)
	manager.idleTimeout = 0
	_, _, err := manager.CreateSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, manager.ReapIdle())
}
