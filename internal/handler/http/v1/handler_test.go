package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/geofence_resolver/internal/config"
	"github.com/shenikar/geofence_resolver/internal/interaction"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/shenikar/geofence_resolver/internal/service"
	"github.com/shenikar/geofence_resolver/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var authHeader = map[string]string{"X-API-Key": "test-api-key"}

type testDeps struct {
	sessions  *mocks.MockSessionService
	geofences *mocks.MockGeofenceService
	router    *gin.Engine
}

// newTestHandler создает Handler с мокированными сервисами
func newTestHandler(t *testing.T) testDeps {
	ctrl := gomock.NewController(t)
	d := testDeps{
		sessions:  mocks.NewMockSessionService(ctrl),
		geofences: mocks.NewMockGeofenceService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(d.sessions, d.geofences, logger, cfg)

	gin.SetMode(gin.TestMode)
	d.router = gin.New()
	api := d.router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return d
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func resolvedState() models.GeofenceState {
	return models.GeofenceState{
		Coordinate:   &models.Coordinate{Latitude: 40.7128, Longitude: -74.006},
		Radius:       500,
		AddressQuery: "New York",
		Resolution:   models.Resolution{Status: models.ResolutionResolved},
		DistanceKm:   0.5,
		AreaHectares: 78.5398,
		Revision:     3,
	}
}

func TestCreateSession_Success(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.sessions.EXPECT().CreateSession(gomock.Any()).Return(id, models.GeofenceState{
		Radius:     500,
		Resolution: models.Resolution{Status: models.ResolutionIdle},
	}, nil)

	w := makeRequest(d.router, "POST", "/api/v1/sessions", nil, authHeader)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.SessionID)
	assert.Nil(t, resp.State.Coordinate)
	assert.Equal(t, "idle", resp.State.ResolutionStatus)
	assert.Equal(t, 500.0, resp.State.RadiusMeters)
}

func TestCreateSession_ServiceError(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().CreateSession(gomock.Any()).Return(uuid.Nil, models.GeofenceState{}, errors.New("boom"))

	w := makeRequest(d.router, "POST", "/api/v1/sessions", nil, authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestSessions_RequireAPIKey(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().CreateSession(gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", "/api/v1/sessions", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetSession_Success(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.sessions.EXPECT().GetState(gomock.Any(), id).Return(resolvedState(), nil)

	w := makeRequest(d.router, "GET", fmt.Sprintf("/api/v1/sessions/%s", id), nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Coordinate)
	assert.Equal(t, 40.7128, resp.Coordinate.Latitude)
	assert.Equal(t, "resolved", resp.ResolutionStatus)
	assert.Equal(t, uint64(3), resp.Revision)
}

func TestGetSession_InvalidID(t *testing.T) {
	d := newTestHandler(t)

	w := makeRequest(d.router, "GET", "/api/v1/sessions/invalid-uuid", nil, authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid session ID")
}

func TestGetSession_NotFound(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.sessions.EXPECT().GetState(gomock.Any(), id).Return(models.GeofenceState{}, fmt.Errorf("service: %w", service.ErrSessionNotFound))

	w := makeRequest(d.router, "GET", fmt.Sprintf("/api/v1/sessions/%s", id), nil, authHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "session not found")
}

func TestCloseSession(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.sessions.EXPECT().CloseSession(gomock.Any(), id).Return(nil)

	w := makeRequest(d.router, "DELETE", fmt.Sprintf("/api/v1/sessions/%s", id), nil, authHeader)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSetAddress_Success(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()
	state := models.GeofenceState{Radius: 500, AddressQuery: "Paris", Resolution: models.Resolution{Status: models.ResolutionIdle}, Revision: 1}

	d.sessions.EXPECT().
		Apply(gomock.Any(), id, models.Intent{Kind: models.IntentAddress, Query: "Paris"}).
		Return(state, nil)

	w := makeRequest(d.router, "PUT", fmt.Sprintf("/api/v1/sessions/%s/address", id), jsonBody(t, AddressRequest{Query: "Paris"}), authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"address_query":"Paris"`)
}

func TestSetAddress_InvalidJSON(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(d.router, "PUT", fmt.Sprintf("/api/v1/sessions/%s/address", uuid.New()), bytes.NewBufferString(`{"query": `), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestMapClick_Success(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()
	lat, lng := 51.5074, -0.1278

	d.sessions.EXPECT().
		Apply(gomock.Any(), id, models.Intent{Kind: models.IntentClick, Latitude: lat, Longitude: lng}).
		Return(resolvedState(), nil)

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/map/click", id), jsonBody(t, PointerRequest{Latitude: &lat, Longitude: &lng}), authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMapDragEnd_ZeroCoordinateAccepted(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.sessions.EXPECT().
		Apply(gomock.Any(), id, models.Intent{Kind: models.IntentDragEnd, Latitude: 0, Longitude: 0}).
		Return(resolvedState(), nil)

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/map/drag-end", id), bytes.NewBufferString(`{"latitude":0,"longitude":0}`), authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMapClick_ValidationError(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/map/click", uuid.New()), bytes.NewBufferString(`{"latitude":10}`), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Longitude' failed on the 'required' tag")
}

func TestMapTileError(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()
	state := resolvedState()
	state.Notice = &models.Notice{Kind: models.NoticeTileLoadError, Message: "map tiles failed to load"}

	d.sessions.EXPECT().
		Apply(gomock.Any(), id, models.Intent{Kind: models.IntentTileLoadError}).
		Return(state, nil)

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/map/tile-error", id), nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Notice)
	assert.Equal(t, "tile_load_error", resp.Notice.Kind)
}

func TestSetRadius_ParsesFieldText(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.sessions.EXPECT().
		Apply(gomock.Any(), id, models.Intent{Kind: models.IntentRadius, Value: 9000}).
		Return(resolvedState(), nil)

	w := makeRequest(d.router, "PUT", fmt.Sprintf("/api/v1/sessions/%s/radius", id), jsonBody(t, ValueRequest{Value: " 9000 "}), authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetLatitude_NonNumericReachesCoreAsNaN(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()
	state := resolvedState()
	state.Notice = &models.Notice{Kind: models.NoticeInvalidInput, Message: "invalid input"}

	d.sessions.EXPECT().
		Apply(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, intent models.Intent) (models.GeofenceState, error) {
			assert.Equal(t, models.IntentLatitude, intent.Kind)
			assert.True(t, math.IsNaN(intent.Value))
			return state, nil
		})

	w := makeRequest(d.router, "PUT", fmt.Sprintf("/api/v1/sessions/%s/latitude", id), jsonBody(t, ValueRequest{Value: "abc"}), authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"invalid_input"`)
}

func TestNumericRoutes_MapToIntentKinds(t *testing.T) {
	cases := map[string]models.IntentKind{
		"longitude":     models.IntentLongitude,
		"radius-slider": models.IntentRadiusSlider,
	}
	for path, kind := range cases {
		t.Run(path, func(t *testing.T) {
			d := newTestHandler(t)
			id := uuid.New()

			d.sessions.EXPECT().
				Apply(gomock.Any(), id, models.Intent{Kind: kind, Value: 42}).
				Return(resolvedState(), nil)

			w := makeRequest(d.router, "PUT", fmt.Sprintf("/api/v1/sessions/%s/%s", id, path), jsonBody(t, ValueRequest{Value: "42"}), authHeader)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestApply_RouterClosed(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.sessions.EXPECT().
		Apply(gomock.Any(), id, gomock.Any()).
		Return(models.GeofenceState{}, fmt.Errorf("service: %w", interaction.ErrRouterClosed))

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/map/tile-error", id), nil, authHeader)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestCommitSession_Success(t *testing.T) {
	d := newTestHandler(t)
	sessionID := uuid.New()
	geofence := &models.Geofence{
		ID:           uuid.New(),
		SessionID:    sessionID,
		Name:         "Stadium",
		Latitude:     40.7128,
		Longitude:    -74.006,
		RadiusMeters: 500,
		CreatedAt:    time.Now(),
	}

	d.geofences.EXPECT().Commit(gomock.Any(), sessionID, "Stadium").Return(geofence, nil)

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/commit", sessionID), jsonBody(t, CommitRequest{Name: "Stadium"}), authHeader)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp GeofenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, geofence.ID, resp.ID)
	assert.Equal(t, 500, resp.RadiusMeters)
}

func TestCommitSession_NoCoordinate(t *testing.T) {
	d := newTestHandler(t)
	sessionID := uuid.New()

	d.geofences.EXPECT().Commit(gomock.Any(), sessionID, "Stadium").Return(nil, service.ErrNoCoordinate)

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/commit", sessionID), jsonBody(t, CommitRequest{Name: "Stadium"}), authHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCommitSession_ValidationError(t *testing.T) {
	d := newTestHandler(t)

	d.geofences.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", fmt.Sprintf("/api/v1/sessions/%s/commit", uuid.New()), jsonBody(t, CommitRequest{}), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Name' failed on the 'required' tag")
}

func TestGetGeofence(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.geofences.EXPECT().GetGeofence(gomock.Any(), id).Return(&models.Geofence{ID: id, Name: "Park"}, nil)

	w := makeRequest(d.router, "GET", fmt.Sprintf("/api/v1/geofences/%s", id), nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Park"`)
}

func TestGetGeofence_NotFound(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.geofences.EXPECT().GetGeofence(gomock.Any(), id).Return(nil, fmt.Errorf("service: %w", service.ErrGeofenceNotFound))

	w := makeRequest(d.router, "GET", fmt.Sprintf("/api/v1/geofences/%s", id), nil, authHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGeofence_ServiceError(t *testing.T) {
	d := newTestHandler(t)
	id := uuid.New()

	d.geofences.EXPECT().GetGeofence(gomock.Any(), id).Return(nil, errors.New("db down"))

	w := makeRequest(d.router, "GET", fmt.Sprintf("/api/v1/geofences/%s", id), nil, authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListGeofences(t *testing.T) {
	d := newTestHandler(t)

	d.geofences.EXPECT().ListGeofences(gomock.Any(), 2, 5).Return([]*models.Geofence{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	w := makeRequest(d.router, "GET", "/api/v1/geofences?page=2&pageSize=5", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []GeofenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestFindContaining(t *testing.T) {
	d := newTestHandler(t)
	lat, lng := 55.75, 37.61

	d.geofences.EXPECT().FindContaining(gomock.Any(), lat, lng).Return([]*models.Geofence{}, nil)

	w := makeRequest(d.router, "POST", "/api/v1/geofences/contains", jsonBody(t, ContainsRequest{Latitude: &lat, Longitude: &lng}), authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestFindContaining_ValidationError(t *testing.T) {
	d := newTestHandler(t)
	lat, lng := 120.0, 37.61

	d.geofences.EXPECT().FindContaining(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", "/api/v1/geofences/contains", jsonBody(t, ContainsRequest{Latitude: &lat, Longitude: &lng}), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'latitude' tag")
}

func TestHealthCheck_Success(t *testing.T) {
	d := newTestHandler(t)

	w := makeRequest(d.router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestParseNumericField(t *testing.T) {
	assert.Equal(t, 12.5, ParseNumericField("12.5"))
	assert.Equal(t, -3.0, ParseNumericField("  -3 "))
	assert.True(t, math.IsNaN(ParseNumericField("")))
	assert.True(t, math.IsNaN(ParseNumericField("12a")))
}

func newAuthRouter(keys ...string) (*gin.Engine, *bytes.Buffer) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logs := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(logs)

	cfg := &config.Config{APIKeys: keys}

	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, logs
}

func TestAPIKeyAuthMiddleware_Success(t *testing.T) {
	router, _ := newAuthRouter("other-key", "valid-key")

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_Bearer(t *testing.T) {
	router, _ := newAuthRouter("valid-key")

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Bearer valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	router, _ := newAuthRouter("valid-key")

	w := makeRequest(router, "GET", "/test", nil) // Нет API ключа
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")

	// Другая схема авторизации ключом не считается
	w = makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Basic dXNlcjpwYXNz"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestAPIKeyAuthMiddleware_InvalidKey(t *testing.T) {
	router, logs := newAuthRouter("valid-key")

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "leaked-secret-value"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")

	w = makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Bearer leaked-secret-value"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")

	// Отклонение попадает в лог, но без самого ключа
	assert.Contains(t, logs.String(), "Rejected request with unknown API key")
	assert.NotContains(t, logs.String(), "leaked-secret-value")
}

func TestAPIKeyAuthMiddleware_PrefixOfValidKeyRejected(t *testing.T) {
	router, _ := newAuthRouter("valid-key")

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "valid"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuthMiddleware_NoConfiguredKeysRejectsAll(t *testing.T) {
	router, _ := newAuthRouter("")

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "anything"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}
