package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/geofence_resolver/internal/broadcast"
	"github.com/shenikar/geofence_resolver/internal/config"
	"github.com/shenikar/geofence_resolver/internal/geocode"
	"github.com/shenikar/geofence_resolver/internal/geofence"
	"github.com/shenikar/geofence_resolver/internal/interaction"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownIntent   = errors.New("unknown intent kind")
)

//go:generate mockgen -source=session.go -destination=mocks/session_mock.go -package=mocks

// SessionService определяет контракт для управления сессиями редактирования геозоны
type SessionService interface {
	CreateSession(ctx context.Context) (uuid.UUID, models.GeofenceState, error)
	GetState(ctx context.Context, id uuid.UUID) (models.GeofenceState, error)
	Apply(ctx context.Context, id uuid.UUID, intent models.Intent) (models.GeofenceState, error)
	CloseSession(ctx context.Context, id uuid.UUID) error
}

// SnapshotBroadcaster транслирует снимки сессии наружу
type SnapshotBroadcaster interface {
	Attach(ctx context.Context, sessionID uuid.UUID, source broadcast.Source) func()
}

// RouterFactory создает роутер с собственными хранилищами и собственным счётчиком запросов
type RouterFactory func() (*interaction.Router, error)

// NewRouterFactory собирает роутер из конфигурации; геокодер общий для всех сессий
func NewRouterFactory(cfg *config.Config, geocoder geocode.Geocoder, logger *logrus.Logger) RouterFactory {
	return func() (*interaction.Router, error) {
		radius, err := geofence.NewRadiusController(cfg.MinRadiusMeters, cfg.MaxRadiusMeters, cfg.DefaultRadiusMeters)
		if err != nil {
			return nil, fmt.Errorf("service: could not create radius controller: %w", err)
		}
		coords := geofence.NewCoordinateStore(models.Coordinate{
			Latitude:  cfg.DefaultCenterLat,
			Longitude: cfg.DefaultCenterLng,
		})
		resolver := geocode.NewResolver(geocoder, cfg.GeocoderTimeout, logger)
		return interaction.NewRouter(coords, radius, resolver, logger, cfg.DebounceWindow), nil
	}
}

type session struct {
	router   *interaction.Router
	cancel   context.CancelFunc
	detach   func()
	mu       sync.Mutex
	lastSeen time.Time
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionManager реализация SessionService: по одному роутеру на сессию
type SessionManager struct {
	baseCtx     context.Context
	factory     RouterFactory
	broadcaster SnapshotBroadcaster
	logger      *logrus.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// NewSessionManager создает менеджер; циклы роутеров живут, пока жив ctx. broadcaster может быть nil.
func NewSessionManager(ctx context.Context, factory RouterFactory, broadcaster SnapshotBroadcaster, logger *logrus.Logger, idleTimeout time.Duration) *SessionManager {
	return &SessionManager{
		baseCtx:     ctx,
		factory:     factory,
		broadcaster: broadcaster,
		logger:      logger,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*session),
	}
}

// CreateSession запускает новый роутер
func (m *SessionManager) CreateSession(ctx context.Context) (uuid.UUID, models.GeofenceState, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service": "session",
		"method":  "CreateSession",
	})

	router, err := m.factory()
	if err != nil {
		log.WithError(err).Error("Failed to build interaction router")
		return uuid.Nil, models.GeofenceState{}, fmt.Errorf("service: could not create session: %w", err)
	}

	id := uuid.New()
	loopCtx, cancel := context.WithCancel(m.baseCtx)
	s := &session{router: router, cancel: cancel, lastSeen: m.now()}
	if m.broadcaster != nil {
		s.detach = m.broadcaster.Attach(loopCtx, id, router)
	}
	go func() {
		_ = router.Run(loopCtx)
	}()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.WithField("session_id", id).Info("Session created")
	return id, router.State(), nil
}

// GetState возвращает последний опубликованный снимок. Чтение тоже продлевает жизнь сессии.
func (m *SessionManager) GetState(ctx context.Context, id uuid.UUID) (models.GeofenceState, error) {
	s, err := m.lookup(id)
	if err != nil {
		return models.GeofenceState{}, err
	}
	s.touch(m.now())
	return s.router.State(), nil
}

// Apply передаёт намерение роутеру сессии и возвращает полученный снимок
func (m *SessionManager) Apply(ctx context.Context, id uuid.UUID, intent models.Intent) (models.GeofenceState, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service":    "session",
		"method":     "Apply",
		"session_id": id,
		"intent":     intent.Kind,
	})

	s, err := m.lookup(id)
	if err != nil {
		log.Warn("Intent for unknown session")
		return models.GeofenceState{}, err
	}
	s.touch(m.now())

	state, err := dispatchIntent(ctx, s.router, intent)
	if err != nil {
		if !errors.Is(err, ErrUnknownIntent) {
			log.WithError(err).Error("Failed to apply intent")
		}
		return models.GeofenceState{}, fmt.Errorf("service: could not apply intent: %w", err)
	}
	log.WithField("revision", state.Revision).Debug("Intent applied")
	return state, nil
}

func dispatchIntent(ctx context.Context, router *interaction.Router, intent models.Intent) (models.GeofenceState, error) {
	switch intent.Kind {
	case models.IntentAddress:
		return router.SetAddress(ctx, intent.Query)
	case models.IntentClick:
		return router.Click(ctx, intent.Latitude, intent.Longitude)
	case models.IntentDragEnd:
		return router.DragEnd(ctx, intent.Latitude, intent.Longitude)
	case models.IntentLatitude:
		return router.SetLatitude(ctx, intent.Value)
	case models.IntentLongitude:
		return router.SetLongitude(ctx, intent.Value)
	case models.IntentRadius:
		return router.SetRadius(ctx, intent.Value)
	case models.IntentRadiusSlider:
		return router.SetRadiusSlider(ctx, intent.Value)
	case models.IntentTileLoadError:
		return router.TileLoadError(ctx)
	}
	return models.GeofenceState{}, fmt.Errorf("%w: %q", ErrUnknownIntent, intent.Kind)
}

// CloseSession останавливает роутер сессии
func (m *SessionManager) CloseSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("service: could not close session %s: %w", id, ErrSessionNotFound)
	}
	m.stop(s)
	m.logger.WithField("session_id", id).Info("Session closed")
	return nil
}

// ReapIdle закрывает сессии без активности дольше idleTimeout и возвращает их количество
func (m *SessionManager) ReapIdle() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	deadline := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	var expired []*session
	for id, s := range m.sessions {
		if s.idleSince().Before(deadline) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.stop(s)
	}
	if len(expired) > 0 {
		m.logger.WithField("count", len(expired)).Info("Idle sessions reaped")
	}
	return len(expired)
}

// StartJanitor периодически закрывает простаивающие сессии
func (m *SessionManager) StartJanitor(ctx context.Context, interval time.Duration) {
	m.logger.Info("Starting session janitor...")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.logger.Info("Stopping session janitor.")
				return
			case <-ticker.C:
				m.ReapIdle()
			}
		}
	}()
}

// CloseAll останавливает все сессии при завершении процесса
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*session)
	m.mu.Unlock()

	for _, s := range sessions {
		m.stop(s)
	}
}

func (m *SessionManager) lookup(id uuid.UUID) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("service: session %s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

func (m *SessionManager) stop(s *session) {
	if s.detach != nil {
		s.detach()
	}
	s.cancel()
	<-s.router.Done()
}
