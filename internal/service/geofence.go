package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/shenikar/geofence_resolver/internal/webhook"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoCoordinate зафиксировать можно только сессию с установленной точкой
	ErrNoCoordinate     = errors.New("geofence has no coordinate yet")
	ErrGeofenceNotFound = errors.New("geofence not found")
)

//go:generate mockgen -source=geofence.go -destination=mocks/geofence_mock.go -package=mocks

// GeofenceRepository определяет контракт для работы с бд зафиксированных геозон
type GeofenceRepository interface {
	Create(ctx context.Context, geofence *models.Geofence) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Geofence, error)
	List(ctx context.Context, page, pageSize int) ([]*models.Geofence, error)
	FindContaining(ctx context.Context, lat, lon float64) ([]*models.Geofence, error)
	GetGeofenceFromCache(ctx context.Context, id uuid.UUID) (*models.Geofence, error)
	SetGeofenceCache(ctx context.Context, geofence *models.Geofence) error
}

// GeofenceService определяет контракт для фиксации и поиска геозон
type GeofenceService interface {
	Commit(ctx context.Context, sessionID uuid.UUID, name string) (*models.Geofence, error)
	GetGeofence(ctx context.Context, id uuid.UUID) (*models.Geofence, error)
	ListGeofences(ctx context.Context, page, pageSize int) ([]*models.Geofence, error)
	FindContaining(ctx context.Context, lat, lon float64) ([]*models.Geofence, error)
}

type geofenceService struct {
	repo      GeofenceRepository
	sessions  SessionService
	publisher webhook.WebhookPublisher
	logger    *logrus.Logger
}

func NewGeofenceService(repo GeofenceRepository, sessions SessionService, publisher webhook.WebhookPublisher, logger *logrus.Logger) GeofenceService {
	return &geofenceService{
		repo:      repo,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
	}
}

// Commit сохраняет текущий снимок сессии как геозону
func (s *geofenceService) Commit(ctx context.Context, sessionID uuid.UUID, name string) (*models.Geofence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "geofence",
		"method":     "Commit",
		"session_id": sessionID,
	})
	log.Info("Attempting to commit geofence")

	state, err := s.sessions.GetState(ctx, sessionID)
	if err != nil {
		log.WithError(err).Warn("Failed to read session state")
		return nil, fmt.Errorf("service: could not read session: %w", err)
	}
	if state.Coordinate == nil {
		log.Warn("Commit requested before a location was established")
		return nil, ErrNoCoordinate
	}

	geofence := &models.Geofence{
		SessionID:    sessionID,
		Name:         strings.TrimSpace(name),
		Address:      strings.TrimSpace(state.AddressQuery),
		Latitude:     state.Coordinate.Latitude,
		Longitude:    state.Coordinate.Longitude,
		RadiusMeters: int(math.Round(state.Radius)),
	}
	if err := s.repo.Create(ctx, geofence); err != nil {
		log.WithError(err).Error("Failed to create geofence in repository")
		return nil, fmt.Errorf("service: could not create geofence: %w", err)
	}

	event := webhook.WebhookEvent{
		Event:     webhook.EventGeofenceCommitted,
		Geofence:  geofence,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// геозона уже сохранена, ошибку только логируем
		log.WithError(err).Warn("Failed to publish geofence webhook event")
	}

	log.WithField("geofence_id", geofence.ID).Info("Geofence committed successfully")
	return geofence, nil
}

// GetGeofence получает геозону по ID, сначала из кеша
func (s *geofenceService) GetGeofence(ctx context.Context, id uuid.UUID) (*models.Geofence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "geofence",
		"method":      "GetGeofence",
		"geofence_id": id,
	})

	cached, err := s.repo.GetGeofenceFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read geofence cache")
	}
	if cached != nil {
		log.Debug("Geofence served from cache")
		return cached, nil
	}

	geofence, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get geofence from repository")
		return nil, fmt.Errorf("service: could not get geofence: %w", err)
	}
	if err := s.repo.SetGeofenceCache(ctx, geofence); err != nil {
		log.WithError(err).Warn("Failed to cache geofence")
	}
	return geofence, nil
}

// ListGeofences возвращает список геозон с пагинацией
func (s *geofenceService) ListGeofences(ctx context.Context, page, pageSize int) ([]*models.Geofence, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "geofence",
		"method":    "ListGeofences",
		"page":      page,
		"page_size": pageSize,
	})

	geofences, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list geofences from repository")
		return nil, fmt.Errorf("service: could not list geofences: %w", err)
	}
	log.WithField("count", len(geofences)).Debug("Geofences listed")
	return geofences, nil
}

// FindContaining находит геозоны, в радиус которых попадает точка
func (s *geofenceService) FindContaining(ctx context.Context, lat, lon float64) ([]*models.Geofence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "geofence",
		"method":  "FindContaining",
	})

	geofences, err := s.repo.FindContaining(ctx, lat, lon)
	if err != nil {
		log.WithError(err).Error("Failed to find geofences by location")
		return nil, fmt.Errorf("service: could not find geofences: %w", err)
	}
	log.WithField("count", len(geofences)).Info("Location check completed")
	return geofences, nil
}
