package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/shenikar/geofence_resolver/internal/service"
)

const geofenceCacheTTL = 5 * time.Minute

const geofenceColumns = `
	id,
	session_id,
	name,
	address,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	radius_meters,
	created_at`

type GeofenceRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewGeofenceRepository(db *pgxpool.Pool, redisClient *redis.Client) service.GeofenceRepository {
	return &GeofenceRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create сохраняет зафиксированную геозону
func (r *GeofenceRepository) Create(ctx context.Context, geofence *models.Geofence) error {
	query := `
		INSERT INTO geofences (session_id, name, address, location, radius_meters)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		geofence.SessionID,
		geofence.Name,
		geofence.Address,
		geofence.Longitude,
		geofence.Latitude,
		geofence.RadiusMeters,
	).Scan(&geofence.ID, &geofence.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create geofence: %w", err)
	}
	return nil
}

// GetByID возвращает геозону по её UUID
func (r *GeofenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Geofence, error) {
	query := `SELECT ` + geofenceColumns + ` FROM geofences WHERE id = $1;`

	geofence, err := scanGeofence(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("geofence with id %s: %w", id, service.ErrGeofenceNotFound)
		}
		return nil, fmt.Errorf("failed to get geofence by id: %w", err)
	}
	return geofence, nil
}

// List возвращает геозоны с пагинацией, новые первыми
func (r *GeofenceRepository) List(ctx context.Context, page, pageSize int) ([]*models.Geofence, error) {
	offset := (page - 1) * pageSize

	query := `SELECT ` + geofenceColumns + `
		FROM geofences
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofences: %w", err)
	}
	return collectGeofences(rows)
}

// FindContaining находит геозоны, в радиус которых попадает точка
func (r *GeofenceRepository) FindContaining(ctx context.Context, lat, lon float64) ([]*models.Geofence, error) {
	query := `SELECT ` + geofenceColumns + `
		FROM geofences
		WHERE ST_DWithin(
			location,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			radius_meters
		);
	`
	rows, err := r.db.Query(ctx, query, lon, lat)
	if err != nil {
		return nil, fmt.Errorf("failed to find geofences by location: %w", err)
	}
	return collectGeofences(rows)
}

// GetGeofenceFromCache пытается получить геозону из Redis; (nil, nil) при промахе
func (r *GeofenceRepository) GetGeofenceFromCache(ctx context.Context, id uuid.UUID) (*models.Geofence, error) {
	val, err := r.redisClient.Get(ctx, geofenceCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get geofence from cache: %w", err)
	}

	geofence := &models.Geofence{}
	if err := json.Unmarshal(val, geofence); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geofence from cache: %w", err)
	}
	return geofence, nil
}

// SetGeofenceCache сохраняет геозону в Redis
func (r *GeofenceRepository) SetGeofenceCache(ctx context.Context, geofence *models.Geofence) error {
	val, err := json.Marshal(geofence)
	if err != nil {
		return fmt.Errorf("failed to marshal geofence for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, geofenceCacheKey(geofence.ID), val, geofenceCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set geofence in cache: %w", err)
	}
	return nil
}

func geofenceCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("geofence:%s", id.String())
}

func scanGeofence(row pgx.Row) (*models.Geofence, error) {
	geofence := &models.Geofence{}
	err := row.Scan(
		&geofence.ID,
		&geofence.SessionID,
		&geofence.Name,
		&geofence.Address,
		&geofence.Latitude,
		&geofence.Longitude,
		&geofence.RadiusMeters,
		&geofence.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return geofence, nil
}

func collectGeofences(rows pgx.Rows) ([]*models.Geofence, error) {
	defer rows.Close()

	geofences := make([]*models.Geofence, 0)
	for rows.Next() {
		geofence, err := scanGeofence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geofence row: %w", err)
		}
		geofences = append(geofences, geofence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return geofences, nil
}
