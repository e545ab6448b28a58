package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix = "geocode:"
	// sharedCallTimeout ограничивает общий запрос, который не наследует отмену вызывающих
	sharedCallTimeout = 15 * time.Second
)

// CachedGeocoder кеширует удачные ответы другого геокодера в Redis.
// Пустые ответы не кешируются.
type CachedGeocoder struct {
	next   Geocoder
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
	group  singleflight.Group

	callTimeout time.Duration
}

func NewCachedGeocoder(next Geocoder, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,

		callTimeout: sharedCallTimeout,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string) ([]models.Coordinate, error) {
	log := c.logger.WithFields(logrus.Fields{
		"component": "geocode_cache",
		"method":    "Geocode",
	})
	key := cacheKey(query)

	cached, err := c.get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Geocode cache read failed")
	}
	if cached != nil {
		log.Debug("Geocode cache hit")
		return []models.Coordinate{*cached}, nil
	}

	// Одинаковые промахи разных сессий сводятся в один запрос. Он выполняется
	// на отвязанном контексте, а каждый вызывающий ждёт его со своим ctx.
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(detached, c.callTimeout)
		defer cancel()

		coords, err := c.next.Geocode(callCtx, query)
		if err != nil {
			return nil, err
		}
		if len(coords) > 0 {
			if err := c.set(callCtx, key, coords[0]); err != nil {
				log.WithError(err).Warn("Geocode cache write failed")
			}
		}
		return coords, nil
	})

	select {
	case <-ctx.Done():
		log.WithError(ctx.Err()).Debug("Caller stopped waiting for shared geocode call")
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		coords, _ := res.Val.([]models.Coordinate)
		return coords, nil
	}
}

func (c *CachedGeocoder) get(ctx context.Context, key string) (*models.Coordinate, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get geocode from cache: %w", err)
	}
	coord := &models.Coordinate{}
	if err := json.Unmarshal(val, coord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geocode from cache: %w", err)
	}
	return coord, nil
}

func (c *CachedGeocoder) set(ctx context.Context, key string, coord models.Coordinate) error {
	val, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode for cache: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set geocode in cache: %w", err)
	}
	return nil
}

// cacheKey нормализует запрос: регистр и лишние пробелы не влияют на ключ
func cacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}
