package geocode

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/sirupsen/logrus"
)

// Resolver превращает адрес в координату и отбрасывает устаревшие ответы.
// Счётчик запросов принадлежит экземпляру и сбрасывается только созданием нового Resolver.
type Resolver struct {
	geocoder Geocoder
	timeout  time.Duration
	logger   *logrus.Logger
	latest   atomic.Uint64
}

func NewResolver(geocoder Geocoder, timeout time.Duration, logger *logrus.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve выдаёт новый номер и выполняет запрос с ним
func (r *Resolver) Resolve(ctx context.Context, query string) (models.GeocodeResult, error) {
	return r.ResolveIssued(ctx, r.Issue(), query)
}

// Issue резервирует номер запроса. Вызывающий выдаёт его синхронно,
// чтобы последующий Invalidate гарантированно сделал запрос устаревшим.
func (r *Resolver) Issue() uint64 {
	return r.latest.Add(1)
}

// ResolveIssued выполняет запрос под ранее выданным номером. Если к моменту ответа
// был выдан более новый номер, результат отбрасывается с ErrStaleResponse, даже если он успешный.
func (r *Resolver) ResolveIssued(ctx context.Context, id uint64, query string) (models.GeocodeResult, error) {
	log := r.logger.WithFields(logrus.Fields{
		"component":  "resolver",
		"method":     "ResolveIssued",
		"request_id": id,
	})
	log.Debug("Issuing geocode request")

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	coords, err := r.geocoder.Geocode(ctx, query)
	if r.latest.Load() != id {
		log.Debug("Discarding stale geocode response")
		return models.GeocodeResult{}, ErrStaleResponse
	}
	if err != nil {
		gerr := classify(query, id, err)
		log.WithError(err).WithField("reason", gerr.Reason).Warn("Geocode request failed")
		return models.GeocodeResult{}, gerr
	}
	if len(coords) == 0 {
		log.Info("Geocode returned no results")
		return models.GeocodeResult{}, &GeocodeError{Reason: ReasonNotFound, Query: query, RequestID: id, Err: ErrNotFound}
	}

	best := coords[0]
	if !finite(best.Latitude) || !finite(best.Longitude) {
		return models.GeocodeResult{}, &GeocodeError{Reason: ReasonServiceError, Query: query, RequestID: id, Err: ErrMalformedPayload}
	}
	return models.GeocodeResult{Coordinate: best, RequestID: id}, nil
}

// Invalidate делает все выполняющиеся запросы устаревшими
func (r *Resolver) Invalidate() uint64 {
	return r.latest.Add(1)
}

// Latest номер последнего выданного запроса
func (r *Resolver) Latest() uint64 {
	return r.latest.Load()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
