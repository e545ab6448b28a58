package interaction

import (
	"context"
	"errors"
	"strings"

	"github.com/shenikar/geofence_resolver/internal/geocode"
	"github.com/shenikar/geofence_resolver/internal/geofence"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/sirupsen/logrus"
)

const tileLoadErrorMessage = "map tiles failed to load"

// SetAddress обновляет текст адреса и перезапускает дебаунс геокодирования
func (r *Router) SetAddress(ctx context.Context, query string) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() { r.handleAddress(query) })
}

// Click установка точки кликом по карте
func (r *Router) Click(ctx context.Context, lat, lng float64) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() { r.handlePointer("click", lat, lng) })
}

// DragEnd завершение перетаскивания маркера. Промежуточные позиции вызывающий не передаёт.
func (r *Router) DragEnd(ctx context.Context, lat, lng float64) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() { r.handlePointer("drag_end", lat, lng) })
}

func (r *Router) SetLatitude(ctx context.Context, lat float64) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() { r.handleAxis("latitude", lat, r.coords.SetLatitude) })
}

func (r *Router) SetLongitude(ctx context.Context, lng float64) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() { r.handleAxis("longitude", lng, r.coords.SetLongitude) })
}

func (r *Router) SetRadius(ctx context.Context, radius float64) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() { r.handleRadius("field", radius) })
}

// SetRadiusSlider слайдер уже ограничен диапазоном на стороне UI, контроллер всё равно приводит значение
func (r *Router) SetRadiusSlider(ctx context.Context, radius float64) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() { r.handleRadius("slider", radius) })
}

// TileLoadError нефатальная ошибка загрузки тайлов карты
func (r *Router) TileLoadError(ctx context.Context) (models.GeofenceState, error) {
	return r.dispatch(ctx, func() {
		r.logger.WithField("component", "interaction_router").Warn("Map surface reported tile load error")
		r.publish(&models.Notice{Kind: models.NoticeTileLoadError, Message: tileLoadErrorMessage})
	})
}

func (r *Router) handleAddress(query string) {
	r.state.AddressQuery = query
	r.stopDebounce()
	// Новый текст делает устаревшим любой выполняющийся запрос
	r.cancelLookup()
	r.state.Resolution = models.Resolution{Status: models.ResolutionIdle}

	if strings.TrimSpace(query) != "" {
		seq := r.debounceSeq
		r.timer = r.afterFunc(r.debounce, func() {
			r.post(func() { r.onDebounceFired(seq, query) })
		})
	}
	r.publish(nil)
}

func (r *Router) onDebounceFired(seq uint64, query string) {
	if seq != r.debounceSeq {
		return
	}
	r.timer = nil
	// Номер выдаётся в цикле до запуска запроса
	id := r.resolver.Issue()
	r.pendingID = id
	r.setPhase(PhaseAwaitingGeocode)
	r.state.Resolution = models.Resolution{Status: models.ResolutionPending}
	r.publish(nil)

	ctx := r.loopCtx
	go func() {
		res, err := r.resolver.ResolveIssued(ctx, id, query)
		r.post(func() { r.onGeocodeDone(id, res, err) })
	}()
}

func (r *Router) onGeocodeDone(id uint64, res models.GeocodeResult, err error) {
	log := r.logger.WithFields(logrus.Fields{
		"component":  "interaction_router",
		"method":     "onGeocodeDone",
		"request_id": id,
	})
	if errors.Is(err, geocode.ErrStaleResponse) {
		log.Debug("Stale geocode response ignored")
		return
	}
	// Между ответом и обработкой запрос мог быть отменён
	if id != r.pendingID {
		log.Debug("Superseded geocode response ignored")
		return
	}
	r.pendingID = 0

	r.setPhase(PhaseIdle)
	if err != nil {
		log.WithError(err).Info("Address resolution failed")
		r.state.Resolution = models.Resolution{Status: models.ResolutionFailed, ErrorMessage: err.Error()}
		r.publish(nil)
		return
	}

	adj, err := r.coords.SetCoordinate(res.Coordinate.Latitude, res.Coordinate.Longitude)
	if err != nil {
		r.state.Resolution = models.Resolution{Status: models.ResolutionFailed, ErrorMessage: err.Error()}
		r.publish(nil)
		return
	}
	r.state.Coordinate = &adj.Value
	r.state.Resolution = models.Resolution{Status: models.ResolutionResolved}
	r.publish(clampNotice(adj.Clamped, adj.Note))
}

// handlePointer клик и перетаскивание одинаково задают координату немедленно.
// Текст адреса не трогается: обратного геокодирования нет.
func (r *Router) handlePointer(source string, lat, lng float64) {
	adj, err := r.coords.SetCoordinate(lat, lng)
	if err != nil {
		r.rejectInput(source, err)
		return
	}
	r.stopDebounce()
	r.cancelLookup()
	r.state.Coordinate = &adj.Value
	r.state.Resolution = models.Resolution{Status: models.ResolutionIdle}
	r.publish(clampNotice(adj.Clamped, adj.Note))
}

func (r *Router) handleAxis(source string, value float64, set func(float64) (geofence.Adjustment[models.Coordinate], error)) {
	adj, err := set(value)
	if err != nil {
		r.rejectInput(source, err)
		return
	}
	r.stopDebounce()
	r.cancelLookup()
	r.state.Coordinate = &adj.Value
	r.state.Resolution = models.Resolution{Status: models.ResolutionIdle}
	r.publish(clampNotice(adj.Clamped, adj.Note))
}

func (r *Router) handleRadius(source string, value float64) {
	adj, err := r.radius.SetRadius(value)
	if err != nil {
		r.rejectInput("radius_"+source, err)
		return
	}
	r.state.Radius = adj.Value
	r.publish(clampNotice(adj.Clamped, adj.Note))
}

// rejectInput публикует прежний снимок без изменений вместе с сообщением об ошибке
func (r *Router) rejectInput(source string, err error) {
	r.logger.WithFields(logrus.Fields{
		"component": "interaction_router",
		"source":    source,
	}).WithError(err).Warn("Rejected invalid input")
	r.publish(&models.Notice{Kind: models.NoticeInvalidInput, Message: err.Error()})
}

func (r *Router) stopDebounce() {
	r.debounceSeq++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Router) cancelLookup() {
	if r.pendingID != 0 {
		r.resolver.Invalidate()
		r.pendingID = 0
	}
	r.setPhase(PhaseIdle)
}

func clampNotice(clamped bool, note string) *models.Notice {
	if !clamped {
		return nil
	}
	return &models.Notice{Kind: models.NoticeClampedInput, Message: note}
}
