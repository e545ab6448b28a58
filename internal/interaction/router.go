package interaction

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shenikar/geofence_resolver/internal/geofence"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrRouterClosed  = errors.New("interaction router is closed")
	ErrRouterRunning = errors.New("interaction router is already running")
)

// Phase состояние автомата согласования
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseAwaitingGeocode
)

func (p Phase) String() string {
	if p == PhaseAwaitingGeocode {
		return "awaiting_geocode"
	}
	return "idle"
}

// AddressResolver контракт геокодирования, который нужен роутеру
type AddressResolver interface {
	Issue() uint64
	ResolveIssued(ctx context.Context, id uint64, query string) (models.GeocodeResult, error)
	Invalidate() uint64
}

// MapRenderer приёмник центра и радиуса на стороне карты
type MapRenderer interface {
	Render(center models.Coordinate, radius float64)
}

// Timer останавливаемый таймер дебаунса
type Timer interface {
	Stop() bool
}

// AfterFunc планирует f через d. По умолчанию time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

type Option func(*Router)

func WithAfterFunc(f AfterFunc) Option {
	return func(r *Router) {
		r.afterFunc = f
	}
}

func WithRenderer(renderer MapRenderer) Option {
	return func(r *Router) {
		r.renderer = renderer
	}
}

// Router единственная точка записи в CoordinateStore и RadiusController.
// Все намерения, срабатывания дебаунса и ответы геокодера обрабатываются
// по одному в горутине Run.
type Router struct {
	coords    *geofence.CoordinateStore
	radius    *geofence.RadiusController
	resolver  AddressResolver
	logger    *logrus.Logger
	debounce  time.Duration
	afterFunc AfterFunc
	renderer  MapRenderer

	events  chan func()
	done    chan struct{}
	running atomic.Bool

	// Поля ниже принадлежат горутине Run
	loopCtx     context.Context
	state       models.GeofenceState
	timer       Timer
	debounceSeq uint64
	pendingID   uint64 // номер ожидаемого ответа геокодера, 0 если запроса нет

	phase     atomic.Int32
	published atomic.Pointer[models.GeofenceState]

	subMu       sync.RWMutex
	subscribers map[int]func(models.GeofenceState)
	nextSub     int
}

func NewRouter(
	coords *geofence.CoordinateStore,
	radius *geofence.RadiusController,
	resolver AddressResolver,
	logger *logrus.Logger,
	debounce time.Duration,
	opts ...Option,
) *Router {
	r := &Router{
		coords:      coords,
		radius:      radius,
		resolver:    resolver,
		logger:      logger,
		debounce:    debounce,
		afterFunc:   func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		events:      make(chan func(), 64),
		done:        make(chan struct{}),
		subscribers: make(map[int]func(models.GeofenceState)),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.state = models.GeofenceState{
		Coordinate: coords.Current(),
		Radius:     radius.Current(),
		Resolution: models.Resolution{Status: models.ResolutionIdle},
	}
	r.state.DistanceKm = radius.DistanceKm(r.state.Radius)
	r.state.AreaHectares = radius.AreaHectares(r.state.Radius)
	initial := r.state.Clone()
	r.published.Store(&initial)
	return r
}

// Run обрабатывает события до отмены ctx. Повторный запуск запрещён.
func (r *Router) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRouterRunning
	}
	r.loopCtx = ctx
	defer close(r.done)

	log := r.logger.WithField("component", "interaction_router")
	log.Debug("Interaction router started")
	for {
		select {
		case <-ctx.Done():
			r.stopDebounce()
			log.Debug("Interaction router stopped")
			return ctx.Err()
		case fn := <-r.events:
			fn()
		}
	}
}

// Done закрывается после выхода из Run
func (r *Router) Done() <-chan struct{} {
	return r.done
}

// State последний опубликованный снимок
func (r *Router) State() models.GeofenceState {
	return r.published.Load().Clone()
}

func (r *Router) Phase() Phase {
	return Phase(r.phase.Load())
}

// Subscribe регистрирует получателя снимков. Получатель вызывается в горутине Run
// и не должен синхронно вызывать методы намерений.
func (r *Router) Subscribe(fn func(models.GeofenceState)) func() {
	r.subMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subscribers[id] = fn
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subscribers, id)
		r.subMu.Unlock()
	}
}

// dispatch ставит намерение в очередь и ждёт снимок, который оно породило
func (r *Router) dispatch(ctx context.Context, apply func()) (models.GeofenceState, error) {
	reply := make(chan models.GeofenceState, 1)
	fn := func() {
		apply()
		reply <- r.state.Clone()
	}

	select {
	case r.events <- fn:
	case <-r.done:
		return models.GeofenceState{}, ErrRouterClosed
	case <-ctx.Done():
		return models.GeofenceState{}, ctx.Err()
	}

	select {
	case state := <-reply:
		return state, nil
	case <-r.done:
		return models.GeofenceState{}, ErrRouterClosed
	case <-ctx.Done():
		return models.GeofenceState{}, ctx.Err()
	}
}

// post возвращает асинхронное событие обратно в очередь
func (r *Router) post(fn func()) {
	select {
	case r.events <- fn:
	case <-r.done:
	}
}

func (r *Router) setPhase(p Phase) {
	r.phase.Store(int32(p))
}

func (r *Router) publish(notice *models.Notice) {
	r.state.Notice = notice
	r.state.DistanceKm = r.radius.DistanceKm(r.state.Radius)
	r.state.AreaHectares = r.radius.AreaHectares(r.state.Radius)
	r.state.Revision++

	snapshot := r.state.Clone()
	r.published.Store(&snapshot)

	if r.renderer != nil && snapshot.Coordinate != nil {
		r.renderer.Render(*snapshot.Coordinate, snapshot.Radius)
	}

	r.subMu.RLock()
	subs := make([]func(models.GeofenceState), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.subMu.RUnlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
}
