package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/geofence_resolver/internal/models"
)

//go:generate mockgen -source=geocode.go -destination=mocks/geocoder_mock.go -package=mocks

// Geocoder внешний сервис геокодирования. Возвращает ноль или один лучший результат
// и обязан вернуть ошибку при сбое сети или сервиса.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]models.Coordinate, error)
}

var (
	// ErrNotFound может вернуть коллаборатор вместо пустого списка
	ErrNotFound = errors.New("geocode not found")
	// ErrUpstreamStatus ответ сервиса с кодом вне 2xx
	ErrUpstreamStatus = errors.New("geocoder upstream status")
	// ErrMalformedPayload ответ сервиса не удалось разобрать
	ErrMalformedPayload = errors.New("geocoder malformed payload")
	// ErrStaleResponse ответ устарел: после него уже был выдан более новый запрос
	ErrStaleResponse = errors.New("stale geocode response discarded")
)

// Reason причина ошибки геокодирования
type Reason string

const (
	ReasonNotFound       Reason = "not_found"
	ReasonNetworkFailure Reason = "network_failure"
	ReasonServiceError   Reason = "service_error"
)

// GeocodeError ошибка, которую роутер показывает рядом с полем адреса
type GeocodeError struct {
	Reason    Reason
	Query     string
	RequestID uint64
	Err       error
}

func (e *GeocodeError) Error() string {
	switch e.Reason {
	case ReasonNotFound:
		return fmt.Sprintf("no location found for %q", e.Query)
	case ReasonServiceError:
		return fmt.Sprintf("geocoding service error for %q: %v", e.Query, e.Err)
	default:
		return fmt.Sprintf("geocoding request failed for %q: %v", e.Query, e.Err)
	}
}

func (e *GeocodeError) Unwrap() error {
	return e.Err
}

func classify(query string, id uint64, err error) *GeocodeError {
	reason := ReasonNetworkFailure
	switch {
	case errors.Is(err, ErrNotFound):
		reason = ReasonNotFound
	case errors.Is(err, ErrUpstreamStatus), errors.Is(err, ErrMalformedPayload):
		reason = ReasonServiceError
	}
	return &GeocodeError{Reason: reason, Query: query, RequestID: id, Err: err}
}
