package geofence

import (
	"fmt"
	"math"
	"strings"

	"github.com/shenikar/geofence_resolver/internal/models"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// CoordinateStore хранит текущую координату и следит за допустимыми диапазонами
type CoordinateStore struct {
	current       *models.Coordinate
	defaultCenter models.Coordinate
}

// NewCoordinateStore создает хранилище. defaultCenter используется как опорная точка
// для частичных изменений, пока координата ещё не установлена.
func NewCoordinateStore(defaultCenter models.Coordinate) *CoordinateStore {
	lat, _ := clamp(defaultCenter.Latitude, minLatitude, maxLatitude)
	lng, _ := clamp(defaultCenter.Longitude, minLongitude, maxLongitude)
	return &CoordinateStore{
		defaultCenter: models.Coordinate{Latitude: lat, Longitude: lng},
	}
}

// SetCoordinate меняет обе оси сразу
func (s *CoordinateStore) SetCoordinate(lat, lng float64) (Adjustment[models.Coordinate], error) {
	if !isFinite(lat) {
		return Adjustment[models.Coordinate]{}, fmt.Errorf("%w: latitude must be a finite number", ErrInvalidInput)
	}
	if !isFinite(lng) {
		return Adjustment[models.Coordinate]{}, fmt.Errorf("%w: longitude must be a finite number", ErrInvalidInput)
	}

	clampedLat, latClamped := clamp(lat, minLatitude, maxLatitude)
	clampedLng, lngClamped := clamp(lng, minLongitude, maxLongitude)

	var notes []string
	if latClamped {
		notes = append(notes, latitudeNote)
	}
	if lngClamped {
		notes = append(notes, longitudeNote)
	}

	coord := models.Coordinate{Latitude: clampedLat, Longitude: clampedLng}
	s.current = &coord
	return Adjustment[models.Coordinate]{
		Value:   coord,
		Clamped: latClamped || lngClamped,
		Note:    strings.Join(notes, "; "),
	}, nil
}

// SetLatitude меняет только широту, долгота сохраняет последнее валидное значение
func (s *CoordinateStore) SetLatitude(lat float64) (Adjustment[models.Coordinate], error) {
	if !isFinite(lat) {
		return Adjustment[models.Coordinate]{}, fmt.Errorf("%w: latitude must be a finite number", ErrInvalidInput)
	}
	base := s.base()
	value, clamped := clamp(lat, minLatitude, maxLatitude)
	base.Latitude = value
	s.current = &base

	adj := Adjustment[models.Coordinate]{Value: base, Clamped: clamped}
	if clamped {
		adj.Note = latitudeNote
	}
	return adj, nil
}

// SetLongitude меняет только долготу, широта сохраняет последнее валидное значение
func (s *CoordinateStore) SetLongitude(lng float64) (Adjustment[models.Coordinate], error) {
	if !isFinite(lng) {
		return Adjustment[models.Coordinate]{}, fmt.Errorf("%w: longitude must be a finite number", ErrInvalidInput)
	}
	base := s.base()
	value, clamped := clamp(lng, minLongitude, maxLongitude)
	base.Longitude = value
	s.current = &base

	adj := Adjustment[models.Coordinate]{Value: base, Clamped: clamped}
	if clamped {
		adj.Note = longitudeNote
	}
	return adj, nil
}

// Current возвращает копию текущей координаты или nil
func (s *CoordinateStore) Current() *models.Coordinate {
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *CoordinateStore) base() models.Coordinate {
	if s.current != nil {
		return *s.current
	}
	return s.defaultCenter
}

var (
	latitudeNote  = fmt.Sprintf("latitude clamped to [%g, %g]", minLatitude, maxLatitude)
	longitudeNote = fmt.Sprintf("longitude clamped to [%g, %g]", minLongitude, maxLongitude)
)

func clamp(v, lo, hi float64) (float64, bool) {
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	}
	return v, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
