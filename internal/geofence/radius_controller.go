package geofence

import (
	"fmt"
	"math"
)

// RadiusController хранит текущий радиус поиска в метрах
type RadiusController struct {
	min     float64
	max     float64
	current float64
}

// NewRadiusController создает контроллер; initial приводится к диапазону [min, max]
func NewRadiusController(min, max, initial float64) (*RadiusController, error) {
	if !isFinite(min) || !isFinite(max) || min <= 0 || min > max {
		return nil, fmt.Errorf("%w: radius bounds must satisfy 0 < min <= max, got [%g, %g]", ErrInvalidInput, min, max)
	}
	if !isFinite(initial) {
		initial = min
	}
	value, _ := clamp(initial, min, max)
	return &RadiusController{min: min, max: max, current: value}, nil
}

// SetRadius меняет радиус; нечисловое значение отклоняется, предыдущее сохраняется
func (rc *RadiusController) SetRadius(value float64) (Adjustment[float64], error) {
	if !isFinite(value) {
		return Adjustment[float64]{}, fmt.Errorf("%w: radius must be a finite number", ErrInvalidInput)
	}
	clamped, wasClamped := clamp(value, rc.min, rc.max)
	rc.current = clamped

	adj := Adjustment[float64]{Value: clamped, Clamped: wasClamped}
	if wasClamped {
		adj.Note = fmt.Sprintf("radius clamped to [%g, %g]", rc.min, rc.max)
	}
	return adj, nil
}

func (rc *RadiusController) Current() float64 {
	return rc.current
}

func (rc *RadiusController) Bounds() (float64, float64) {
	return rc.min, rc.max
}

func (rc *RadiusController) DistanceKm(radius float64) float64 {
	return radius / 1000
}

// AreaSquareMeters площадь плоского круга, без геодезической поправки
func (rc *RadiusController) AreaSquareMeters(radius float64) float64 {
	return math.Pi * radius * radius
}

func (rc *RadiusController) AreaHectares(radius float64) float64 {
	return rc.AreaSquareMeters(radius) / 10000
}
