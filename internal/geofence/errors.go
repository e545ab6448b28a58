package geofence

import "errors"

// ErrInvalidInput возвращается, если значение не является конечным числом
var ErrInvalidInput = errors.New("invalid input")

// Adjustment результат принятого изменения. Clamped выставляется, когда значение
// было приведено к ближайшей границе допустимого диапазона.
type Adjustment[T any] struct {
	Value   T
	Clamped bool
	Note    string
}
