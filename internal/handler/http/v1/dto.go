package v1

import (
	"time"

	"github.com/google/uuid"
)

// CoordinateResponse точка на карте
// @Description Точка на карте
type CoordinateResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NoticeResponse нефатальное предупреждение для UI
// @Description Нефатальное предупреждение для UI
type NoticeResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// StateResponse DTO снимка состояния геозоны
// @Description Снимок состояния редактируемой геозоны
type StateResponse struct {
	Coordinate       *CoordinateResponse `json:"coordinate"`
	RadiusMeters     float64             `json:"radius_meters"`
	AddressQuery     string              `json:"address_query"`
	ResolutionStatus string              `json:"resolution_status"`
	ResolutionError  string              `json:"resolution_error,omitempty"`
	Notice           *NoticeResponse     `json:"notice,omitempty"`
	DistanceKm       float64             `json:"distance_km"`
	AreaHectares     float64             `json:"area_hectares"`
	Revision         uint64              `json:"revision"`
}

// SessionResponse DTO ответа на создание сессии
// @Description Новая сессия редактирования
type SessionResponse struct {
	SessionID uuid.UUID     `json:"session_id"`
	State     StateResponse `json:"state"`
}

// AddressRequest DTO правки строки адреса
// @Description Текст поля адреса
type AddressRequest struct {
	Query string `json:"query" validate:"max=512"`
}

// PointerRequest DTO клика или окончания перетаскивания маркера
// @Description Координаты указателя на карте
type PointerRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// ValueRequest DTO числового поля. Значение передаётся как введённый текст.
// @Description Текст числового поля
type ValueRequest struct {
	Value string `json:"value" validate:"max=64"`
}

// CommitRequest DTO фиксации геозоны
// @Description DTO фиксации геозоны
type CommitRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

// ContainsRequest DTO поиска геозон по точке
// @Description DTO поиска геозон по точке
type ContainsRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// GeofenceResponse DTO зафиксированной геозоны
// @Description Зафиксированная геозона
type GeofenceResponse struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters int       `json:"radius_meters"`
	CreatedAt    time.Time `json:"created_at"`
}
