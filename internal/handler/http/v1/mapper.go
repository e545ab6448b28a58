package v1

import (
	"math"
	"strconv"
	"strings"

	"github.com/shenikar/geofence_resolver/internal/models"
)

// ParseNumericField разбирает текст числового поля. Нечисловой текст даёт NaN,
// который ядро отклоняет как некорректный ввод.
func ParseNumericField(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ModelToStateResponse преобразует снимок в DTO для ответа
func ModelToStateResponse(state models.GeofenceState) StateResponse {
	resp := StateResponse{
		RadiusMeters:     state.Radius,
		AddressQuery:     state.AddressQuery,
		ResolutionStatus: string(state.Resolution.Status),
		ResolutionError:  state.Resolution.ErrorMessage,
		DistanceKm:       state.DistanceKm,
		AreaHectares:     state.AreaHectares,
		Revision:         state.Revision,
	}
	if state.Coordinate != nil {
		resp.Coordinate = &CoordinateResponse{
			Latitude:  state.Coordinate.Latitude,
			Longitude: state.Coordinate.Longitude,
		}
	}
	if state.Notice != nil {
		resp.Notice = &NoticeResponse{
			Kind:    string(state.Notice.Kind),
			Message: state.Notice.Message,
		}
	}
	return resp
}

// ModelToGeofenceResponse преобразует доменную модель в DTO для ответа
func ModelToGeofenceResponse(model *models.Geofence) *GeofenceResponse {
	return &GeofenceResponse{
		ID:           model.ID,
		SessionID:    model.SessionID,
		Name:         model.Name,
		Address:      model.Address,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
		RadiusMeters: model.RadiusMeters,
		CreatedAt:    model.CreatedAt,
	}
}

// ModelsToGeofenceResponses преобразует слайс моделей в слайс DTO
func ModelsToGeofenceResponses(models []*models.Geofence) []*GeofenceResponse {
	responses := make([]*GeofenceResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToGeofenceResponse(model)
	}
	return responses
}
