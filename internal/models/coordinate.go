package models

// Coordinate представляет точку в WGS84
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodeResult результат геокодирования, привязанный к номеру запроса
type GeocodeResult struct {
	Coordinate Coordinate `json:"coordinate"`
	RequestID  uint64     `json:"request_id"`
}
