package models

// ResolutionStatus состояние разрешения адреса
type ResolutionStatus string

const (
	ResolutionIdle     ResolutionStatus = "idle"
	ResolutionPending  ResolutionStatus = "pending"
	ResolutionResolved ResolutionStatus = "resolved"
	ResolutionFailed   ResolutionStatus = "failed"
)

type Resolution struct {
	Status       ResolutionStatus `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

// NoticeKind тип нефатального предупреждения для UI
type NoticeKind string

const (
	NoticeClampedInput  NoticeKind = "clamped_input"
	NoticeInvalidInput  NoticeKind = "invalid_input"
	NoticeTileLoadError NoticeKind = "tile_load_error"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// GeofenceState снимок состояния, который публикуется после каждого принятого изменения.
// Coordinate равен nil, пока местоположение ни разу не было установлено.
type GeofenceState struct {
	Coordinate   *Coordinate `json:"coordinate"`
	Radius       float64     `json:"radius"`
	AddressQuery string      `json:"address_query"`
	Resolution   Resolution  `json:"resolution"`
	Notice       *Notice     `json:"notice,omitempty"`
	DistanceKm   float64     `json:"distance_km"`
	AreaHectares float64     `json:"area_hectares"`
	Revision     uint64      `json:"revision"`
}

// Clone возвращает копию без общих указателей
func (s GeofenceState) Clone() GeofenceState {
	out := s
	if s.Coordinate != nil {
		c := *s.Coordinate
		out.Coordinate = &c
	}
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	return out
}
