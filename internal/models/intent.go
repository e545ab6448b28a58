package models

// IntentKind источник правки, пришедший от UI
type IntentKind string

const (
	IntentAddress       IntentKind = "address"
	IntentClick         IntentKind = "click"
	IntentDragEnd       IntentKind = "drag_end"
	IntentLatitude      IntentKind = "latitude"
	IntentLongitude     IntentKind = "longitude"
	IntentRadius        IntentKind = "radius"
	IntentRadiusSlider  IntentKind = "radius_slider"
	IntentTileLoadError IntentKind = "tile_load_error"
)

// Intent одно намерение пользователя. Используются только поля, относящиеся к Kind.
type Intent struct {
	Kind      IntentKind
	Query     string
	Latitude  float64
	Longitude float64
	Value     float64
}
