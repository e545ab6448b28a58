package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNominatim(t *testing.T, handler http.HandlerFunc) *NominatimGeocoder {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewNominatimGeocoder(NominatimConfig{
		BaseURL:    server.URL,
		UserAgent:  "geofence-test",
		Timeout:    time.Second,
		RatePerSec: 1000,
	}, newSilentLogger())
}

func TestParseNominatimItems(t *testing.T) {
	items := []nominatimItem{
		{
			Lat:         "34.0200",
			Lon:         "-118.8000",
			DisplayName: "Sunrise Beach, Malibu",
			Importance:  0.61,
		},
	}
	coords, err := parseNominatimItems(items)
	require.NoError(t, err)
	assert.Equal(t, []models.Coordinate{{Latitude: 34.02, Longitude: -118.8}}, coords)
}

func TestParseNominatimItems_Empty(t *testing.T) {
	coords, err := parseNominatimItems(nil)
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestParseNominatimItems_BadNumber(t *testing.T) {
	_, err := parseNominatimItems([]nominatimItem{{Lat: "north", Lon: "1"}})
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNominatimGeocode_Success(t *testing.T) {
	geocoder := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Sunrise Beach", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "geofence-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"34.02","lon":"-118.80","display_name":"Sunrise Beach","importance":0.5}]`))
	})

	coords, err := geocoder.Geocode(context.Background(), "Sunrise Beach")

	require.NoError(t, err)
	assert.Equal(t, []models.Coordinate{{Latitude: 34.02, Longitude: -118.80}}, coords)
}

func TestNominatimGeocode_UpstreamStatus(t *testing.T) {
	geocoder := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := geocoder.Geocode(context.Background(), "anything")

	require.ErrorIs(t, err, ErrUpstreamStatus)
}

func TestNominatimGeocode_MalformedPayload(t *testing.T) {
	geocoder := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	})

	_, err := geocoder.Geocode(context.Background(), "anything")

	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNominatimGeocode_ThroughResolver(t *testing.T) {
	geocoder := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	resolver := NewResolver(geocoder, time.Second, newSilentLogger())

	_, err := resolver.Resolve(context.Background(), "nowhere at all")

	var gerr *GeocodeError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ReasonNotFound, gerr.Reason)
}
