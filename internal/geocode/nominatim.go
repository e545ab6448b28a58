package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "geofence-resolver/1.0"
)

// NominatimConfig параметры клиента OSM Nominatim
type NominatimConfig struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RatePerSec float64
}

// NominatimGeocoder геокодер поверх публичного API Nominatim.
// Политика использования допускает не больше одного запроса в секунду.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	logger    *logrus.Logger
}

type nominatimItem struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

func NewNominatimGeocoder(cfg NominatimConfig, logger *logrus.Logger) *NominatimGeocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	return &NominatimGeocoder{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:    logger,
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) ([]models.Coordinate, error) {
	log := g.logger.WithFields(logrus.Fields{
		"component": "nominatim",
		"method":    "Geocode",
	})

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim rate limiter: %w", err)
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("limit", "1")
	endpoint := fmt.Sprintf("%s/search?%s", g.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Nominatim request failed")
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithField("status", resp.StatusCode).Warn("Nominatim upstream error")
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}

	var items []nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return parseNominatimItems(items)
}

func parseNominatimItems(items []nominatimItem) ([]models.Coordinate, error) {
	if len(items) == 0 {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(items[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q", ErrMalformedPayload, items[0].Lat)
	}
	lon, err := strconv.ParseFloat(items[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q", ErrMalformedPayload, items[0].Lon)
	}
	return []models.Coordinate{{Latitude: lat, Longitude: lon}}, nil
}
