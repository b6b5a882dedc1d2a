package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/geoview/poimap/models"
	"go.uber.org/zap"
)

var (
	// ErrLocateUnavailable is returned when the geolocation endpoint cannot
	// be reached or returns a non-200 status.
	ErrLocateUnavailable = errors.New("geolocation unavailable")

	// ErrLocateDenied is returned when the endpoint refuses the request.
	ErrLocateDenied = errors.New("geolocation denied")
)

// Center is a map center with zoom, JSON-shaped for the map client.
type Center struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Zoom    int     `json:"zoom"`
	Located bool    `json:"located"`
}

// Config holds geolocation settings. Endpoint may be empty, in which case
// Locate always falls back to the default center.
type Config struct {
	Endpoint      string
	Timeout       time.Duration
	DefaultCenter Center
}

// DefaultConfig returns geolocation defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
		DefaultCenter: Center{
			Lat:  37.7749,
			Lon:  -122.4194,
			Zoom: 13,
		},
	}
}

// Service resolves the initial map center with a one-shot locate call.
// Locate failures are logged and absorbed; callers always get a usable
// center and the tile fallback machinery is never involved.
type Service struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewService creates a geolocation service.
func NewService(cfg Config, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// locateResponse is the wire shape of the upstream geolocation endpoint.
type locateResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locate returns the map center. When the endpoint is unset, unreachable,
// or returns unusable coordinates, the configured default center is
// returned with Located=false.
func (s *Service) Locate(ctx context.Context) Center {
	if s.cfg.Endpoint == "" {
		return s.cfg.DefaultCenter
	}

	center, err := s.locate(ctx)
	if err != nil {
		s.logger.Warn("geolocation failed, using default center",
			zap.String("endpoint", s.cfg.Endpoint),
			zap.Error(err))
		return s.cfg.DefaultCenter
	}
	return center
}

func (s *Service) locate(ctx context.Context) (Center, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Endpoint, nil)
	if err != nil {
		return Center{}, fmt.Errorf("building locate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Center{}, fmt.Errorf("%w: %v", ErrLocateUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return Center{}, fmt.Errorf("%w: status %d", ErrLocateDenied, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return Center{}, fmt.Errorf("%w: status %d", ErrLocateUnavailable, resp.StatusCode)
	}

	var body locateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Center{}, fmt.Errorf("%w: decoding response: %v", ErrLocateUnavailable, err)
	}
	if !models.ValidLatLon(body.Latitude, body.Longitude) {
		return Center{}, fmt.Errorf("%w: coords out of range", ErrLocateUnavailable)
	}

	return Center{
		Lat:     body.Latitude,
		Lon:     body.Longitude,
		Zoom:    s.cfg.DefaultCenter.Zoom,
		Located: true,
	}, nil
}
