package poi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/geoview/poimap/models"
	"go.uber.org/zap"
)

// ErrNoValidPOIs is returned when a source contains no entry with usable
// coordinates.
var ErrNoValidPOIs = errors.New("poi source has no valid entries")

// Service holds the POI set served to map clients. Entries whose coordinates
// cannot be read as a [lat, lon] pair are filtered out at load time; consumers
// only ever see the valid set.
type Service struct {
	pois   []models.POI
	bounds models.Bounds
	logger *zap.Logger
}

// NewService builds a POI service from an already-decoded set.
func NewService(pois []models.POI, logger *zap.Logger) (*Service, error) {
	valid := make([]models.POI, 0, len(pois))
	dropped := 0
	var bounds models.Bounds
	first := true

	for _, p := range pois {
		lat, lon, ok := p.LatLon()
		if !ok {
			dropped++
			logger.Warn("dropping poi with malformed coords",
				zap.String("id", p.ID),
				zap.String("title", p.Title))
			continue
		}
		if first {
			bounds = models.NewBounds(lat, lon)
			first = false
		} else {
			bounds.Extend(lat, lon)
		}
		valid = append(valid, p)
	}

	if dropped > 0 {
		logger.Info("filtered poi set",
			zap.Int("kept", len(valid)),
			zap.Int("dropped", dropped))
	}
	if len(valid) == 0 {
		return nil, ErrNoValidPOIs
	}

	return &Service{pois: valid, bounds: bounds, logger: logger}, nil
}

// LoadService reads a JSON array of POIs from path.
func LoadService(path string, logger *zap.Logger) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading poi file: %w", err)
	}

	var pois []models.POI
	if err := json.Unmarshal(data, &pois); err != nil {
		return nil, fmt.Errorf("parsing poi file %s: %w", path, err)
	}

	return NewService(pois, logger)
}

// DefaultService returns a service over the built-in sample set, used when
// no POI file is configured.
func DefaultService(logger *zap.Logger) *Service {
	svc, err := NewService(samplePOIs(), logger)
	if err != nil {
		// The sample set is static and valid.
		panic(fmt.Sprintf("building default poi service: %v", err))
	}
	return svc
}

// List returns the valid POI set in source order.
func (s *Service) List() []models.POI {
	out := make([]models.POI, len(s.pois))
	copy(out, s.pois)
	return out
}

// Bounds returns the bounding box of the valid set, suitable as a map
// fit-bounds input.
func (s *Service) Bounds() models.Bounds {
	return s.bounds
}

// Count returns the number of valid POIs.
func (s *Service) Count() int {
	return len(s.pois)
}

func samplePOIs() []models.POI {
	return []models.POI{
		{
			ID:          "ferry-building",
			Coords:      []float64{37.7955, -122.3937},
			Title:       "Ferry Building",
			Description: "Historic marketplace on the Embarcadero.",
		},
		{
			ID:          "coit-tower",
			Coords:      []float64{37.8024, -122.4058},
			Title:       "Coit Tower",
			Description: "Art deco tower on Telegraph Hill.",
		},
		{
			ID:          "golden-gate-bridge",
			Coords:      []float64{37.8199, -122.4783},
			Title:       "Golden Gate Bridge",
			Description: "Suspension bridge across the Golden Gate strait.",
		},
		{
			ID:          "palace-fine-arts",
			Coords:      []float64{37.8029, -122.4484},
			Title:       "Palace of Fine Arts",
			Description: "Monumental rotunda from the 1915 exposition.",
		},
	}
}
