package tiles

import (
	"errors"
	"fmt"
	"os"

	"github.com/geoview/poimap/models"
	"github.com/geoview/poimap/utils"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyCatalog is returned when a catalog has no fallback providers.
	ErrEmptyCatalog = errors.New("tile catalog must contain at least one fallback provider")

	// ErrInvalidDescriptor is returned when a provider descriptor fails
	// validation.
	ErrInvalidDescriptor = errors.New("invalid provider descriptor")
)

// Catalog is the read-only, ordered list of fallback tile providers plus
// the always-available baseline descriptor. Index 0 is tried first; adding
// or removing providers never requires touching the state machine.
type Catalog struct {
	baseline  models.ProviderDescriptor
	providers []models.ProviderDescriptor
}

// catalogFile is the YAML shape of an on-disk catalog.
type catalogFile struct {
	Baseline  models.ProviderDescriptor   `yaml:"baseline"`
	Fallbacks []models.ProviderDescriptor `yaml:"fallbacks"`
}

// NewCatalog builds a catalog from a baseline descriptor and an ordered
// fallback list. Every descriptor is validated; order is preserved.
func NewCatalog(baseline models.ProviderDescriptor, providers []models.ProviderDescriptor) (*Catalog, error) {
	if len(providers) == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := validateDescriptor(baseline); err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	for i, desc := range providers {
		if err := validateDescriptor(desc); err != nil {
			return nil, fmt.Errorf("fallback %d (%s): %w", i, desc.ID, err)
		}
	}
	return &Catalog{
		baseline:  baseline,
		providers: append([]models.ProviderDescriptor(nil), providers...),
	}, nil
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return NewCatalog(file.Baseline, file.Fallbacks)
}

// DefaultCatalog returns the built-in configuration: an OSM baseline and
// three ordered fallback providers.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(
		models.ProviderDescriptor{
			ID:          "osm",
			URLTemplate: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors",
			MaxZoom:     19,
		},
		[]models.ProviderDescriptor{
			{
				ID:          "opentopomap",
				URLTemplate: "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
				Attribution: "© OpenStreetMap contributors, SRTM | © OpenTopoMap (CC-BY-SA)",
				MaxZoom:     17,
			},
			{
				ID:          "carto-voyager",
				URLTemplate: "https://{s}.basemaps.cartocdn.com/rastertiles/voyager/{z}/{x}/{y}.png",
				Attribution: "© OpenStreetMap contributors © CARTO",
				MaxZoom:     20,
			},
			{
				ID:          "esri-worldstreet",
				URLTemplate: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Street_Map/MapServer/tile/{z}/{y}/{x}",
				Attribution: "Tiles © Esri",
				MaxZoom:     19,
			},
		},
	)
	if err != nil {
		// The built-in descriptors are constants; this cannot fail.
		panic(err)
	}
	return catalog
}

// Len returns the number of fallback providers.
func (c *Catalog) Len() int {
	return len(c.providers)
}

// Provider returns the fallback descriptor at the given attempt index.
func (c *Catalog) Provider(i int) (models.ProviderDescriptor, bool) {
	if i < 0 || i >= len(c.providers) {
		return models.ProviderDescriptor{}, false
	}
	return c.providers[i], true
}

// Providers returns a copy of the ordered fallback list.
func (c *Catalog) Providers() []models.ProviderDescriptor {
	return append([]models.ProviderDescriptor(nil), c.providers...)
}

// Baseline returns the baseline descriptor.
func (c *Catalog) Baseline() models.ProviderDescriptor {
	return c.baseline
}

// validateDescriptor checks structural validity plus tile placeholders.
func validateDescriptor(desc models.ProviderDescriptor) error {
	if err := utils.ValidateStruct(desc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if !desc.HasTilePlaceholders() {
		return fmt.Errorf("%w: url template %q is missing {z}/{x}/{y} placeholders", ErrInvalidDescriptor, desc.URLTemplate)
	}
	return nil
}
