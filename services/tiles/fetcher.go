package tiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geoview/poimap/models"
)

var (
	// ErrUpstreamStatus is returned when a provider answers with a non-200
	// status.
	ErrUpstreamStatus = errors.New("unexpected upstream status")

	// ErrTileTooLarge is returned when a provider response exceeds the body
	// limit.
	ErrTileTooLarge = errors.New("tile response too large")
)

// maxTileBytes caps a single tile response body.
const maxTileBytes = 2 << 20

// subdomains rotate into the {s} placeholder the way slippy-map clients do.
var subdomains = []string{"a", "b", "c"}

// FetcherConfig holds tile fetch settings.
type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultFetcherConfig returns sensible fetch defaults.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:   10 * time.Second,
		UserAgent: "poimap/1.0 (+https://github.com/geoview/poimap)",
	}
}

// Fetcher downloads single tiles from a provider endpoint.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with its own HTTP client.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// TileURL expands a provider URL template for the given tile address.
// {s} rotates deterministically across subdomains by tile position so
// neighbouring tiles spread over provider hosts.
func TileURL(desc models.ProviderDescriptor, z, x, y int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{s}", subdomains[(x+y)%len(subdomains)],
	)
	return r.Replace(desc.URLTemplate)
}

// Fetch downloads one tile. Returns the body, the response content type and
// an error when the provider could not serve the tile.
func (f *Fetcher) Fetch(ctx context.Context, desc models.ProviderDescriptor, z, x, y int) ([]byte, string, error) {
	url := TileURL(desc, z, x, y)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build tile request: %w", err)
	}
	// Public tile servers reject anonymous clients.
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/png,image/webp,image/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("tile request to %s failed: %w", desc.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %s returned %d", ErrUpstreamStatus, desc.ID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTileBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read tile body from %s: %w", desc.ID, err)
	}
	if len(data) > maxTileBytes {
		return nil, "", fmt.Errorf("%w: %s", ErrTileTooLarge, desc.ID)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return data, contentType, nil
}
