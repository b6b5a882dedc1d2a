package tiles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geoview/poimap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileURL(t *testing.T) {
	t.Run("expands z x y", func(t *testing.T) {
		desc := models.ProviderDescriptor{URLTemplate: "https://tile.example.org/{z}/{x}/{y}.png"}
		assert.Equal(t, "https://tile.example.org/12/2197/1420.png", TileURL(desc, 12, 2197, 1420))
	})

	t.Run("expands zyx order", func(t *testing.T) {
		desc := models.ProviderDescriptor{URLTemplate: "https://tiles.example.com/tile/{z}/{y}/{x}"}
		assert.Equal(t, "https://tiles.example.com/tile/3/2/1", TileURL(desc, 3, 1, 2))
	})

	t.Run("rotates subdomains deterministically", func(t *testing.T) {
		desc := models.ProviderDescriptor{URLTemplate: "https://{s}.tile.example.org/{z}/{x}/{y}.png"}
		assert.Equal(t, "https://a.tile.example.org/1/0/0.png", TileURL(desc, 1, 0, 0))
		assert.Equal(t, "https://b.tile.example.org/1/1/0.png", TileURL(desc, 1, 1, 0))
		assert.Equal(t, "https://c.tile.example.org/1/1/1.png", TileURL(desc, 1, 1, 1))
		// Same tile always maps to the same subdomain.
		assert.Equal(t, TileURL(desc, 1, 1, 0), TileURL(desc, 1, 1, 0))
	})
}

func TestFetcherFetch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotPath, gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		}))
		defer server.Close()

		fetcher := NewFetcher(DefaultFetcherConfig())
		desc := models.ProviderDescriptor{ID: "test", URLTemplate: server.URL + "/{z}/{x}/{y}.png", MaxZoom: 19}

		data, contentType, err := fetcher.Fetch(context.Background(), desc, 3, 4, 2)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, "/3/4/2.png", gotPath)
		assert.NotEmpty(t, gotAgent)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		fetcher := NewFetcher(DefaultFetcherConfig())
		desc := models.ProviderDescriptor{ID: "down", URLTemplate: server.URL + "/{z}/{x}/{y}.png", MaxZoom: 19}

		_, _, err := fetcher.Fetch(context.Background(), desc, 1, 0, 0)
		assert.ErrorIs(t, err, ErrUpstreamStatus)
	})

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // refuse connections

		fetcher := NewFetcher(DefaultFetcherConfig())
		desc := models.ProviderDescriptor{ID: "gone", URLTemplate: server.URL + "/{z}/{x}/{y}.png", MaxZoom: 19}

		_, _, err := fetcher.Fetch(context.Background(), desc, 1, 0, 0)
		assert.Error(t, err)
	})

	t.Run("sniffs content type when header missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header()["Content-Type"] = nil
			_, _ = w.Write([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a})
		}))
		defer server.Close()

		fetcher := NewFetcher(DefaultFetcherConfig())
		desc := models.ProviderDescriptor{ID: "raw", URLTemplate: server.URL + "/{z}/{x}/{y}", MaxZoom: 19}

		_, contentType, err := fetcher.Fetch(context.Background(), desc, 1, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, "image/png", contentType)
	})
}
