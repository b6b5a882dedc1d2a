package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/geoview/poimap/app"
	"github.com/geoview/poimap/services/tiles"
	"github.com/geoview/poimap/utils"
	"github.com/go-chi/chi/v5"
)

// TileHandler serves tiles from the currently mounted layer. Upstream
// failures surface as 502 to this one request; the fallback controller has
// already absorbed the outcome as state-machine input by the time the
// response is written.
func TileHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, errZ := strconv.Atoi(chi.URLParam(r, "z"))
		x, errX := strconv.Atoi(chi.URLParam(r, "x"))
		y, errY := strconv.Atoi(chi.URLParam(r, "y"))
		if errZ != nil || errX != nil || errY != nil {
			_ = utils.WriteBadRequest(w, "tile coordinates must be integers", nil)
			return
		}

		data, contentType, err := deps.Proxy.ServeTile(r.Context(), z, x, y)
		if err != nil {
			switch {
			case errors.Is(err, tiles.ErrTileOutOfRange):
				_ = utils.WriteNotFound(w, err.Error())
			case errors.Is(err, tiles.ErrNoLayerMounted):
				_ = utils.WriteInternalServerError(w, err.Error())
			default:
				_ = utils.WriteBadGateway(w, "tile fetch failed")
			}
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(data)
	}
}
