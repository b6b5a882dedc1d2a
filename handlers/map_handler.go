package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/geoview/poimap/app"
	"github.com/geoview/poimap/models"
	"github.com/geoview/poimap/utils"
)

// MapStateResponse is the response body for GET /api/v1/map/state
type MapStateResponse struct {
	Selection      string                    `json:"selection"`
	AttemptIndex   int                       `json:"attempt_index"`
	ActiveProvider models.ProviderDescriptor `json:"active_provider"`
	StatusMessage  string                    `json:"status_message"`
	RedrawVersion  uint64                    `json:"redraw_version"`
}

// SelectLayerRequest is the request body for POST /api/v1/map/layer
type SelectLayerRequest struct {
	Layer string `json:"layer" validate:"required,oneof=baseline fallback"`
}

// TileEventRequest is the request body for POST /api/v1/map/tiles/events.
// Browser-side map surfaces report their own tile outcomes through it; the
// attempt index they captured when the layer was handed to them rides along
// so stale reports are discarded.
type TileEventRequest struct {
	Attempt int    `json:"attempt"`
	Result  string `json:"result" validate:"required,oneof=load error"`
	URL     string `json:"url,omitempty"`
}

// ProvidersResponse is the response body for GET /api/v1/map/providers
type ProvidersResponse struct {
	Baseline  models.ProviderDescriptor   `json:"baseline"`
	Fallbacks []models.ProviderDescriptor `json:"fallbacks"`
}

// MapStateHandler reports the current fallback state
func MapStateHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := deps.Controller.State()
		respondJSON(w, http.StatusOK, SuccessResponse{
			Data: MapStateResponse{
				Selection:      state.Selection.String(),
				AttemptIndex:   state.AttemptIndex,
				ActiveProvider: deps.Controller.ActiveDescriptor(),
				StatusMessage:  state.StatusMessage,
				RedrawVersion:  deps.Proxy.RedrawVersion(),
			},
		})
	}
}

// SelectLayerHandler switches between the baseline layer and the fallback
// sequence
func SelectLayerHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectLayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		switch req.Layer {
		case "baseline":
			deps.Controller.SelectBaseline()
		case "fallback":
			deps.Controller.SelectFallback()
		}

		state := deps.Controller.State()
		respondJSON(w, http.StatusOK, SuccessResponse{
			Data: MapStateResponse{
				Selection:      state.Selection.String(),
				AttemptIndex:   state.AttemptIndex,
				ActiveProvider: deps.Controller.ActiveDescriptor(),
				StatusMessage:  state.StatusMessage,
				RedrawVersion:  deps.Proxy.RedrawVersion(),
			},
		})
	}
}

// TileEventHandler accepts tile load outcomes from browser-side surfaces.
// The events feed the same controller entry points as the tile proxy; a tile
// error is input data, never a request failure.
func TileEventHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TileEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		if req.Attempt < 0 {
			respondError(w, http.StatusBadRequest, "validation_failed", "attempt must be non-negative")
			return
		}

		switch req.Result {
		case "load":
			deps.Controller.OnTileLoadSuccess(req.Attempt)
		case "error":
			deps.Controller.OnTileLoadError(req.Attempt)
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

// ListProvidersHandler returns the provider catalog in fallback order
func ListProvidersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, SuccessResponse{
			Data: ProvidersResponse{
				Baseline:  deps.Catalog.Baseline(),
				Fallbacks: deps.Catalog.Providers(),
			},
		})
	}
}

// MapCenterHandler resolves the initial map center. Locate failures are
// absorbed by the geo service, so this always succeeds.
func MapCenterHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		center := deps.Geo.Locate(r.Context())
		respondJSON(w, http.StatusOK, SuccessResponse{Data: center})
	}
}
