package handlers

import (
	"net/http"

	"github.com/geoview/poimap/app"
	"github.com/geoview/poimap/models"
)

// POIListResponse is the response body for GET /api/v1/pois. Bounds cover
// the returned set and feed the client's fitBounds call.
type POIListResponse struct {
	POIs   []models.POI  `json:"pois"`
	Bounds models.Bounds `json:"bounds"`
	Count  int           `json:"count"`
}

// ListPOIsHandler returns the valid POI set with its bounding box
func ListPOIsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, SuccessResponse{
			Data: POIListResponse{
				POIs:   deps.POIs.List(),
				Bounds: deps.POIs.Bounds(),
				Count:  deps.POIs.Count(),
			},
		})
	}
}
