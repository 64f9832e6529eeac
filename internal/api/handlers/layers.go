package handlers

import (
	"net/http"
	"transit-reachability-service/internal/api/dto"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/render"
	"transit-reachability-service/internal/services"

	"github.com/julienschmidt/httprouter"
)

// LayerHandler serves the latest run as GeoJSON feature collections.
type LayerHandler struct {
	Results      *ResultStore
	CircleRadius int
}

func (h *LayerHandler) latest(w http.ResponseWriter, r *http.Request) (*services.RunResult, bool) {
	result, _ := h.Results.Latest()
	if result == nil {
		writeError(w, r, http.StatusServiceUnavailable, "no reachability run has completed yet")
		return nil, false
	}
	return result, true
}

func (h *LayerHandler) Destinations(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DestinationCollection(result.Destinations))
}

func (h *LayerHandler) Stops(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}
	markers := render.StopMarkers(result.Stops, result.Colors, h.CircleRadius)
	writeJSON(w, r, http.StatusOK, dto.StopCollection(markers))
}

func (h *LayerHandler) Districts(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}
	layers := render.DistrictLayers(result.Districts, result.Colors)
	writeJSON(w, r, http.StatusOK, dto.DistrictCollection(layers))
}

func (h *LayerHandler) District(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}

	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	for _, d := range result.Districts {
		if d.Name != name {
			continue
		}
		layers := render.DistrictLayers([]*domain.District{d}, result.Colors)
		writeJSON(w, r, http.StatusOK, dto.DistrictFeature(layers[0]))
		return
	}

	writeError(w, r, http.StatusNotFound, "district not found")
}
