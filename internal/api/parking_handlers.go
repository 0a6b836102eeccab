package api

import (
	"net/http"

	"parkspot/internal/service"
)

type ParkingHandler struct {
	Service *service.ParkingService
}

func NewParkingHandler(svc *service.ParkingService) *ParkingHandler {
	return &ParkingHandler{Service: svc}
}

func (h *ParkingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.AvailableSpots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *ParkingHandler) SearchSpots(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagingParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.Service.SearchSpots(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
