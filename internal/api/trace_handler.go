package api

import (
	"net/http"

	"parkspot/internal/service"
)

type TraceHandler struct {
	Service *service.TraceService
}

func NewTraceHandler(svc *service.TraceService) *TraceHandler {
	return &TraceHandler{Service: svc}
}

func (h *TraceHandler) SearchTraces(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagingParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.Service.SearchTraces(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
