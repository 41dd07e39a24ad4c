package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/logx"
)

// CourierHandler serves HTTP endpoints for courier resources.
type CourierHandler struct {
	uc       courierUsecase
	presence presenceLister
	logger   logx.Logger
}

// NewCourierHandler wires a courier usecase and the presence registry into HTTP handlers.
func NewCourierHandler(logger logx.Logger, uc courierUsecase, presence presenceLister) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{uc: uc, presence: presence, logger: logger}
}

// GetByID handles GET /couriers/{id}.
func (h *CourierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	c, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err, "courier not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, courierToResponse(*c))
}

// List handles GET /couriers.
func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := optionalInt(r, "limit")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, ok := optionalInt(r, "offset")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid offset")
		return
	}

	list, err := h.uc.List(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(h.logger, w, r, err, "not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, couriersToResponse(list))
}

// Create handles POST /couriers.
func (h *CourierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourierRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	id, err := h.uc.Create(r.Context(), req.toModel())
	switch {
	case err == nil:
		w.Header().Set("Location", "/couriers/"+strconv.FormatInt(id, 10))
		writeJSON(h.logger, w, r, http.StatusCreated, map[string]any{"id": id})
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "phone already exists")
	default:
		writeDomainError(h.logger, w, r, err, "not found")
	}
}

// UpdateStatus handles PATCH /couriers/{id}/status.
func (h *CourierHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	if err := h.uc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeDomainError(h.logger, w, r, err, "courier not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// Online handles GET /couriers/online.
// ?capability= filters available couriers serving it, ?all=true includes unavailable ones.
func (h *CourierHandler) Online(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("all") == "true" {
		writeJSON(h.logger, w, r, http.StatusOK, presencesToResponse(h.presence.All()))
		return
	}
	limit, ok := optionalInt(r, "limit")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
		return
	}
	max := 0
	if limit != nil {
		max = *limit
	}
	writeJSON(h.logger, w, r, http.StatusOK, presencesToResponse(h.presence.Snapshot(q.Get("capability"), max)))
}
