package handlers

import (
	"net/http"
	"strconv"

	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/delivery"
)

// DeliveryHandler handles HTTP requests for delivery resources and their dispatch.
type DeliveryHandler struct {
	usecase deliveryUsecase
	logger  logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase) *DeliveryHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DeliveryHandler{usecase: uc, logger: logger}
}

// Create handles POST /deliveries.
// @Summary Создать доставку
// @Tags deliveries
// @Accept json
// @Produce json
// @Success 201 {object} deliveryDTO
// @Failure 400 {object} ErrorResponse "invalid input"
// @Router /deliveries [post]
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d := req.toModel()
	if err := h.usecase.Create(r.Context(), d); err != nil {
		writeDomainError(h.logger, w, r, err, "delivery not found")
		return
	}
	w.Header().Set("Location", "/deliveries/"+strconv.FormatInt(d.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, deliveryToResponse(d))
}

// Get handles GET /deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deliveryID(w, r)
	if !ok {
		return
	}
	d, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
}

// Dispatch handles POST /deliveries/{id}/dispatch.
// @Summary Запустить поиск курьера
// @Tags deliveries
// @Accept json
// @Produce json
// @Success 202 {object} sessionDTO
// @Failure 404 {object} ErrorResponse "delivery not found"
// @Failure 409 {object} ErrorResponse "conflict"
// @Router /deliveries/{id}/dispatch [post]
func (h *DeliveryHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deliveryID(w, r)
	if !ok {
		return
	}
	var req dispatchRequest
	if r.ContentLength != 0 {
		if ok := decodeJSON(h.logger, w, r, &req); !ok {
			return
		}
	}

	cmd := delivery.DispatchCommand{
		DeliveryID:     id,
		MaxDistanceKm:  req.MaxDistanceKm,
		Capability:     req.Capability,
		CustomerHandle: req.CustomerHandle,
	}
	if req.Origin != nil {
		o := req.Origin.toModel()
		cmd.Origin = &o
	}

	info, err := h.usecase.Dispatch(r.Context(), cmd)
	if err != nil {
		writeDomainError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusAccepted, sessionToResponse(info))
}

// Accept handles POST /deliveries/{id}/accept.
func (h *DeliveryHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deliveryID(w, r)
	if !ok {
		return
	}
	var req courierEventRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.usecase.Accept(r.Context(), id, req.CourierID); err != nil {
		writeDomainError(h.logger, w, r, err, "dispatch session not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"delivery_id": id, "courier_id": req.CourierID, "status": "accepted"})
}

// Reject handles POST /deliveries/{id}/reject.
func (h *DeliveryHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deliveryID(w, r)
	if !ok {
		return
	}
	var req courierEventRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.usecase.Reject(r.Context(), id, req.CourierID, req.Reason); err != nil {
		writeDomainError(h.logger, w, r, err, "dispatch session not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"delivery_id": id, "courier_id": req.CourierID, "status": "rejected"})
}

// Cancel handles POST /deliveries/{id}/cancel.
func (h *DeliveryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deliveryID(w, r)
	if !ok {
		return
	}
	if err := h.usecase.Cancel(r.Context(), id); err != nil {
		writeDomainError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"delivery_id": id, "status": "cancelled"})
}

// Session handles GET /deliveries/{id}/session.
func (h *DeliveryHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deliveryID(w, r)
	if !ok {
		return
	}
	info, err := h.usecase.Session(id)
	if err != nil {
		writeDomainError(h.logger, w, r, err, "dispatch session not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sessionToResponse(info))
}

func (h *DeliveryHandler) deliveryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
