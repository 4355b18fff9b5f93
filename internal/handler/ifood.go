package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pizzaria-pos/api/internal/orderstate"
	"github.com/pizzaria-pos/api/internal/service"
)

// IfoodIngester applies iFood webhook events.
// Satisfied by *service.OrderService.
type IfoodIngester interface {
	IngestIfood(ctx context.Context, ev service.IfoodEvent) (*service.IfoodResult, error)
}

// IfoodHandler receives the iFood order webhook.
type IfoodHandler struct {
	svc IfoodIngester
}

// NewIfoodHandler creates a new IfoodHandler.
func NewIfoodHandler(svc IfoodIngester) *IfoodHandler {
	return &IfoodHandler{svc: svc}
}

// RegisterRoutes registers the webhook endpoint: /integrations/ifood
// Expects RequireSharedToken to run first.
func (h *IfoodHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.Webhook)
}

type ifoodWebhookResponse struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Duplicate   bool   `json:"duplicate"`
}

// Webhook handles POST /integrations/ifood/webhook. A new order answers 201;
// status updates and re-deliveries answer 200.
func (h *IfoodHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var ev service.IfoodEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.svc.IngestIfood(r.Context(), ev)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIfoodUnmappable):
			log.Printf("WARN: ifood event %s for %s: %v", ev.Code, ev.OrderID, err)
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, orderstate.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: ingest ifood event: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	status := http.StatusOK
	if ev.Code == service.IfoodEventPlaced && !res.Duplicate {
		status = http.StatusCreated
	}
	writeJSON(w, status, ifoodWebhookResponse{
		OrderID:     res.Order.ID.String(),
		OrderNumber: res.Order.OrderNumber,
		Status:      res.Order.Status,
		Duplicate:   res.Duplicate,
	})
}
