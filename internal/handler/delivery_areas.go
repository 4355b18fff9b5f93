package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pizzaria-pos/api/internal/database"
)

// DeliveryAreaStore defines the database methods needed by delivery area handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type DeliveryAreaStore interface {
	ListActiveDeliveryAreas(ctx context.Context) ([]database.DeliveryArea, error)
	CreateDeliveryArea(ctx context.Context, arg database.CreateDeliveryAreaParams) (database.DeliveryArea, error)
	UpdateDeliveryArea(ctx context.Context, arg database.UpdateDeliveryAreaParams) (database.DeliveryArea, error)
	DeactivateDeliveryArea(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// DeliveryAreaHandler handles neighborhood delivery fee endpoints.
type DeliveryAreaHandler struct {
	store DeliveryAreaStore
}

// NewDeliveryAreaHandler creates a new DeliveryAreaHandler.
func NewDeliveryAreaHandler(store DeliveryAreaStore) *DeliveryAreaHandler {
	return &DeliveryAreaHandler{store: store}
}

// RegisterPublicRoutes registers the read-only endpoint: /delivery-areas
func (h *DeliveryAreaHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterRoutes registers delivery area CRUD endpoints: /admin/delivery-areas
func (h *DeliveryAreaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type deliveryAreaRequest struct {
	Neighborhood string `json:"neighborhood"`
	Fee          string `json:"fee"`
}

type deliveryAreaResponse struct {
	ID           uuid.UUID `json:"id"`
	Neighborhood string    `json:"neighborhood"`
	Fee          string    `json:"fee"`
}

func toDeliveryAreaResponse(a database.DeliveryArea) deliveryAreaResponse {
	return deliveryAreaResponse{ID: a.ID, Neighborhood: a.Neighborhood, Fee: numericToString(a.Fee)}
}

func decodeDeliveryAreaRequest(w http.ResponseWriter, r *http.Request) (string, pgtype.Numeric, bool) {
	var req deliveryAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", pgtype.Numeric{}, false
	}
	if req.Neighborhood == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "neighborhood is required"})
		return "", pgtype.Numeric{}, false
	}
	fee, err := parsePrice(req.Fee)
	if err != nil {
		writePriceError(w, "fee", err)
		return "", pgtype.Numeric{}, false
	}
	return req.Neighborhood, fee, true
}

// List returns all active delivery areas.
func (h *DeliveryAreaHandler) List(w http.ResponseWriter, r *http.Request) {
	areas, err := h.store.ListActiveDeliveryAreas(r.Context())
	if err != nil {
		log.Printf("ERROR: list delivery areas: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]deliveryAreaResponse, len(areas))
	for i, a := range areas {
		resp[i] = toDeliveryAreaResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a delivery area.
func (h *DeliveryAreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	neighborhood, fee, ok := decodeDeliveryAreaRequest(w, r)
	if !ok {
		return
	}

	area, err := h.store.CreateDeliveryArea(r.Context(), database.CreateDeliveryAreaParams{
		Neighborhood: neighborhood,
		Fee:          fee,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "neighborhood already exists"})
			return
		}
		log.Printf("ERROR: create delivery area: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toDeliveryAreaResponse(area))
}

// Update changes a delivery area's name or fee.
func (h *DeliveryAreaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery area ID"})
		return
	}

	neighborhood, fee, ok := decodeDeliveryAreaRequest(w, r)
	if !ok {
		return
	}

	area, err := h.store.UpdateDeliveryArea(r.Context(), database.UpdateDeliveryAreaParams{
		ID:           id,
		Neighborhood: neighborhood,
		Fee:          fee,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "delivery area not found"})
			return
		}
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "neighborhood already exists"})
			return
		}
		log.Printf("ERROR: update delivery area: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDeliveryAreaResponse(area))
}

// Delete deactivates a delivery area.
func (h *DeliveryAreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery area ID"})
		return
	}

	if _, err := h.store.DeactivateDeliveryArea(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "delivery area not found"})
			return
		}
		log.Printf("ERROR: deactivate delivery area: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
