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
	"github.com/pizzaria-pos/api/internal/database"
)

// ExtraStore defines the database methods needed by extra item handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ExtraStore interface {
	ListActiveExtras(ctx context.Context) ([]database.ExtraItem, error)
	CreateExtra(ctx context.Context, arg database.CreateExtraParams) (database.ExtraItem, error)
	UpdateExtra(ctx context.Context, arg database.UpdateExtraParams) (database.ExtraItem, error)
	DeactivateExtra(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ExtraHandler handles extra item (toppings, add-ons) endpoints.
type ExtraHandler struct {
	store ExtraStore
}

// NewExtraHandler creates a new ExtraHandler.
func NewExtraHandler(store ExtraStore) *ExtraHandler {
	return &ExtraHandler{store: store}
}

// RegisterPublicRoutes registers the read-only catalog endpoint: /catalog/extras
func (h *ExtraHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterRoutes registers extra item CRUD endpoints: /admin/extras
func (h *ExtraHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type extraRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	SizeName string `json:"size_name"`
}

type extraResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    string    `json:"price"`
	SizeName *string   `json:"size_name"`
}

func toExtraResponse(e database.ExtraItem) extraResponse {
	return extraResponse{
		ID:       e.ID,
		Name:     e.Name,
		Category: e.Category,
		Price:    numericToString(e.Price),
		SizeName: textPtr(e.SizeName),
	}
}

// decodeExtraRequest validates the body and returns it with the parsed price.
func decodeExtraRequest(w http.ResponseWriter, r *http.Request) (database.CreateExtraParams, bool) {
	var req extraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return database.CreateExtraParams{}, false
	}
	if req.Name == "" || req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and category are required"})
		return database.CreateExtraParams{}, false
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		writePriceError(w, "price", err)
		return database.CreateExtraParams{}, false
	}
	return database.CreateExtraParams{
		Name:     req.Name,
		Category: req.Category,
		Price:    price,
		SizeName: optionalText(req.SizeName),
	}, true
}

// List returns all active extras.
func (h *ExtraHandler) List(w http.ResponseWriter, r *http.Request) {
	extras, err := h.store.ListActiveExtras(r.Context())
	if err != nil {
		log.Printf("ERROR: list extras: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]extraResponse, len(extras))
	for i, e := range extras {
		resp[i] = toExtraResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds an extra. A size_name limits it to pizzas of that size.
func (h *ExtraHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeExtraRequest(w, r)
	if !ok {
		return
	}

	extra, err := h.store.CreateExtra(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: create extra: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toExtraResponse(extra))
}

// Update modifies an active extra.
func (h *ExtraHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid extra ID"})
		return
	}

	params, ok := decodeExtraRequest(w, r)
	if !ok {
		return
	}

	extra, err := h.store.UpdateExtra(r.Context(), database.UpdateExtraParams{
		ID:       id,
		Name:     params.Name,
		Category: params.Category,
		Price:    params.Price,
		SizeName: params.SizeName,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "extra not found"})
			return
		}
		log.Printf("ERROR: update extra: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toExtraResponse(extra))
}

// Delete deactivates an extra.
func (h *ExtraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid extra ID"})
		return
	}

	if _, err := h.store.DeactivateExtra(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "extra not found"})
			return
		}
		log.Printf("ERROR: deactivate extra: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
