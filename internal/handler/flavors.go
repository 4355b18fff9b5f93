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
	"github.com/pizzaria-pos/api/internal/enum"
)

// FlavorStore defines the database methods needed by flavor handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type FlavorStore interface {
	ListActiveFlavors(ctx context.Context) ([]database.PizzaFlavor, error)
	CreateFlavor(ctx context.Context, arg database.CreateFlavorParams) (database.PizzaFlavor, error)
	UpdateFlavor(ctx context.Context, arg database.UpdateFlavorParams) (database.PizzaFlavor, error)
	DeactivateFlavor(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// FlavorHandler handles pizza flavor endpoints.
type FlavorHandler struct {
	store FlavorStore
}

// NewFlavorHandler creates a new FlavorHandler.
func NewFlavorHandler(store FlavorStore) *FlavorHandler {
	return &FlavorHandler{store: store}
}

// RegisterPublicRoutes registers the read-only catalog endpoint: /catalog/flavors
func (h *FlavorHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterRoutes registers flavor CRUD endpoints: /admin/flavors
func (h *FlavorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type flavorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type flavorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Type        string    `json:"type"`
}

func toFlavorResponse(f database.PizzaFlavor) flavorResponse {
	return flavorResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: textPtr(f.Description),
		Type:        f.Type,
	}
}

func decodeFlavorRequest(w http.ResponseWriter, r *http.Request) (flavorRequest, bool) {
	var req flavorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, false
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return req, false
	}
	if !enum.IsValidFlavorType(req.Type) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type must be TRADICIONAL, ESPECIAL or PREMIUM"})
		return req, false
	}
	return req, true
}

// List returns all active flavors.
func (h *FlavorHandler) List(w http.ResponseWriter, r *http.Request) {
	flavors, err := h.store.ListActiveFlavors(r.Context())
	if err != nil {
		log.Printf("ERROR: list flavors: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]flavorResponse, len(flavors))
	for i, f := range flavors {
		resp[i] = toFlavorResponse(f)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a flavor.
func (h *FlavorHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFlavorRequest(w, r)
	if !ok {
		return
	}

	flavor, err := h.store.CreateFlavor(r.Context(), database.CreateFlavorParams{
		Name:        req.Name,
		Description: optionalText(req.Description),
		Type:        req.Type,
	})
	if err != nil {
		log.Printf("ERROR: create flavor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toFlavorResponse(flavor))
}

// Update modifies an active flavor. Past orders keep the name they were
// placed with.
func (h *FlavorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid flavor ID"})
		return
	}

	req, ok := decodeFlavorRequest(w, r)
	if !ok {
		return
	}

	flavor, err := h.store.UpdateFlavor(r.Context(), database.UpdateFlavorParams{
		ID:          id,
		Name:        req.Name,
		Description: optionalText(req.Description),
		Type:        req.Type,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "flavor not found"})
			return
		}
		log.Printf("ERROR: update flavor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toFlavorResponse(flavor))
}

// Delete deactivates a flavor.
func (h *FlavorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid flavor ID"})
		return
	}

	if _, err := h.store.DeactivateFlavor(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "flavor not found"})
			return
		}
		log.Printf("ERROR: deactivate flavor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
