package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/service"
)

// SettingsStore defines the database methods needed by settings handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type SettingsStore interface {
	ListSettings(ctx context.Context) ([]database.Setting, error)
	UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error)
}

// settingValidators lists the writable keys and their value rules.
var settingValidators = map[string]func(string) bool{
	service.SettingStoreName: func(v string) bool { return strings.TrimSpace(v) != "" },
	service.SettingAcceptingOrders: func(v string) bool {
		return v == "true" || v == "false"
	},
}

// SettingsHandler handles store-wide settings.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers settings endpoints: /admin/settings
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/", h.Update)
}

type settingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List returns every setting.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.ListSettings(r.Context())
	if err != nil {
		log.Printf("ERROR: list settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]settingResponse, len(settings))
	for i, s := range settings {
		resp[i] = settingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update writes a key/value map. All values are validated before any write.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no settings given"})
		return
	}

	for key, value := range req {
		valid, known := settingValidators[key]
		if !known {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown setting: " + key})
			return
		}
		if !valid(value) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid value for " + key})
			return
		}
	}

	resp := make([]settingResponse, 0, len(req))
	for key, value := range req {
		s, err := h.store.UpsertSetting(r.Context(), database.UpsertSettingParams{Key: key, Value: value})
		if err != nil {
			log.Printf("ERROR: upsert setting %s: %v", key, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp = append(resp, settingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt})
	}

	writeJSON(w, http.StatusOK, resp)
}
