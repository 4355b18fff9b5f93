package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/handler"
)

type mockSettingsStore struct {
	values map[string]string
}

func (m *mockSettingsStore) ListSettings(_ context.Context) ([]database.Setting, error) {
	out := []database.Setting{}
	for k, v := range m.values {
		out = append(out, database.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (m *mockSettingsStore) UpsertSetting(_ context.Context, arg database.UpsertSettingParams) (database.Setting, error) {
	m.values[arg.Key] = arg.Value
	return database.Setting{Key: arg.Key, Value: arg.Value}, nil
}

func setupSettingsRouter(store *mockSettingsStore) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/admin/settings", handler.NewSettingsHandler(store).RegisterRoutes)
	return r
}

func TestSettingsUpdate(t *testing.T) {
	store := &mockSettingsStore{values: map[string]string{"store_name": "Pizzaria", "accepting_orders": "true"}}
	router := setupSettingsRouter(store)

	rr := doRequest(t, router, "PUT", "/admin/settings", map[string]string{
		"accepting_orders": "false",
		"store_name":       "Pizzaria Bella",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if store.values["accepting_orders"] != "false" || store.values["store_name"] != "Pizzaria Bella" {
		t.Errorf("values: %v", store.values)
	}

	rr = doRequest(t, router, "GET", "/admin/settings", nil)
	if list := decodeListResponse(t, rr); len(list) != 2 {
		t.Errorf("list: %v", list)
	}
}

func TestSettingsUpdate_RejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"unknown key", map[string]string{"store_name": "X", "theme": "dark"}},
		{"bad boolean", map[string]string{"store_name": "X", "accepting_orders": "yes"}},
		{"blank name", map[string]string{"store_name": "  "}},
		{"empty", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockSettingsStore{values: map[string]string{"store_name": "Pizzaria"}}
			rr := doRequest(t, setupSettingsRouter(store), "PUT", "/admin/settings", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if store.values["store_name"] != "Pizzaria" {
				t.Error("rejected batch must not write")
			}
		})
	}
}
