package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/handler"
)

type mockFlavorStore struct {
	flavors map[uuid.UUID]database.PizzaFlavor
}

func (m *mockFlavorStore) ListActiveFlavors(_ context.Context) ([]database.PizzaFlavor, error) {
	out := []database.PizzaFlavor{}
	for _, f := range m.flavors {
		if f.IsActive {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFlavorStore) CreateFlavor(_ context.Context, arg database.CreateFlavorParams) (database.PizzaFlavor, error) {
	f := database.PizzaFlavor{ID: uuid.New(), Name: arg.Name, Description: arg.Description, Type: arg.Type, IsActive: true}
	m.flavors[f.ID] = f
	return f, nil
}

func (m *mockFlavorStore) UpdateFlavor(_ context.Context, arg database.UpdateFlavorParams) (database.PizzaFlavor, error) {
	f, ok := m.flavors[arg.ID]
	if !ok || !f.IsActive {
		return database.PizzaFlavor{}, pgx.ErrNoRows
	}
	f.Name, f.Description, f.Type = arg.Name, arg.Description, arg.Type
	m.flavors[f.ID] = f
	return f, nil
}

func (m *mockFlavorStore) DeactivateFlavor(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	f, ok := m.flavors[id]
	if !ok || !f.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	f.IsActive = false
	m.flavors[id] = f
	return id, nil
}

func setupFlavorRouter(store *mockFlavorStore) *chi.Mux {
	h := handler.NewFlavorHandler(store)
	r := chi.NewRouter()
	r.Route("/catalog/flavors", h.RegisterPublicRoutes)
	r.Route("/admin/flavors", h.RegisterRoutes)
	return r
}

func TestFlavorLifecycle(t *testing.T) {
	store := &mockFlavorStore{flavors: make(map[uuid.UUID]database.PizzaFlavor)}
	router := setupFlavorRouter(store)

	rr := doRequest(t, router, "POST", "/admin/flavors", map[string]string{
		"name": "Camarao", "type": "ESPECIAL", "description": "camarao e catupiry",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d; body: %s", rr.Code, rr.Body.String())
	}
	id := decodeResponse(t, rr)["id"].(string)

	rr = doRequest(t, router, "PUT", "/admin/flavors/"+id, map[string]string{"name": "Camarao", "type": "PREMIUM"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if resp := decodeResponse(t, rr); resp["type"] != "PREMIUM" || resp["description"] != nil {
		t.Errorf("update response: %v", resp)
	}

	rr = doRequest(t, router, "DELETE", "/admin/flavors/"+id, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d", rr.Code)
	}

	rr = doRequest(t, router, "GET", "/catalog/flavors", nil)
	if list := decodeListResponse(t, rr); len(list) != 0 {
		t.Errorf("deactivated flavor still listed: %v", list)
	}

	rr = doRequest(t, router, "DELETE", "/admin/flavors/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestFlavorCreate_InvalidType(t *testing.T) {
	store := &mockFlavorStore{flavors: make(map[uuid.UUID]database.PizzaFlavor)}
	for _, typ := range []string{"", "GOURMET", "premium"} {
		rr := doRequest(t, setupFlavorRouter(store), "POST", "/admin/flavors", map[string]string{"name": "X", "type": typ})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("type %q: got %d, want %d", typ, rr.Code, http.StatusBadRequest)
		}
	}
	if len(store.flavors) != 0 {
		t.Error("invalid flavors must not be stored")
	}
}
