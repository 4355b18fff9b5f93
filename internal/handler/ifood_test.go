package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/handler"
	"github.com/pizzaria-pos/api/internal/middleware"
	"github.com/pizzaria-pos/api/internal/orderstate"
	"github.com/pizzaria-pos/api/internal/service"
)

const testWebhookToken = "ifood-token"

type mockIfoodIngester struct {
	seen map[string]database.Order
	err  error
}

func (m *mockIfoodIngester) IngestIfood(_ context.Context, ev service.IfoodEvent) (*service.IfoodResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if o, ok := m.seen[ev.OrderID]; ok {
		if ev.Code == service.IfoodEventPlaced {
			return &service.IfoodResult{Order: o, Duplicate: true}, nil
		}
		o.Status = enum.OrderStatusConfirmed
		m.seen[ev.OrderID] = o
		return &service.IfoodResult{Order: o}, nil
	}
	o := database.Order{ID: uuid.New(), OrderNumber: "0042", Status: enum.OrderStatusPending, Source: enum.OrderSourceIfood}
	m.seen[ev.OrderID] = o
	return &service.IfoodResult{Order: o}, nil
}

func setupIfoodRouter(svc *mockIfoodIngester) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSharedToken(testWebhookToken))
		r.Route("/integrations/ifood", handler.NewIfoodHandler(svc).RegisterRoutes)
	})
	return r
}

func postWebhook(t *testing.T, router http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/integrations/ifood/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Webhook-Token", token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestIfoodWebhook_PlacedThenDuplicate(t *testing.T) {
	router := setupIfoodRouter(&mockIfoodIngester{seen: make(map[string]database.Order)})
	body := `{"code":"PLACED","orderId":"if-1","order":{"items":[{"externalCode":"x","quantity":1,"unitPrice":"10"}]}}`

	rr := postWebhook(t, router, testWebhookToken, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first delivery: got %d; body: %s", rr.Code, rr.Body.String())
	}
	first := decodeResponse(t, rr)

	rr = postWebhook(t, router, testWebhookToken, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("re-delivery: got %d", rr.Code)
	}
	second := decodeResponse(t, rr)
	if second["duplicate"] != true || second["order_id"] != first["order_id"] {
		t.Errorf("re-delivery must return the same order: %v vs %v", first, second)
	}

	rr = postWebhook(t, router, testWebhookToken, `{"code":"CONFIRMED","orderId":"if-1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: got %d", rr.Code)
	}
	if resp := decodeResponse(t, rr); resp["status"] != "CONFIRMED" {
		t.Errorf("status: %v", resp["status"])
	}
}

func TestIfoodWebhook_Token(t *testing.T) {
	router := setupIfoodRouter(&mockIfoodIngester{seen: make(map[string]database.Order)})
	for _, token := range []string{"", "wrong"} {
		rr := postWebhook(t, router, token, `{"code":"PLACED","orderId":"if-1"}`)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("token %q: got %d, want %d", token, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestIfoodWebhook_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unmappable", fmt.Errorf("%w: unknown item", service.ErrIfoodUnmappable), http.StatusUnprocessableEntity},
		{"unknown order", service.ErrOrderNotFound, http.StatusNotFound},
		{"late event", fmt.Errorf("%w: DELIVERED -> CONFIRMED", orderstate.ErrInvalidTransition), http.StatusConflict},
		{"internal", fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postWebhook(t, setupIfoodRouter(&mockIfoodIngester{err: tt.err}), testWebhookToken, `{"code":"CONFIRMED","orderId":"if-9"}`)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}

	rr := postWebhook(t, setupIfoodRouter(&mockIfoodIngester{}), testWebhookToken, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad body: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
