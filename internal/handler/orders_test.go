package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pizzaria-pos/api/internal/auth"
	"github.com/pizzaria-pos/api/internal/cart"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/handler"
	"github.com/pizzaria-pos/api/internal/middleware"
	"github.com/pizzaria-pos/api/internal/orderstate"
	"github.com/pizzaria-pos/api/internal/printer"
	"github.com/pizzaria-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

// --- Mock OrderServicer ---

type mockOrderService struct {
	quoteFn      func(ctx context.Context, req service.QuoteRequest) (*service.Quote, error)
	createFn     func(ctx context.Context, p auth.Principal, req service.CreateOrderRequest) (*service.OrderDetail, error)
	transitionFn func(ctx context.Context, p auth.Principal, req service.TransitionRequest) (*database.Order, error)
}

func (m *mockOrderService) Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
	return m.quoteFn(ctx, req)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, p auth.Principal, req service.CreateOrderRequest) (*service.OrderDetail, error) {
	return m.createFn(ctx, p, req)
}

func (m *mockOrderService) Transition(ctx context.Context, p auth.Principal, req service.TransitionRequest) (*database.Order, error) {
	return m.transitionFn(ctx, p, req)
}

// --- Mock OrderStore ---

type mockOrderStore struct {
	orders     map[uuid.UUID]database.Order
	items      map[uuid.UUID][]database.OrderItem
	logs       map[uuid.UUID][]database.OrderStatusLog
	lastParams database.ListOrdersParams
}

func newMockOrderStore(orders ...database.Order) *mockOrderStore {
	m := &mockOrderStore{
		orders: make(map[uuid.UUID]database.Order),
		items:  make(map[uuid.UUID][]database.OrderItem),
		logs:   make(map[uuid.UUID][]database.OrderStatusLog),
	}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockOrderStore) GetOrder(_ context.Context, id uuid.UUID) (database.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *mockOrderStore) ListOrders(_ context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	m.lastParams = arg
	out := []database.Order{}
	for _, o := range m.orders {
		if arg.UserID.Valid && o.UserID != arg.UserID {
			continue
		}
		if arg.Status.Valid && o.Status != arg.Status.String {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderStore) ListOrderItemsByOrder(_ context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *mockOrderStore) ListOrderStatusLogs(_ context.Context, orderID uuid.UUID) ([]database.OrderStatusLog, error) {
	return m.logs[orderID], nil
}

// --- Mock ReceiptPrinter ---

type mockReceiptPrinter struct {
	err     error
	printed []uuid.UUID
}

func (m *mockReceiptPrinter) Print(_ context.Context, _ auth.Principal, orderID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.printed = append(m.printed, orderID)
	return nil
}

// --- Helpers ---

func adminPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.New(), Role: enum.UserRoleAdmin}
}

func cashierPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.New(), Role: enum.UserRoleCashier}
}

func clientPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.New(), Role: enum.UserRoleClient}
}

// doAuthRequest sends a request carrying a real access token for p.
func doAuthRequest(t *testing.T, router http.Handler, method, path string, body interface{}, p auth.Principal) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, p.UserID, p.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func setupOrderRouter(svc *mockOrderService, store *mockOrderStore, rp *mockReceiptPrinter) *chi.Mux {
	h := handler.NewOrderHandler(svc, store, rp, time.UTC)
	r := chi.NewRouter()
	r.Route("/cart", h.RegisterCartRoutes)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		r.Route("/orders", h.RegisterRoutes)
	})
	return r
}

func testOrder(status string, owner uuid.UUID) database.Order {
	o := database.Order{
		ID:            uuid.New(),
		OrderNumber:   "0007",
		CustomerName:  "Maria",
		DeliveryType:  enum.DeliveryTypePickup,
		DeliveryFee:   testNumeric("0"),
		PaymentMethod: enum.PaymentMethodPix,
		Subtotal:      testNumeric("49.99"),
		Total:         testNumeric("49.99"),
		Status:        status,
		Source:        enum.OrderSourceStore,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if owner != uuid.Nil {
		o.UserID = pgtype.UUID{Bytes: owner, Valid: true}
	}
	return o
}

// --- Quote ---

func TestQuote_Public(t *testing.T) {
	comboID := uuid.New()
	svc := &mockOrderService{
		quoteFn: func(_ context.Context, req service.QuoteRequest) (*service.Quote, error) {
			if req.DeliveryType != enum.DeliveryTypePickup {
				t.Errorf("delivery type: got %q, want default PICKUP", req.DeliveryType)
			}
			if len(req.Items) != 1 || req.Items[0].FlavorIDs[1] != "f2" || req.Items[0].Extras[0].Quantity != 2 {
				t.Errorf("items not passed through: %+v", req.Items)
			}
			return &service.Quote{
				Items: []cart.Item{{
					ComboID:    comboID,
					ComboName:  "Pizza",
					SizeName:   "Grande",
					Flavors:    []string{"Calabresa", "Camarao"},
					Extras:     []cart.ExtraSelection{{Name: "Bacon", Quantity: 2}},
					Quantity:   1,
					UnitPrice:  decimal.RequireFromString("81.99"),
					TotalPrice: decimal.RequireFromString("81.99"),
				}},
				Subtotal:    decimal.RequireFromString("81.99"),
				DeliveryFee: decimal.Zero,
				Total:       decimal.RequireFromString("81.99"),
			}, nil
		},
	}
	router := setupOrderRouter(svc, newMockOrderStore(), &mockReceiptPrinter{})

	rr := doRequest(t, router, "POST", "/cart/quote", map[string]interface{}{
		"items": []map[string]interface{}{{
			"combo_id":   comboID.String(),
			"size_id":    uuid.New().String(),
			"flavor_ids": []string{"f1", "f2"},
			"extras":     []map[string]interface{}{{"extra_id": "e1", "quantity": 2}},
			"quantity":   1,
		}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["total"] != "81.99" || resp["delivery_fee"] != "0.00" {
		t.Errorf("totals: %v", resp)
	}
	item := resp["items"].([]interface{})[0].(map[string]interface{})
	if item["extras"].([]interface{})[0] != "2x Bacon" {
		t.Errorf("extras: %v", item["extras"])
	}
}

func TestQuote_ValidationError(t *testing.T) {
	svc := &mockOrderService{
		quoteFn: func(context.Context, service.QuoteRequest) (*service.Quote, error) {
			return nil, fmt.Errorf("item 0: %w", service.ErrSecondPizzaNotAllowed)
		},
	}
	rr := doRequest(t, setupOrderRouter(svc, newMockOrderStore(), nil), "POST", "/cart/quote", map[string]interface{}{"items": []interface{}{}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Create ---

func TestOrderCreate_HappyPath(t *testing.T) {
	client := clientPrincipal()
	var got service.CreateOrderRequest
	svc := &mockOrderService{
		createFn: func(_ context.Context, p auth.Principal, req service.CreateOrderRequest) (*service.OrderDetail, error) {
			if p != client {
				t.Errorf("principal: got %+v, want %+v", p, client)
			}
			got = req
			o := testOrder(enum.OrderStatusPending, client.UserID)
			return &service.OrderDetail{
				Order: o,
				Items: []database.OrderItem{{ID: uuid.New(), OrderID: o.ID, ComboName: "Pizza", Flavors: []string{"Calabresa"}, Quantity: 1, UnitPrice: testNumeric("49.99"), TotalPrice: testNumeric("49.99")}},
			}, nil
		},
	}
	router := setupOrderRouter(svc, newMockOrderStore(), nil)

	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name":  "Maria",
		"delivery_type":  "PICKUP",
		"payment_method": "PIX",
		"change_for":     "",
		"items":          []map[string]interface{}{{"combo_id": uuid.New().String(), "quantity": 1}},
	}, client)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if got.CustomerName != "Maria" || got.PaymentMethod != "PIX" || len(got.Items) != 1 {
		t.Errorf("request: %+v", got)
	}

	resp := decodeResponse(t, rr)
	if resp["status"] != "PENDING" || resp["total"] != "49.99" || resp["change_for"] != nil {
		t.Errorf("response: %v", resp)
	}
	if items := resp["items"].([]interface{}); len(items) != 1 {
		t.Errorf("items: %v", items)
	}
}

func TestOrderCreate_NoAuth(t *testing.T) {
	rr := doRequest(t, setupOrderRouter(&mockOrderService{}, newMockOrderStore(), nil), "POST", "/orders", map[string]string{})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestOrderCreate_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", service.ErrAddressRequired, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("item 1: %w", service.ErrFlavorNotFound), http.StatusBadRequest},
		{"store closed", service.ErrStoreClosed, http.StatusConflict},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{
				createFn: func(context.Context, auth.Principal, service.CreateOrderRequest) (*service.OrderDetail, error) {
					return nil, tt.err
				},
			}
			rr := doAuthRequest(t, setupOrderRouter(svc, newMockOrderStore(), nil), "POST", "/orders", map[string]string{}, cashierPrincipal())
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// --- List / Get ---

func TestOrderList_ClientSeesOwnOrders(t *testing.T) {
	client := clientPrincipal()
	store := newMockOrderStore(
		testOrder(enum.OrderStatusPending, client.UserID),
		testOrder(enum.OrderStatusPending, uuid.New()),
		testOrder(enum.OrderStatusPending, uuid.Nil),
	)
	router := setupOrderRouter(&mockOrderService{}, store, nil)

	rr := doAuthRequest(t, router, "GET", "/orders", nil, client)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if orders := resp["orders"].([]interface{}); len(orders) != 1 {
		t.Errorf("client saw %d orders, want 1", len(orders))
	}

	rr = doAuthRequest(t, router, "GET", "/orders", nil, cashierPrincipal())
	resp = decodeResponse(t, rr)
	if orders := resp["orders"].([]interface{}); len(orders) != 3 {
		t.Errorf("staff saw %d orders, want 3", len(orders))
	}
}

func TestOrderList_Filters(t *testing.T) {
	store := newMockOrderStore()
	router := setupOrderRouter(&mockOrderService{}, store, nil)

	rr := doAuthRequest(t, router, "GET", "/orders?status=READY&start_date=2026-03-01&end_date=2026-03-01&limit=500&offset=40", nil, cashierPrincipal())
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}

	p := store.lastParams
	if p.Limit != 100 || p.Offset != 40 {
		t.Errorf("pagination: limit=%d offset=%d", p.Limit, p.Offset)
	}
	if !p.Status.Valid || p.Status.String != "READY" {
		t.Errorf("status filter: %+v", p.Status)
	}
	if !p.EndDate.Time.After(p.StartDate.Time) || p.EndDate.Time.Sub(p.StartDate.Time) >= 24*time.Hour {
		t.Errorf("end date must cover the whole day: %v .. %v", p.StartDate.Time, p.EndDate.Time)
	}

	for _, q := range []string{"?status=LOST", "?start_date=01/03/2026", "?end_date=x"} {
		rr := doAuthRequest(t, router, "GET", "/orders"+q, nil, cashierPrincipal())
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want %d", q, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestOrderGet_WithItemsAndHistory(t *testing.T) {
	order := testOrder(enum.OrderStatusConfirmed, uuid.Nil)
	store := newMockOrderStore(order)
	store.items[order.ID] = []database.OrderItem{{ID: uuid.New(), ComboName: "Pizza", Quantity: 1, UnitPrice: testNumeric("49.99"), TotalPrice: testNumeric("49.99")}}
	store.logs[order.ID] = []database.OrderStatusLog{
		{Status: enum.OrderStatusPending, CreatedAt: time.Now()},
		{Status: enum.OrderStatusConfirmed, Note: pgtype.Text{String: "ok", Valid: true}, CreatedAt: time.Now()},
	}

	rr := doAuthRequest(t, setupOrderRouter(&mockOrderService{}, store, nil), "GET", "/orders/"+order.ID.String(), nil, cashierPrincipal())
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if logs := resp["status_logs"].([]interface{}); len(logs) != 2 {
		t.Errorf("status_logs: %v", logs)
	}
	item := resp["items"].([]interface{})[0].(map[string]interface{})
	if item["flavors"] == nil {
		t.Error("flavors must serialize as an empty list")
	}
}

func TestOrderGet_ClientCannotSeeOthers(t *testing.T) {
	order := testOrder(enum.OrderStatusPending, uuid.New())
	router := setupOrderRouter(&mockOrderService{}, newMockOrderStore(order), nil)

	rr := doAuthRequest(t, router, "GET", "/orders/"+order.ID.String(), nil, clientPrincipal())
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}

	rr = doAuthRequest(t, router, "GET", "/orders/not-a-uuid", nil, adminPrincipal())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad id: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Status ---

func TestOrderUpdateStatus(t *testing.T) {
	order := testOrder(enum.OrderStatusReady, uuid.Nil)
	staff := cashierPrincipal()
	var got service.TransitionRequest
	svc := &mockOrderService{
		transitionFn: func(_ context.Context, _ auth.Principal, req service.TransitionRequest) (*database.Order, error) {
			got = req
			o := order
			o.Status = req.Status
			o.DeliveryPerson = pgtype.Text{String: req.DeliveryPerson, Valid: true}
			o.DeliveredBy = pgtype.UUID{Bytes: staff.UserID, Valid: true}
			return &o, nil
		},
	}
	router := setupOrderRouter(svc, newMockOrderStore(order), nil)

	rr := doAuthRequest(t, router, "POST", "/orders/"+order.ID.String()+"/status", map[string]string{
		"status": "DELIVERED", "delivery_person": "Joao",
	}, staff)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if got.OrderID != order.ID || got.DeliveryPerson != "Joao" {
		t.Errorf("request: %+v", got)
	}
	resp := decodeResponse(t, rr)
	if resp["status"] != "DELIVERED" || resp["delivery_person"] != "Joao" {
		t.Errorf("response: %v", resp)
	}
	if resp["delivered_by"] != staff.UserID.String() {
		t.Errorf("delivered_by: got %v, want %s", resp["delivered_by"], staff.UserID)
	}
	for _, key := range []string{"confirmed_by", "cancelled_by"} {
		if v, ok := resp[key]; !ok || v != nil {
			t.Errorf("%s: got %v (present=%v), want null", key, v, ok)
		}
	}
}

func TestOrderUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"skip", fmt.Errorf("%w: PENDING -> READY", orderstate.ErrInvalidTransition), http.StatusConflict},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", service.ErrOrderNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{
				transitionFn: func(context.Context, auth.Principal, service.TransitionRequest) (*database.Order, error) {
					return nil, tt.err
				},
			}
			rr := doAuthRequest(t, setupOrderRouter(svc, newMockOrderStore(), nil), "POST", "/orders/"+uuid.New().String()+"/status",
				map[string]string{"status": "READY"}, cashierPrincipal())
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}

	rr := doAuthRequest(t, setupOrderRouter(&mockOrderService{}, newMockOrderStore(), nil), "POST", "/orders/"+uuid.New().String()+"/status",
		map[string]string{}, cashierPrincipal())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Print ---

func TestOrderPrint(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"printed", nil, http.StatusOK},
		{"not configured", fmt.Errorf("%w: %w", service.ErrPrinterUnavailable, printer.ErrNotConfigured), http.StatusServiceUnavailable},
		{"printer down", fmt.Errorf("%w: dial tcp: refused", service.ErrPrinterUnavailable), http.StatusBadGateway},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", service.ErrOrderNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := &mockReceiptPrinter{err: tt.err}
			rr := doAuthRequest(t, setupOrderRouter(&mockOrderService{}, newMockOrderStore(), rp), "POST", "/orders/"+id.String()+"/print", nil, cashierPrincipal())
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d; body: %s", rr.Code, tt.want, rr.Body.String())
			}
			if tt.err == nil && (len(rp.printed) != 1 || rp.printed[0] != id) {
				t.Errorf("printed: %v", rp.printed)
			}
		})
	}
}

func TestOrderPrint_ClientRejected(t *testing.T) {
	rp := &mockReceiptPrinter{}
	rr := doAuthRequest(t, setupOrderRouter(&mockOrderService{}, newMockOrderStore(), rp), "POST", "/orders/"+uuid.New().String()+"/print", nil, clientPrincipal())
	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
	if len(rp.printed) != 0 {
		t.Error("printer must not be called for clients")
	}
}
