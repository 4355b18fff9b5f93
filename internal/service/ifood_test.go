package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/orderstate"
	"github.com/shopspring/decimal"
)

func placedEvent(cat catalog) IfoodEvent {
	o := &IfoodOrder{Notes: "sem cebola"}
	o.Customer.Name = "Ana"
	o.Customer.Phone = "11977776666"
	o.Delivery.Mode = "DELIVERY"
	o.Delivery.Address = "Av. Brasil, 500"
	o.Delivery.Fee = decimal.RequireFromString("7.00")
	o.Payment.Method = "CREDIT"
	o.Items = []IfoodItem{
		{ExternalCode: cat.pizza.ID.String(), Name: "Pizza G", Quantity: 1, UnitPrice: decimal.RequireFromString("59.90"), Options: []string{"Calabresa"}},
		{Name: "Refrigerante Lata 350ml", Quantity: 2, UnitPrice: decimal.RequireFromString("7.50")},
	}
	return IfoodEvent{Code: IfoodEventPlaced, OrderID: "ifood-123", Order: o}
}

func TestIngestIfood_PlacedCreatesOrder(t *testing.T) {
	cat := newCatalog()
	store := defaultStore(cat)
	svc, deps := newTestService(store)

	res, err := svc.IngestIfood(context.Background(), placedEvent(cat))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Duplicate {
		t.Error("first delivery should not be a duplicate")
	}

	params := store.orders[0]
	if params.Source != enum.OrderSourceIfood || params.IfoodOrderID.String != "ifood-123" {
		t.Errorf("source fields: %+v", params)
	}
	if params.PaymentMethod != enum.PaymentMethodCreditCard {
		t.Errorf("payment method: got %s", params.PaymentMethod)
	}
	if params.UserID.Valid {
		t.Error("platform orders have no local user")
	}
	// platform prices: 59.90 + 2 x 7.50, fee 7
	if !numericEquals(params.Subtotal, "74.90") || !numericEquals(params.Total, "81.90") {
		t.Errorf("totals: subtotal=%s total=%s", numericToDecimal(params.Subtotal), numericToDecimal(params.Total))
	}

	if len(store.items) != 2 {
		t.Fatalf("items: got %d", len(store.items))
	}
	if store.items[0].ComboID != cat.pizza.ID || store.items[1].ComboID != cat.drink.ID {
		t.Errorf("matched combos: %v, %v", store.items[0].ComboID, store.items[1].ComboID)
	}
	if !numericEquals(store.items[1].TotalPrice, "15.00") {
		t.Errorf("line total: got %s", numericToDecimal(store.items[1].TotalPrice))
	}

	if len(store.cashLogs) != 1 || store.cashLogs[0].Type != enum.CashLogOrder {
		t.Errorf("cash logs: %+v", store.cashLogs)
	}
	if len(deps.events.events) != 1 || deps.events.events[0].eventType != "order.created" {
		t.Errorf("events: %+v", deps.events.events)
	}
}

func TestIngestIfood_PlacedTwiceIsIdempotent(t *testing.T) {
	cat := newCatalog()
	existing := existingOrder(enum.OrderStatusPending, uuid.Nil)
	existing.IfoodOrderID = pgtype.Text{String: "ifood-123", Valid: true}
	store := storeWithOrder(&existing)
	svc, deps := newTestService(store)

	res, err := svc.IngestIfood(context.Background(), placedEvent(cat))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Duplicate || res.Order.ID != existing.ID {
		t.Errorf("expected duplicate of %s, got %+v", existing.ID, res)
	}
	if len(store.orders) != 0 || len(deps.events.events) != 0 {
		t.Error("duplicate must not insert or broadcast")
	}
}

func TestIngestIfood_ConcurrentDuplicateResolvesToExisting(t *testing.T) {
	cat := newCatalog()
	store := defaultStore(cat)
	winner := existingOrder(enum.OrderStatusPending, uuid.Nil)

	lookups := 0
	store.getOrderByIfoodIDFn = func(ctx context.Context, id string) (database.Order, error) {
		lookups++
		if lookups == 1 {
			return database.Order{}, pgx.ErrNoRows
		}
		return winner, nil
	}
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		return database.Order{}, &pgconn.PgError{Code: "23505", ConstraintName: "orders_ifood_order_id_key"}
	}
	svc, _ := newTestService(store)

	res, err := svc.IngestIfood(context.Background(), placedEvent(cat))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Duplicate || res.Order.ID != winner.ID {
		t.Errorf("expected the concurrently inserted order, got %+v", res)
	}
}

func TestIngestIfood_Unmappable(t *testing.T) {
	cat := newCatalog()
	tests := []struct {
		name   string
		mutate func(ev *IfoodEvent)
	}{
		{"missing order id", func(ev *IfoodEvent) { ev.OrderID = " " }},
		{"unknown code", func(ev *IfoodEvent) { ev.Code = "HANDSHAKE" }},
		{"no items", func(ev *IfoodEvent) { ev.Order.Items = nil }},
		{"unmatched item", func(ev *IfoodEvent) { ev.Order.Items[1].Name = "Sorvete de pistache" }},
		{"unknown payment", func(ev *IfoodEvent) { ev.Order.Payment.Method = "VOUCHER" }},
		{"unknown delivery mode", func(ev *IfoodEvent) { ev.Order.Delivery.Mode = "DRONE" }},
		{"delivery without address", func(ev *IfoodEvent) { ev.Order.Delivery.Address = "" }},
		{"zero quantity", func(ev *IfoodEvent) { ev.Order.Items[0].Quantity = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := defaultStore(cat)
			svc, _ := newTestService(store)

			ev := placedEvent(cat)
			tt.mutate(&ev)
			_, err := svc.IngestIfood(context.Background(), ev)
			if !errors.Is(err, ErrIfoodUnmappable) {
				t.Fatalf("expected ErrIfoodUnmappable, got: %v", err)
			}
			if len(store.orders) != 0 {
				t.Error("unmappable order must not be inserted")
			}
		})
	}
}

func TestIngestIfood_AmbiguousItem(t *testing.T) {
	cat := newCatalog()
	store := defaultStore(cat)
	store.listActiveCombosFn = func(ctx context.Context) ([]database.Combo, error) {
		return []database.Combo{
			{ID: uuid.New(), Name: "Refrigerante Lata Cola"},
			{ID: uuid.New(), Name: "Refrigerante Lata Guarana"},
		}, nil
	}
	svc, _ := newTestService(store)

	ev := placedEvent(cat)
	ev.Order.Items = []IfoodItem{{Name: "Refrigerante Lata", Quantity: 1, UnitPrice: decimal.NewFromInt(7)}}
	_, err := svc.IngestIfood(context.Background(), ev)
	if !errors.Is(err, ErrIfoodUnmappable) {
		t.Fatalf("expected ErrIfoodUnmappable, got: %v", err)
	}
}

func TestIngestIfood_StatusEventWalksPath(t *testing.T) {
	order := existingOrder(enum.OrderStatusPending, uuid.Nil)
	order.UserID = pgtype.UUID{}
	order.IfoodOrderID = pgtype.Text{String: "ifood-9", Valid: true}
	store := storeWithOrder(&order)
	svc, deps := newTestService(store)

	res, err := svc.IngestIfood(context.Background(), IfoodEvent{Code: IfoodEventDispatched, OrderID: "ifood-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.Status != enum.OrderStatusReady {
		t.Errorf("status: got %s, want READY", res.Order.Status)
	}
	if len(store.statusLogs) != 3 {
		t.Errorf("status logs: got %d, want 3 (confirmed, preparing, ready)", len(store.statusLogs))
	}
	if len(store.cashLogs) != 1 || store.cashLogs[0].Type != enum.CashLogOrderConfirmed {
		t.Errorf("cash logs: %+v", store.cashLogs)
	}
	if store.updates[0].ActorID.Valid {
		t.Error("platform transitions have no local actor")
	}
	if len(deps.notifier.sent) != 1 {
		t.Errorf("notifications: got %d, want 1", len(deps.notifier.sent))
	}
	if deps.tx.commits != 1 {
		t.Errorf("whole path must commit once, got %d", deps.tx.commits)
	}
}

func TestIngestIfood_StatusEventRepeatedIsNoop(t *testing.T) {
	order := existingOrder(enum.OrderStatusConfirmed, uuid.Nil)
	order.IfoodOrderID = pgtype.Text{String: "ifood-9", Valid: true}
	store := storeWithOrder(&order)
	svc, _ := newTestService(store)

	res, err := svc.IngestIfood(context.Background(), IfoodEvent{Code: IfoodEventConfirmed, OrderID: "ifood-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Duplicate || len(store.updates) != 0 {
		t.Error("repeated status should be a no-op")
	}
}

func TestIngestIfood_StatusEventErrors(t *testing.T) {
	order := existingOrder(enum.OrderStatusDelivered, uuid.Nil)
	order.IfoodOrderID = pgtype.Text{String: "ifood-9", Valid: true}
	svc, _ := newTestService(storeWithOrder(&order))

	_, err := svc.IngestIfood(context.Background(), IfoodEvent{Code: IfoodEventCancelled, OrderID: "ifood-9"})
	if !errors.Is(err, orderstate.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got: %v", err)
	}

	_, err = svc.IngestIfood(context.Background(), IfoodEvent{Code: IfoodEventConcluded, OrderID: "unknown"})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}
