package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pizzaria-pos/api/internal/catalogmatch"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/orderstate"
	"github.com/shopspring/decimal"
)

// iFood event codes.
const (
	IfoodEventPlaced     = "PLACED"
	IfoodEventConfirmed  = "CONFIRMED"
	IfoodEventDispatched = "DISPATCHED"
	IfoodEventConcluded  = "CONCLUDED"
	IfoodEventCancelled  = "CANCELLED"
)

// ErrIfoodUnmappable is returned when an iFood payload cannot be mapped onto
// the catalog or the order model.
var ErrIfoodUnmappable = errors.New("ifood order cannot be mapped")

var ifoodStatusTargets = map[string]string{
	IfoodEventConfirmed:  enum.OrderStatusConfirmed,
	IfoodEventDispatched: enum.OrderStatusReady,
	IfoodEventConcluded:  enum.OrderStatusDelivered,
	IfoodEventCancelled:  enum.OrderStatusCancelled,
}

var ifoodPaymentMethods = map[string]string{
	"CASH":        enum.PaymentMethodCash,
	"PIX":         enum.PaymentMethodPix,
	"CREDIT":      enum.PaymentMethodCreditCard,
	"CREDIT_CARD": enum.PaymentMethodCreditCard,
	"DEBIT":       enum.PaymentMethodDebitCard,
	"DEBIT_CARD":  enum.PaymentMethodDebitCard,
}

// IfoodEvent is a webhook delivery. Order is only present on PLACED.
type IfoodEvent struct {
	Code    string      `json:"code"`
	OrderID string      `json:"orderId"`
	Order   *IfoodOrder `json:"order,omitempty"`
}

type IfoodOrder struct {
	Customer struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Delivery struct {
		Mode    string          `json:"mode"` // DELIVERY or TAKEOUT
		Address string          `json:"address"`
		Fee     decimal.Decimal `json:"fee"`
	} `json:"delivery"`
	Payment struct {
		Method    string          `json:"method"`
		ChangeFor decimal.Decimal `json:"changeFor"`
	} `json:"payment"`
	Items []IfoodItem `json:"items"`
	Notes string      `json:"notes"`
}

type IfoodItem struct {
	ExternalCode string          `json:"externalCode"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Options      []string        `json:"options"`
	Observations string          `json:"observations"`
}

// IfoodResult reports what an event did.
type IfoodResult struct {
	Order     database.Order
	Duplicate bool
}

// IngestIfood applies one iFood event. Re-delivered PLACED events return the
// existing order with Duplicate set.
func (s *OrderService) IngestIfood(ctx context.Context, ev IfoodEvent) (*IfoodResult, error) {
	ev.OrderID = strings.TrimSpace(ev.OrderID)
	if ev.OrderID == "" {
		return nil, fmt.Errorf("%w: orderId is required", ErrIfoodUnmappable)
	}

	switch ev.Code {
	case IfoodEventPlaced:
		return s.placeIfoodOrder(ctx, ev)
	}

	target, ok := ifoodStatusTargets[ev.Code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown event code %q", ErrIfoodUnmappable, ev.Code)
	}
	return s.advanceIfoodOrder(ctx, ev.OrderID, target)
}

func (s *OrderService) placeIfoodOrder(ctx context.Context, ev IfoodEvent) (*IfoodResult, error) {
	if ev.Order == nil || len(ev.Order.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrIfoodUnmappable)
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		res, err := s.placeIfoodOrderTx(ctx, ev)
		if err == nil {
			if !res.Duplicate {
				s.publishCreated(&OrderDetail{Order: res.Order})
			}
			return res, nil
		}
		if isUniqueViolation(err, "orders_ifood_order_id_key") {
			existing, getErr := s.ifoodOrder(ctx, ev.OrderID)
			if getErr != nil {
				return nil, getErr
			}
			return &IfoodResult{Order: existing, Duplicate: true}, nil
		}
		if isUniqueViolation(err, "orders_order_number_key") {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (s *OrderService) placeIfoodOrderTx(ctx context.Context, ev IfoodEvent) (*IfoodResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	existing, err := store.GetOrderByIfoodID(ctx, ev.OrderID)
	if err == nil {
		return &IfoodResult{Order: existing, Duplicate: true}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get ifood order: %w", err)
	}

	combos, err := store.ListActiveCombos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}
	params, items, err := mapIfoodOrder(ev, newComboMatcher(combos))
	if err != nil {
		return nil, err
	}

	detail, err := s.insertOrder(ctx, store, newOrder{params: params, items: items})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &IfoodResult{Order: detail.Order}, nil
}

func newComboMatcher(combos []database.Combo) *catalogmatch.Matcher {
	items := make([]catalogmatch.Item, 0, len(combos))
	for _, c := range combos {
		items = append(items, catalogmatch.Item{ID: c.ID, Code: c.ID.String(), Name: c.Name})
	}
	return catalogmatch.New(items)
}

// mapIfoodOrder converts the platform payload into insert params. Platform
// prices are kept as the snapshot.
func mapIfoodOrder(ev IfoodEvent, m *catalogmatch.Matcher) (database.CreateOrderParams, []database.CreateOrderItemParams, error) {
	o := ev.Order

	deliveryType := enum.DeliveryTypeDelivery
	switch strings.ToUpper(o.Delivery.Mode) {
	case "DELIVERY", "":
	case "TAKEOUT", "PICKUP":
		deliveryType = enum.DeliveryTypePickup
	default:
		return database.CreateOrderParams{}, nil, fmt.Errorf("%w: delivery mode %q", ErrIfoodUnmappable, o.Delivery.Mode)
	}
	if deliveryType == enum.DeliveryTypeDelivery && strings.TrimSpace(o.Delivery.Address) == "" {
		return database.CreateOrderParams{}, nil, fmt.Errorf("%w: delivery address is missing", ErrIfoodUnmappable)
	}

	method, ok := ifoodPaymentMethods[strings.ToUpper(o.Payment.Method)]
	if !ok {
		return database.CreateOrderParams{}, nil, fmt.Errorf("%w: payment method %q", ErrIfoodUnmappable, o.Payment.Method)
	}

	items := make([]database.CreateOrderItemParams, 0, len(o.Items))
	subtotal := decimal.Zero
	for i, it := range o.Items {
		if it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return database.CreateOrderParams{}, nil, fmt.Errorf("%w: item[%d] has invalid quantity or price", ErrIfoodUnmappable, i)
		}
		res := m.Match(it.ExternalCode, it.Name)
		switch res.Status {
		case catalogmatch.Ambiguous:
			return database.CreateOrderParams{}, nil, fmt.Errorf("%w: item[%d] %q matches %d combos", ErrIfoodUnmappable, i, it.Name, len(res.Candidates))
		case catalogmatch.Unmatched:
			return database.CreateOrderParams{}, nil, fmt.Errorf("%w: item[%d] %q matches no combo", ErrIfoodUnmappable, i, it.Name)
		}

		total := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(total)
		items = append(items, database.CreateOrderItemParams{
			ComboID:      res.Item.ID,
			ComboName:    res.Item.Name,
			Flavors:      []string{},
			Extras:       it.Options,
			Observations: text(strings.TrimSpace(it.Observations)),
			Quantity:     int32(it.Quantity),
			UnitPrice:    decimalToNumeric(it.UnitPrice),
			TotalPrice:   decimalToNumeric(total),
		})
	}

	fee := decimal.Zero
	if deliveryType == enum.DeliveryTypeDelivery {
		fee = o.Delivery.Fee
	}
	changeFor := decimalToNumeric(o.Payment.ChangeFor)
	if method != enum.PaymentMethodCash || !o.Payment.ChangeFor.IsPositive() {
		changeFor.Valid = false
	}

	name := strings.TrimSpace(o.Customer.Name)
	if name == "" {
		name = "Cliente iFood"
	}

	params := database.CreateOrderParams{
		CustomerName:    name,
		CustomerPhone:   text(o.Customer.Phone),
		DeliveryType:    deliveryType,
		DeliveryAddress: text(o.Delivery.Address),
		DeliveryFee:     decimalToNumeric(fee),
		PaymentMethod:   method,
		ChangeFor:       changeFor,
		Subtotal:        decimalToNumeric(subtotal),
		Total:           decimalToNumeric(subtotal.Add(fee)),
		Source:          enum.OrderSourceIfood,
		IfoodOrderID:    text(ev.OrderID),
		Notes:           text(o.Notes),
	}
	return params, items, nil
}

// advanceIfoodOrder walks the order to target, applying every intermediate
// step. Reaching a status the order already has is a no-op.
func (s *OrderService) advanceIfoodOrder(ctx context.Context, ifoodID, target string) (*IfoodResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderByIfoodID(ctx, ifoodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get ifood order: %w", err)
	}

	steps, err := orderstate.Path(order.Status, target)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return &IfoodResult{Order: order, Duplicate: true}, nil
	}

	applied := make([]database.Order, 0, len(steps))
	for _, step := range steps {
		order, err = s.applyTransition(ctx, store, order, step, uuid.Nil, "", "iFood")
		if err != nil {
			return nil, err
		}
		applied = append(applied, order)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	for _, o := range applied {
		s.afterTransition(ctx, o)
	}
	return &IfoodResult{Order: order}, nil
}

func (s *OrderService) ifoodOrder(ctx context.Context, ifoodID string) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	order, err := s.newStore(tx).GetOrderByIfoodID(ctx, ifoodID)
	if err != nil {
		return database.Order{}, fmt.Errorf("get ifood order: %w", err)
	}
	return order, nil
}
