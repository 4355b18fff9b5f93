package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pizzaria-pos/api/internal/auth"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/notify"
	"github.com/pizzaria-pos/api/internal/orderstate"
	"github.com/pizzaria-pos/api/internal/ws"
	"github.com/shopspring/decimal"
)

// TransitionRequest moves an order to Status.
type TransitionRequest struct {
	OrderID        uuid.UUID
	Status         string
	DeliveryPerson string
	Note           string
}

// transitionRoles lists who may move an order into each status.
var transitionRoles = map[string][]string{
	enum.OrderStatusConfirmed: {enum.UserRoleAdmin, enum.UserRoleManager, enum.UserRoleCashier},
	enum.OrderStatusPreparing: {enum.UserRoleAdmin, enum.UserRoleManager, enum.UserRoleCashier, enum.UserRoleKitchen},
	enum.OrderStatusReady:     {enum.UserRoleAdmin, enum.UserRoleManager, enum.UserRoleCashier, enum.UserRoleKitchen},
	enum.OrderStatusDelivered: {enum.UserRoleAdmin, enum.UserRoleManager, enum.UserRoleCashier},
	enum.OrderStatusCancelled: {enum.UserRoleAdmin, enum.UserRoleManager, enum.UserRoleCashier},
}

// Transition validates and applies one status change. The update is guarded
// by the status read in the same transaction; losing a concurrent race
// reports ErrInvalidTransition.
func (s *OrderService) Transition(ctx context.Context, p auth.Principal, req TransitionRequest) (*database.Order, error) {
	if !orderstate.IsValid(req.Status) || req.Status == enum.OrderStatusPending {
		return nil, fmt.Errorf("%w: unknown target status %q", orderstate.ErrInvalidTransition, req.Status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !canTransition(p, order, req.Status) {
		return nil, ErrForbidden
	}

	updated, err := s.applyTransition(ctx, store, order, req.Status, p.UserID, req.DeliveryPerson, req.Note)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.afterTransition(ctx, updated)
	return &updated, nil
}

// canTransition applies the role matrix. Customers may only cancel their own
// order while it is still pending.
func canTransition(p auth.Principal, order database.Order, target string) bool {
	if p.Role == enum.UserRoleClient {
		return target == enum.OrderStatusCancelled &&
			order.Status == enum.OrderStatusPending &&
			order.UserID.Valid && uuid.UUID(order.UserID.Bytes) == p.UserID
	}
	return p.HasRole(transitionRoles[target]...)
}

// applyTransition performs one validated move inside the caller's
// transaction: guarded update with stamps, status log and cash log.
func (s *OrderService) applyTransition(ctx context.Context, store OrderStore, order database.Order, target string, actor uuid.UUID, deliveryPerson, note string) (database.Order, error) {
	if err := orderstate.Validate(order.Status, target); err != nil {
		return database.Order{}, err
	}

	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:             order.ID,
		ExpectedStatus: order.Status,
		Status:         target,
		ActorID:        nullUUID(actor),
		DeliveryPerson: text(deliveryPerson),
		CancelReason:   text(note),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, fmt.Errorf("%w: order %s changed concurrently", orderstate.ErrInvalidTransition, order.OrderNumber)
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if _, err := store.CreateOrderStatusLog(ctx, database.CreateOrderStatusLogParams{
		OrderID:   updated.ID,
		Status:    target,
		ChangedBy: nullUUID(actor),
		Note:      text(note),
	}); err != nil {
		return database.Order{}, fmt.Errorf("create status log: %w", err)
	}

	if entry, ok := s.transitionCashLog(updated, target, actor, deliveryPerson); ok {
		if _, err := store.CreateCashLog(ctx, entry); err != nil {
			return database.Order{}, fmt.Errorf("create cash log: %w", err)
		}
	}
	return updated, nil
}

// transitionCashLog returns the register entry a transition writes, if any.
func (s *OrderService) transitionCashLog(order database.Order, target string, actor uuid.UUID, deliveryPerson string) (database.CreateCashLogParams, bool) {
	total := numericToDecimal(order.Total)
	entry := database.CreateCashLogParams{
		OrderID:       nullUUID(order.ID),
		PaymentMethod: text(order.PaymentMethod),
		UserID:        nullUUID(actor),
		BusinessDate:  businessDate(s.now(), s.loc),
	}

	switch target {
	case enum.OrderStatusConfirmed:
		entry.Type = enum.CashLogOrderConfirmed
		entry.Amount = decimalToNumeric(total)
		entry.Description = text("Pedido " + order.OrderNumber + " confirmado")
	case enum.OrderStatusCancelled:
		entry.Type = enum.CashLogOrderCancelled
		entry.Amount = decimalToNumeric(total.Neg())
		entry.Description = text("Pedido " + order.OrderNumber + " cancelado")
	case enum.OrderStatusDelivered:
		desc := "Pedido " + order.OrderNumber + " entregue"
		if deliveryPerson != "" {
			desc += " por " + deliveryPerson
		}
		entry.Type = enum.CashLogOrderDelivered
		entry.Amount = decimalToNumeric(decimal.Zero)
		entry.Description = text(desc)
	default:
		return database.CreateCashLogParams{}, false
	}
	return entry, true
}

// afterTransition runs the non-transactional side effects. Failures are
// logged and never reach the caller.
func (s *OrderService) afterTransition(ctx context.Context, order database.Order) {
	switch order.Status {
	case enum.OrderStatusConfirmed:
		s.notifyCustomer(ctx, notify.Notification{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Title:       "Pedido Confirmado",
			Message:     fmt.Sprintf("Seu pedido %s foi confirmado e já vai para o forno!", order.OrderNumber),
			Phone:       order.CustomerPhone.String,
		})
	case enum.OrderStatusCancelled:
		s.notifyCustomer(ctx, notify.Notification{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Title:       "Pedido Cancelado",
			Message:     fmt.Sprintf("Seu pedido %s foi cancelado.", order.OrderNumber),
			Phone:       order.CustomerPhone.String,
		})
	}

	if s.events == nil {
		return
	}
	s.events.Publish(ws.TopicOrders, "order.updated", order)
	if order.UserID.Valid {
		s.events.Publish(ws.UserTopic(uuid.UUID(order.UserID.Bytes)), "order.updated", order)
	}
}
