package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pizzaria-pos/api/internal/auth"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/printer"
	"github.com/shopspring/decimal"
)

const defaultStoreName = "Pizzaria"

// ErrPrinterUnavailable wraps any failure reported by the receipt sink.
var ErrPrinterUnavailable = errors.New("printer unavailable")

// ReceiptStore defines the DB methods needed to print receipts.
// Satisfied by *database.Queries.
type ReceiptStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	GetSetting(ctx context.Context, key string) (database.Setting, error)
	CreateCashLog(ctx context.Context, arg database.CreateCashLogParams) (database.CashLog, error)
}

// NewReceiptStore creates a ReceiptStore from a DBTX (pool or tx).
type NewReceiptStore func(db database.DBTX) ReceiptStore

// Sink delivers rendered receipts. Satisfied by *printer.TCPSink.
type Sink interface {
	Print(ctx context.Context, data []byte) error
}

// ReceiptService renders and prints order receipts.
type ReceiptService struct {
	pool     TxBeginner
	newStore NewReceiptStore
	sink     Sink
	loc      *time.Location
	now      func() time.Time
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(pool TxBeginner, newStore NewReceiptStore, sink Sink, loc *time.Location) *ReceiptService {
	return &ReceiptService{pool: pool, newStore: newStore, sink: sink, loc: loc, now: time.Now}
}

// Print sends the receipt of an order to the printer and records an
// ORDER_PRINTED entry once the printer accepted it.
func (s *ReceiptService) Print(ctx context.Context, p auth.Principal, orderID uuid.UUID) error {
	if !p.HasRole(enum.StaffRoles...) {
		return ErrForbidden
	}

	order, data, err := s.render(ctx, orderID)
	if err != nil {
		return err
	}

	// The printer write can stall for the whole dial timeout; no
	// transaction is held across it.
	if err := s.sink.Print(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPrinterUnavailable, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := s.newStore(tx).CreateCashLog(ctx, database.CreateCashLogParams{
		Type:          enum.CashLogOrderPrinted,
		Amount:        decimalToNumeric(decimal.Zero),
		OrderID:       nullUUID(order.ID),
		PaymentMethod: text(order.PaymentMethod),
		Description:   text("Pedido " + order.OrderNumber + " impresso"),
		UserID:        nullUUID(p.UserID),
		BusinessDate:  businessDate(s.now(), s.loc),
	}); err != nil {
		return fmt.Errorf("create cash log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// render reads the order in a read-only transaction that is released
// before returning.
func (s *ReceiptService) render(ctx context.Context, orderID uuid.UUID) (database.Order, []byte, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, nil, ErrOrderNotFound
		}
		return database.Order{}, nil, fmt.Errorf("get order: %w", err)
	}
	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return database.Order{}, nil, fmt.Errorf("list order items: %w", err)
	}

	storeName := defaultStoreName
	if setting, err := store.GetSetting(ctx, SettingStoreName); err == nil && setting.Value != "" {
		storeName = setting.Value
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("WARN: read store name: %v", err)
	}

	return order, printer.Render(buildReceipt(storeName, order, items, s.loc)), nil
}

func buildReceipt(storeName string, order database.Order, items []database.OrderItem, loc *time.Location) printer.Receipt {
	r := printer.Receipt{
		StoreName:     storeName,
		OrderNumber:   order.OrderNumber,
		CreatedAt:     order.CreatedAt.In(loc),
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone.String,
		DeliveryType:  order.DeliveryType,
		Address:       order.DeliveryAddress.String,
		PaymentMethod: order.PaymentMethod,
		Notes:         order.Notes.String,
		Subtotal:      numericToDecimal(order.Subtotal),
		DeliveryFee:   numericToDecimal(order.DeliveryFee),
		Total:         numericToDecimal(order.Total),
	}
	for _, it := range items {
		var details []string
		if it.SizeName.Valid {
			details = append(details, "Tamanho: "+it.SizeName.String)
		}
		if len(it.Flavors) > 0 {
			details = append(details, "Sabores: "+strings.Join(it.Flavors, ", "))
		}
		if len(it.SecondFlavors) > 0 {
			details = append(details, "2a pizza: "+strings.Join(it.SecondFlavors, ", "))
		}
		if it.StuffedCrust {
			details = append(details, "Borda recheada")
		}
		for _, e := range it.Extras {
			details = append(details, "+ "+e)
		}
		r.Lines = append(r.Lines, printer.ReceiptLine{
			Quantity:     it.Quantity,
			Name:         it.ComboName,
			Details:      details,
			Observations: it.Observations.String,
			Total:        numericToDecimal(it.TotalPrice),
		})
	}
	return r
}
