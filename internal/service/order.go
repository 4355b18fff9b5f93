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
	"github.com/pizzaria-pos/api/internal/cart"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/notify"
	"github.com/pizzaria-pos/api/internal/pricing"
	"github.com/pizzaria-pos/api/internal/ws"
	"github.com/shopspring/decimal"
)

const maxOrderNumberRetries = 3

// Setting keys read by the order flow.
const (
	SettingAcceptingOrders = "accepting_orders"
	SettingStoreName       = "store_name"
)

// Errors returned by the order service.
var (
	ErrEmptyItems            = errors.New("items are required")
	ErrInvalidDeliveryType   = errors.New("invalid delivery_type")
	ErrInvalidPaymentMethod  = errors.New("invalid payment_method")
	ErrInvalidQuantity       = errors.New("quantity must be > 0")
	ErrCustomerNameRequired  = errors.New("customer_name is required")
	ErrAddressRequired       = errors.New("delivery_address is required for DELIVERY orders")
	ErrDeliveryAreaRequired  = errors.New("delivery_area_id is required for DELIVERY orders")
	ErrDeliveryAreaNotFound  = errors.New("delivery area not found")
	ErrStoreClosed           = errors.New("store is not accepting orders")
	ErrComboNotFound         = errors.New("combo not found")
	ErrSizeNotFound          = errors.New("size not found")
	ErrSizeMismatch          = errors.New("size does not belong to combo")
	ErrFlavorNotFound        = errors.New("flavor not found")
	ErrExtraNotFound         = errors.New("extra not found")
	ErrSecondPizzaNotAllowed = errors.New("combo does not include a second pizza")
	ErrNotCustomizable       = errors.New("combo does not allow customization")
	ErrInvalidComboID        = errors.New("invalid combo_id")
	ErrInvalidSizeID         = errors.New("invalid size_id")
	ErrInvalidFlavorID       = errors.New("invalid flavor_id")
	ErrInvalidExtraID        = errors.New("invalid extra_id")
	ErrInvalidDeliveryAreaID = errors.New("invalid delivery_area_id")
	ErrInvalidChangeFor      = errors.New("invalid change_for")
	ErrOrderNotFound         = errors.New("order not found")
)

// CatalogReader resolves catalog selections for pricing.
// Satisfied by *database.Queries.
type CatalogReader interface {
	GetCombo(ctx context.Context, id uuid.UUID) (database.Combo, error)
	GetPizzaSize(ctx context.Context, id uuid.UUID) (database.PizzaSize, error)
	GetFlavor(ctx context.Context, id uuid.UUID) (database.PizzaFlavor, error)
	GetExtra(ctx context.Context, id uuid.UUID) (database.ExtraItem, error)
	GetDeliveryArea(ctx context.Context, id uuid.UUID) (database.DeliveryArea, error)
	GetSetting(ctx context.Context, key string) (database.Setting, error)
}

// OrderStore defines the DB methods needed to create and advance orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	CatalogReader
	ListActiveCombos(ctx context.Context) ([]database.Combo, error)
	GetNextOrderNumber(ctx context.Context) (int32, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderByIfoodID(ctx context.Context, ifoodOrderID string) (database.Order, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	CreateOrderStatusLog(ctx context.Context, arg database.CreateOrderStatusLogParams) (database.OrderStatusLog, error)
	CreateCashLog(ctx context.Context, arg database.CreateCashLogParams) (database.CashLog, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the checkout input.
type CreateOrderRequest struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryType    string
	DeliveryAreaID  string
	DeliveryAddress string
	PaymentMethod   string
	ChangeFor       string
	Notes           string
	Items           []CartItemRequest
}

// CartItemRequest is a single customized line.
type CartItemRequest struct {
	ComboID         string
	SizeID          string
	FlavorIDs       []string
	SecondFlavorIDs []string
	Extras          []ExtraRequest
	StuffedCrust    bool
	Observations    string
	Quantity        int
}

// ExtraRequest is an extra item chosen for a line.
type ExtraRequest struct {
	ExtraID  string
	Quantity int
}

// QuoteRequest prices a cart without persisting it.
type QuoteRequest struct {
	DeliveryType   string
	DeliveryAreaID string
	Items          []CartItemRequest
}

// Quote is a priced cart.
type Quote struct {
	Items       []cart.Item
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// OrderDetail is an order with its lines.
type OrderDetail struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService handles checkout and order lifecycle logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	events   Broadcaster
	notifier notify.Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, events Broadcaster, notifier notify.Notifier, loc *time.Location) *OrderService {
	return &OrderService{
		pool:     pool,
		newStore: newStore,
		events:   events,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// Quote prices the requested lines and delivery fee.
func (s *OrderService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := validateDeliveryType(req.DeliveryType); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	c, err := priceCart(ctx, store, req.Items)
	if err != nil {
		return nil, err
	}
	fee, _, err := deliveryFee(ctx, store, req.DeliveryType, req.DeliveryAreaID)
	if err != nil {
		return nil, err
	}

	subtotal := c.GrandTotal()
	return &Quote{
		Items:       c.Items(),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}, nil
}

// CreateOrder validates, prices and persists an order atomically together
// with its first status log and the ORDER cash log entry.
// Retries up to maxOrderNumberRetries times on order_number unique constraint
// violations (concurrent transactions reading the same MAX).
func (s *OrderService) CreateOrder(ctx context.Context, p auth.Principal, req CreateOrderRequest) (*OrderDetail, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrCustomerNameRequired
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := validateDeliveryType(req.DeliveryType); err != nil {
		return nil, err
	}
	if !enum.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if req.DeliveryType == enum.DeliveryTypeDelivery && strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, ErrAddressRequired
	}

	changeFor := decimal.Zero
	if req.ChangeFor != "" {
		cf, err := decimal.NewFromString(req.ChangeFor)
		if err != nil || cf.IsNegative() {
			return nil, ErrInvalidChangeFor
		}
		changeFor = cf
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		detail, err := s.createOrderTx(ctx, p, req, changeFor)
		if err == nil {
			s.publishCreated(detail)
			return detail, nil
		}
		if isUniqueViolation(err, "orders_order_number_key") {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (s *OrderService) createOrderTx(ctx context.Context, p auth.Principal, req CreateOrderRequest, changeFor decimal.Decimal) (*OrderDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := ensureAcceptingOrders(ctx, store); err != nil {
		return nil, err
	}

	c, err := priceCart(ctx, store, req.Items)
	if err != nil {
		return nil, err
	}
	fee, areaID, err := deliveryFee(ctx, store, req.DeliveryType, req.DeliveryAreaID)
	if err != nil {
		return nil, err
	}

	subtotal := c.GrandTotal()
	total := subtotal.Add(fee)

	changeForNum := decimalToNumeric(changeFor)
	if changeFor.IsZero() || req.PaymentMethod != enum.PaymentMethodCash {
		changeForNum.Valid = false
	}

	detail, err := s.insertOrder(ctx, store, newOrder{
		params: database.CreateOrderParams{
			UserID:          nullUUID(p.UserID),
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerPhone:   text(req.CustomerPhone),
			DeliveryType:    req.DeliveryType,
			DeliveryAreaID:  nullUUID(areaID),
			DeliveryAddress: text(req.DeliveryAddress),
			DeliveryFee:     decimalToNumeric(fee),
			PaymentMethod:   req.PaymentMethod,
			ChangeFor:       changeForNum,
			Subtotal:        decimalToNumeric(subtotal),
			Total:           decimalToNumeric(total),
			Source:          enum.OrderSourceStore,
			Notes:           text(req.Notes),
		},
		items: itemParams(c.Items()),
		actor: p.UserID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return detail, nil
}

// newOrder is a priced order ready to be inserted.
type newOrder struct {
	params database.CreateOrderParams
	items  []database.CreateOrderItemParams
	actor  uuid.UUID
}

// insertOrder numbers and inserts the order, its items, the PENDING status
// log and the ORDER cash entry.
func (s *OrderService) insertOrder(ctx context.Context, store OrderStore, o newOrder) (*OrderDetail, error) {
	nextNum, err := store.GetNextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	o.params.OrderNumber = fmt.Sprintf("PZ-%03d", nextNum)

	order, err := store.CreateOrder(ctx, o.params)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(o.items))
	for _, ip := range o.items {
		ip.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, ip)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	if _, err := store.CreateOrderStatusLog(ctx, database.CreateOrderStatusLogParams{
		OrderID:   order.ID,
		Status:    order.Status,
		ChangedBy: nullUUID(o.actor),
	}); err != nil {
		return nil, fmt.Errorf("create status log: %w", err)
	}

	if _, err := store.CreateCashLog(ctx, database.CreateCashLogParams{
		Type:          enum.CashLogOrder,
		Amount:        order.Total,
		OrderID:       nullUUID(order.ID),
		PaymentMethod: text(order.PaymentMethod),
		Description:   text("Pedido " + order.OrderNumber),
		UserID:        nullUUID(o.actor),
		BusinessDate:  businessDate(s.now(), s.loc),
	}); err != nil {
		return nil, fmt.Errorf("create cash log: %w", err)
	}

	return &OrderDetail{Order: order, Items: items}, nil
}

func (s *OrderService) publishCreated(d *OrderDetail) {
	if s.events == nil {
		return
	}
	s.events.Publish(ws.TopicOrders, "order.created", d)
	if d.Order.UserID.Valid {
		s.events.Publish(ws.UserTopic(uuid.UUID(d.Order.UserID.Bytes)), "order.created", d.Order)
	}
}

// --- Pricing ---

// priceCart resolves every line against the catalog and prices it.
func priceCart(ctx context.Context, store CatalogReader, items []CartItemRequest) (*cart.Cart, error) {
	c := cart.New()
	for i, req := range items {
		item, err := priceItem(ctx, store, req)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		c.AddItem(item)
	}
	return c, nil
}

func priceItem(ctx context.Context, store CatalogReader, req CartItemRequest) (cart.Item, error) {
	if req.Quantity <= 0 {
		return cart.Item{}, ErrInvalidQuantity
	}

	comboID, err := parseID(req.ComboID, ErrInvalidComboID)
	if err != nil {
		return cart.Item{}, err
	}
	combo, err := store.GetCombo(ctx, comboID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.Item{}, ErrComboNotFound
		}
		return cart.Item{}, fmt.Errorf("get combo: %w", err)
	}
	if !combo.IsActive {
		return cart.Item{}, ErrComboNotFound
	}
	if !combo.AllowCustomization && isCustomized(req) {
		return cart.Item{}, ErrNotCustomizable
	}
	if len(req.SecondFlavorIDs) > 0 && combo.PizzaQuantity < 2 {
		return cart.Item{}, ErrSecondPizzaNotAllowed
	}

	line := pricing.Line{
		ComboPrice:   numericToDecimal(combo.Price),
		IsPizza:      combo.IsPizza,
		StuffedCrust: req.StuffedCrust,
		Quantity:     req.Quantity,
	}
	item := cart.Item{
		ComboID:      combo.ID,
		ComboName:    combo.Name,
		Observations: strings.TrimSpace(req.Observations),
		StuffedCrust: req.StuffedCrust,
		Quantity:     req.Quantity,
	}

	if req.SizeID != "" {
		sizeID, err := parseID(req.SizeID, ErrInvalidSizeID)
		if err != nil {
			return cart.Item{}, err
		}
		size, err := store.GetPizzaSize(ctx, sizeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return cart.Item{}, ErrSizeNotFound
			}
			return cart.Item{}, fmt.Errorf("get size: %w", err)
		}
		if size.ComboID != combo.ID {
			return cart.Item{}, ErrSizeMismatch
		}
		line.Size = &pricing.Size{
			Name:       size.Name,
			MaxFlavors: int(size.MaxFlavors),
			BasePrice:  numericToDecimal(size.BasePrice),
		}
		item.SizeID = &size.ID
		item.SizeName = size.Name
	}

	line.Flavors, item.Flavors, err = resolveFlavors(ctx, store, req.FlavorIDs)
	if err != nil {
		return cart.Item{}, err
	}
	line.SecondFlavors, item.SecondFlavors, err = resolveFlavors(ctx, store, req.SecondFlavorIDs)
	if err != nil {
		return cart.Item{}, err
	}

	for _, er := range req.Extras {
		extraID, err := parseID(er.ExtraID, ErrInvalidExtraID)
		if err != nil {
			return cart.Item{}, err
		}
		extra, err := store.GetExtra(ctx, extraID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return cart.Item{}, ErrExtraNotFound
			}
			return cart.Item{}, fmt.Errorf("get extra: %w", err)
		}
		if !extra.IsActive {
			return cart.Item{}, ErrExtraNotFound
		}
		line.Extras = append(line.Extras, pricing.Extra{
			Name:     extra.Name,
			Price:    numericToDecimal(extra.Price),
			Quantity: er.Quantity,
			SizeName: extra.SizeName.String,
		})
		item.Extras = append(item.Extras, cart.ExtraSelection{
			ExtraID:  extra.ID,
			Name:     extra.Name,
			Quantity: er.Quantity,
		})
	}

	unit, total, err := pricing.ComputeLine(line)
	if err != nil {
		return cart.Item{}, err
	}
	item.UnitPrice = unit
	item.TotalPrice = total
	return item, nil
}

func isCustomized(req CartItemRequest) bool {
	return len(req.FlavorIDs) > 0 || len(req.SecondFlavorIDs) > 0 || len(req.Extras) > 0 || req.StuffedCrust
}

func resolveFlavors(ctx context.Context, store CatalogReader, ids []string) ([]pricing.Flavor, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	flavors := make([]pricing.Flavor, 0, len(ids))
	names := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := parseID(raw, ErrInvalidFlavorID)
		if err != nil {
			return nil, nil, err
		}
		f, err := store.GetFlavor(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, ErrFlavorNotFound
			}
			return nil, nil, fmt.Errorf("get flavor: %w", err)
		}
		if !f.IsActive {
			return nil, nil, ErrFlavorNotFound
		}
		flavors = append(flavors, pricing.Flavor{Name: f.Name, Type: f.Type})
		names = append(names, f.Name)
	}
	return flavors, names, nil
}

// deliveryFee returns the fee for the selected area; PICKUP is free.
func deliveryFee(ctx context.Context, store CatalogReader, deliveryType, areaID string) (decimal.Decimal, uuid.UUID, error) {
	if deliveryType != enum.DeliveryTypeDelivery {
		return decimal.Zero, uuid.Nil, nil
	}
	if areaID == "" {
		return decimal.Zero, uuid.Nil, ErrDeliveryAreaRequired
	}
	id, err := parseID(areaID, ErrInvalidDeliveryAreaID)
	if err != nil {
		return decimal.Zero, uuid.Nil, err
	}
	area, err := store.GetDeliveryArea(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, uuid.Nil, ErrDeliveryAreaNotFound
		}
		return decimal.Zero, uuid.Nil, fmt.Errorf("get delivery area: %w", err)
	}
	if !area.IsActive {
		return decimal.Zero, uuid.Nil, ErrDeliveryAreaNotFound
	}
	return numericToDecimal(area.Fee), area.ID, nil
}

func ensureAcceptingOrders(ctx context.Context, store CatalogReader) error {
	setting, err := store.GetSetting(ctx, SettingAcceptingOrders)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("get setting: %w", err)
	}
	if setting.Value == "false" {
		return ErrStoreClosed
	}
	return nil
}

// itemParams snapshots priced cart lines into order item rows.
func itemParams(items []cart.Item) []database.CreateOrderItemParams {
	out := make([]database.CreateOrderItemParams, 0, len(items))
	for _, it := range items {
		extras := make([]string, 0, len(it.Extras))
		for _, e := range it.Extras {
			extras = append(extras, fmt.Sprintf("%dx %s", e.Quantity, e.Name))
		}
		out = append(out, database.CreateOrderItemParams{
			ComboID:       it.ComboID,
			ComboName:     it.ComboName,
			SizeName:      text(it.SizeName),
			Flavors:       it.Flavors,
			SecondFlavors: it.SecondFlavors,
			Extras:        extras,
			StuffedCrust:  it.StuffedCrust,
			Observations:  text(it.Observations),
			Quantity:      int32(it.Quantity),
			UnitPrice:     decimalToNumeric(it.UnitPrice),
			TotalPrice:    decimalToNumeric(it.TotalPrice),
		})
	}
	return out
}

func validateDeliveryType(s string) error {
	switch s {
	case enum.DeliveryTypeDelivery, enum.DeliveryTypePickup:
		return nil
	}
	return ErrInvalidDeliveryType
}

// notifyCustomer sends n and only logs failures.
func (s *OrderService) notifyCustomer(ctx context.Context, n notify.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.Printf("WARN: notify order %s: %v", n.OrderNumber, err)
	}
}
