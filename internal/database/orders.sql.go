package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, user_id, customer_name, customer_phone, delivery_type,
    delivery_area_id, delivery_address, delivery_fee, payment_method, change_for, subtotal, total,
    status, source, ifood_order_id, notes, confirmed_at, confirmed_by, delivered_at, delivered_by,
    delivery_person, cancelled_at, cancelled_by, cancel_reason, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.OrderNumber,
		&i.UserID,
		&i.CustomerName,
		&i.CustomerPhone,
		&i.DeliveryType,
		&i.DeliveryAreaID,
		&i.DeliveryAddress,
		&i.DeliveryFee,
		&i.PaymentMethod,
		&i.ChangeFor,
		&i.Subtotal,
		&i.Total,
		&i.Status,
		&i.Source,
		&i.IfoodOrderID,
		&i.Notes,
		&i.ConfirmedAt,
		&i.ConfirmedBy,
		&i.DeliveredAt,
		&i.DeliveredBy,
		&i.DeliveryPerson,
		&i.CancelledAt,
		&i.CancelledBy,
		&i.CancelReason,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getNextOrderNumber = `-- name: GetNextOrderNumber :one
SELECT (COALESCE(MAX(CAST(SUBSTRING(order_number FROM 4) AS INTEGER)), 0) + 1)::int4
FROM orders
WHERE order_number LIKE 'PZ-%'`

func (q *Queries) GetNextOrderNumber(ctx context.Context) (int32, error) {
	row := q.db.QueryRow(ctx, getNextOrderNumber)
	var next int32
	err := row.Scan(&next)
	return next, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (
    order_number, user_id, customer_name, customer_phone, delivery_type, delivery_area_id,
    delivery_address, delivery_fee, payment_method, change_for, subtotal, total, source,
    ifood_order_id, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	OrderNumber     string         `json:"order_number"`
	UserID          pgtype.UUID    `json:"user_id"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   pgtype.Text    `json:"customer_phone"`
	DeliveryType    string         `json:"delivery_type"`
	DeliveryAreaID  pgtype.UUID    `json:"delivery_area_id"`
	DeliveryAddress pgtype.Text    `json:"delivery_address"`
	DeliveryFee     pgtype.Numeric `json:"delivery_fee"`
	PaymentMethod   string         `json:"payment_method"`
	ChangeFor       pgtype.Numeric `json:"change_for"`
	Subtotal        pgtype.Numeric `json:"subtotal"`
	Total           pgtype.Numeric `json:"total"`
	Source          string         `json:"source"`
	IfoodOrderID    pgtype.Text    `json:"ifood_order_id"`
	Notes           pgtype.Text    `json:"notes"`
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OrderNumber,
		arg.UserID,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.DeliveryType,
		arg.DeliveryAreaID,
		arg.DeliveryAddress,
		arg.DeliveryFee,
		arg.PaymentMethod,
		arg.ChangeFor,
		arg.Subtotal,
		arg.Total,
		arg.Source,
		arg.IfoodOrderID,
		arg.Notes,
	)
	return scanOrder(row)
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + ` FROM orders
WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderByIfoodID = `-- name: GetOrderByIfoodID :one
SELECT ` + orderColumns + ` FROM orders
WHERE ifood_order_id = $1`

func (q *Queries) GetOrderByIfoodID(ctx context.Context, ifoodOrderID string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByIfoodID, ifoodOrderID))
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::text IS NULL OR status = $1::text)
  AND ($2::uuid IS NULL OR user_id = $2::uuid)
  AND ($3::timestamptz IS NULL OR created_at >= $3)
  AND ($4::timestamptz IS NULL OR created_at <= $4)
ORDER BY created_at DESC
LIMIT $5 OFFSET $6`

type ListOrdersParams struct {
	Status    pgtype.Text        `json:"status"`
	UserID    pgtype.UUID        `json:"user_id"`
	StartDate pgtype.Timestamptz `json:"start_date"`
	EndDate   pgtype.Timestamptz `json:"end_date"`
	Limit     int32              `json:"limit"`
	Offset    int32              `json:"offset"`
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.Status,
		arg.UserID,
		arg.StartDate,
		arg.EndDate,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateOrderStatus only applies when the row still holds ExpectedStatus;
// otherwise it returns pgx.ErrNoRows. Stamps are written for the target state.
const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET
    status          = $3,
    confirmed_at    = CASE WHEN $3 = 'CONFIRMED' THEN now() ELSE confirmed_at END,
    confirmed_by    = CASE WHEN $3 = 'CONFIRMED' THEN $4::uuid ELSE confirmed_by END,
    delivered_at    = CASE WHEN $3 = 'DELIVERED' THEN now() ELSE delivered_at END,
    delivered_by    = CASE WHEN $3 = 'DELIVERED' THEN $4::uuid ELSE delivered_by END,
    delivery_person = CASE WHEN $3 = 'DELIVERED' THEN $5 ELSE delivery_person END,
    cancelled_at    = CASE WHEN $3 = 'CANCELLED' THEN now() ELSE cancelled_at END,
    cancelled_by    = CASE WHEN $3 = 'CANCELLED' THEN $4::uuid ELSE cancelled_by END,
    cancel_reason   = CASE WHEN $3 = 'CANCELLED' THEN $6 ELSE cancel_reason END,
    updated_at      = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID             uuid.UUID   `json:"id"`
	ExpectedStatus string      `json:"expected_status"`
	Status         string      `json:"status"`
	ActorID        pgtype.UUID `json:"actor_id"`
	DeliveryPerson pgtype.Text `json:"delivery_person"`
	CancelReason   pgtype.Text `json:"cancel_reason"`
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus,
		arg.ID,
		arg.ExpectedStatus,
		arg.Status,
		arg.ActorID,
		arg.DeliveryPerson,
		arg.CancelReason,
	)
	return scanOrder(row)
}

// --- Order items ---

const orderItemColumns = `id, order_id, combo_id, combo_name, size_name, flavors, second_flavors, extras,
    stuffed_crust, observations, quantity, unit_price, total_price, created_at`

func scanOrderItem(row interface{ Scan(...any) error }) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ComboID,
		&i.ComboName,
		&i.SizeName,
		&i.Flavors,
		&i.SecondFlavors,
		&i.Extras,
		&i.StuffedCrust,
		&i.Observations,
		&i.Quantity,
		&i.UnitPrice,
		&i.TotalPrice,
		&i.CreatedAt,
	)
	return i, err
}

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (
    order_id, combo_id, combo_name, size_name, flavors, second_flavors, extras,
    stuffed_crust, observations, quantity, unit_price, total_price
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + orderItemColumns

type CreateOrderItemParams struct {
	OrderID       uuid.UUID      `json:"order_id"`
	ComboID       uuid.UUID      `json:"combo_id"`
	ComboName     string         `json:"combo_name"`
	SizeName      pgtype.Text    `json:"size_name"`
	Flavors       []string       `json:"flavors"`
	SecondFlavors []string       `json:"second_flavors"`
	Extras        []string       `json:"extras"`
	StuffedCrust  bool           `json:"stuffed_crust"`
	Observations  pgtype.Text    `json:"observations"`
	Quantity      int32          `json:"quantity"`
	UnitPrice     pgtype.Numeric `json:"unit_price"`
	TotalPrice    pgtype.Numeric `json:"total_price"`
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.ComboID,
		arg.ComboName,
		arg.SizeName,
		nonNilStrings(arg.Flavors),
		nonNilStrings(arg.SecondFlavors),
		nonNilStrings(arg.Extras),
		arg.StuffedCrust,
		arg.Observations,
		arg.Quantity,
		arg.UnitPrice,
		arg.TotalPrice,
	)
	return scanOrderItem(row)
}

const listOrderItemsByOrder = `-- name: ListOrderItemsByOrder :many
SELECT ` + orderItemColumns + ` FROM order_items
WHERE order_id = $1
ORDER BY created_at, id`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// --- Status history ---

const createOrderStatusLog = `-- name: CreateOrderStatusLog :one
INSERT INTO order_status_logs (order_id, status, changed_by, note)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, status, changed_by, note, created_at`

type CreateOrderStatusLogParams struct {
	OrderID   uuid.UUID   `json:"order_id"`
	Status    string      `json:"status"`
	ChangedBy pgtype.UUID `json:"changed_by"`
	Note      pgtype.Text `json:"note"`
}

func (q *Queries) CreateOrderStatusLog(ctx context.Context, arg CreateOrderStatusLogParams) (OrderStatusLog, error) {
	row := q.db.QueryRow(ctx, createOrderStatusLog, arg.OrderID, arg.Status, arg.ChangedBy, arg.Note)
	var i OrderStatusLog
	err := row.Scan(&i.ID, &i.OrderID, &i.Status, &i.ChangedBy, &i.Note, &i.CreatedAt)
	return i, err
}

const listOrderStatusLogs = `-- name: ListOrderStatusLogs :many
SELECT id, order_id, status, changed_by, note, created_at FROM order_status_logs
WHERE order_id = $1
ORDER BY created_at, id`

func (q *Queries) ListOrderStatusLogs(ctx context.Context, orderID uuid.UUID) ([]OrderStatusLog, error) {
	rows, err := q.db.Query(ctx, listOrderStatusLogs, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderStatusLog{}
	for rows.Next() {
		var i OrderStatusLog
		if err := rows.Scan(&i.ID, &i.OrderID, &i.Status, &i.ChangedBy, &i.Note, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
