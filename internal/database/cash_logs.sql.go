package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const cashLogColumns = `id, type, amount, order_id, payment_method, description, user_id, business_date, created_at`

func scanCashLog(row interface{ Scan(...any) error }) (CashLog, error) {
	var i CashLog
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Amount,
		&i.OrderID,
		&i.PaymentMethod,
		&i.Description,
		&i.UserID,
		&i.BusinessDate,
		&i.CreatedAt,
	)
	return i, err
}

const createCashLog = `-- name: CreateCashLog :one
INSERT INTO cash_logs (type, amount, order_id, payment_method, description, user_id, business_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + cashLogColumns

type CreateCashLogParams struct {
	Type          string         `json:"type"`
	Amount        pgtype.Numeric `json:"amount"`
	OrderID       pgtype.UUID    `json:"order_id"`
	PaymentMethod pgtype.Text    `json:"payment_method"`
	Description   pgtype.Text    `json:"description"`
	UserID        pgtype.UUID    `json:"user_id"`
	BusinessDate  pgtype.Date    `json:"business_date"`
}

func (q *Queries) CreateCashLog(ctx context.Context, arg CreateCashLogParams) (CashLog, error) {
	row := q.db.QueryRow(ctx, createCashLog,
		arg.Type,
		arg.Amount,
		arg.OrderID,
		arg.PaymentMethod,
		arg.Description,
		arg.UserID,
		arg.BusinessDate,
	)
	return scanCashLog(row)
}

const listRegisterEntries = `-- name: ListRegisterEntries :many
SELECT ` + cashLogColumns + ` FROM cash_logs
WHERE type IN ('OPEN', 'CLOSE')
ORDER BY created_at DESC, id DESC
LIMIT $1`

// ListRegisterEntries returns the most recent OPEN/CLOSE entries, newest first.
func (q *Queries) ListRegisterEntries(ctx context.Context, limit int32) ([]CashLog, error) {
	rows, err := q.db.Query(ctx, listRegisterEntries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CashLog{}
	for rows.Next() {
		i, err := scanCashLog(rows)
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

const listCashLogsInRange = `-- name: ListCashLogsInRange :many
SELECT ` + cashLogColumns + ` FROM cash_logs
WHERE created_at >= $1 AND created_at <= $2
ORDER BY created_at, id`

type ListCashLogsInRangeParams struct {
	StartTime pgtype.Timestamptz `json:"start_time"`
	EndTime   pgtype.Timestamptz `json:"end_time"`
}

func (q *Queries) ListCashLogsInRange(ctx context.Context, arg ListCashLogsInRangeParams) ([]CashLog, error) {
	rows, err := q.db.Query(ctx, listCashLogsInRange, arg.StartTime, arg.EndTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CashLog{}
	for rows.Next() {
		i, err := scanCashLog(rows)
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

const listSoldLinesInRange = `-- name: ListSoldLinesInRange :many
SELECT oi.order_id, oi.combo_name, oi.quantity, oi.unit_price
FROM order_items oi
JOIN cash_logs cl ON cl.order_id = oi.order_id AND cl.type = 'ORDER'
WHERE cl.created_at >= $1 AND cl.created_at <= $2
ORDER BY oi.order_id, oi.id`

type ListSoldLinesInRangeParams struct {
	StartTime pgtype.Timestamptz `json:"start_time"`
	EndTime   pgtype.Timestamptz `json:"end_time"`
}

type ListSoldLinesInRangeRow struct {
	OrderID   uuid.UUID      `json:"order_id"`
	ComboName string         `json:"combo_name"`
	Quantity  int32          `json:"quantity"`
	UnitPrice pgtype.Numeric `json:"unit_price"`
}

func (q *Queries) ListSoldLinesInRange(ctx context.Context, arg ListSoldLinesInRangeParams) ([]ListSoldLinesInRangeRow, error) {
	rows, err := q.db.Query(ctx, listSoldLinesInRange, arg.StartTime, arg.EndTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListSoldLinesInRangeRow{}
	for rows.Next() {
		var i ListSoldLinesInRangeRow
		if err := rows.Scan(&i.OrderID, &i.ComboName, &i.Quantity, &i.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Arbitrary key shared by every register mutation.
const cashRegisterLockKey = 7301

const lockCashRegister = `-- name: LockCashRegister :exec
SELECT pg_advisory_xact_lock($1)`

// LockCashRegister serializes register mutations until the surrounding
// transaction ends.
func (q *Queries) LockCashRegister(ctx context.Context) error {
	_, err := q.db.Exec(ctx, lockCashRegister, int64(cashRegisterLockKey))
	return err
}

const hasCloseForBusinessDate = `-- name: HasCloseForBusinessDate :one
SELECT EXISTS (
    SELECT 1 FROM cash_logs WHERE type = 'CLOSE' AND business_date = $1
)`

// HasCloseForBusinessDate reports whether the given business day was closed,
// regardless of when the CLOSE row was written.
func (q *Queries) HasCloseForBusinessDate(ctx context.Context, businessDate pgtype.Date) (bool, error) {
	row := q.db.QueryRow(ctx, hasCloseForBusinessDate, businessDate)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
