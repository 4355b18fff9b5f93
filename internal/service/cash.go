package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pizzaria-pos/api/internal/auth"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/ledger"
	"github.com/shopspring/decimal"
)

// registerHistory bounds the OPEN/CLOSE rows read to decide the register state.
const registerHistory = 20

var (
	ErrAlreadyClosed       = errors.New("cash register already closed for this day")
	ErrRegisterAlreadyOpen = errors.New("cash register is already open")
	ErrInvalidAmount       = errors.New("amount must be >= 0")
	ErrInvalidRange        = errors.New("start must not be after end")
)

var cashRoles = []string{enum.UserRoleAdmin, enum.UserRoleManager, enum.UserRoleCashier}

// CashStore defines the DB methods needed for the cash register.
// Satisfied by *database.Queries.
type CashStore interface {
	LockCashRegister(ctx context.Context) error
	CreateCashLog(ctx context.Context, arg database.CreateCashLogParams) (database.CashLog, error)
	HasCloseForBusinessDate(ctx context.Context, businessDate pgtype.Date) (bool, error)
	ListRegisterEntries(ctx context.Context, limit int32) ([]database.CashLog, error)
	ListCashLogsInRange(ctx context.Context, arg database.ListCashLogsInRangeParams) ([]database.CashLog, error)
	ListSoldLinesInRange(ctx context.Context, arg database.ListSoldLinesInRangeParams) ([]database.ListSoldLinesInRangeRow, error)
}

// NewCashStore creates a CashStore from a DBTX (pool or tx).
type NewCashStore func(db database.DBTX) CashStore

// RegisterStatus is the current register state.
type RegisterStatus struct {
	IsOpen    bool              `json:"is_open"`
	LastEntry *database.CashLog `json:"last_entry"`
}

// CashRegisterService opens and closes the register and reports on the day.
type CashRegisterService struct {
	pool     TxBeginner
	newStore NewCashStore
	loc      *time.Location
	now      func() time.Time
}

// NewCashRegisterService creates a new CashRegisterService.
func NewCashRegisterService(pool TxBeginner, newStore NewCashStore, loc *time.Location) *CashRegisterService {
	return &CashRegisterService{pool: pool, newStore: newStore, loc: loc, now: time.Now}
}

// Open appends an OPEN entry with the starting float.
func (s *CashRegisterService) Open(ctx context.Context, p auth.Principal, amount decimal.Decimal, description string) (*database.CashLog, error) {
	if !p.HasRole(cashRoles...) {
		return nil, ErrForbidden
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := store.LockCashRegister(ctx); err != nil {
		return nil, fmt.Errorf("lock register: %w", err)
	}
	entries, err := store.ListRegisterEntries(ctx, registerHistory)
	if err != nil {
		return nil, fmt.Errorf("list register entries: %w", err)
	}
	if ledger.IsOpen(toEntries(entries)) {
		return nil, ErrRegisterAlreadyOpen
	}

	if strings.TrimSpace(description) == "" {
		description = "Abertura de caixa"
	}
	entry, err := store.CreateCashLog(ctx, database.CreateCashLogParams{
		Type:         enum.CashLogOpen,
		Amount:       decimalToNumeric(amount),
		Description:  text(description),
		UserID:       nullUUID(p.UserID),
		BusinessDate: businessDate(s.now(), s.loc),
	})
	if err != nil {
		return nil, fmt.Errorf("create cash log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &entry, nil
}

// Status reports whether the register is open and its latest OPEN/CLOSE entry.
func (s *CashRegisterService) Status(ctx context.Context, p auth.Principal) (*RegisterStatus, error) {
	if !p.HasRole(cashRoles...) {
		return nil, ErrForbidden
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	entries, err := s.newStore(tx).ListRegisterEntries(ctx, registerHistory)
	if err != nil {
		return nil, fmt.Errorf("list register entries: %w", err)
	}

	st := &RegisterStatus{IsOpen: ledger.IsOpen(toEntries(entries))}
	if len(entries) > 0 {
		st.LastEntry = &entries[0]
	}
	return st, nil
}

// CloseDay closes the register for the local day of date and returns the
// closing report. A day can be closed once.
func (s *CashRegisterService) CloseDay(ctx context.Context, p auth.Principal, date time.Time) (*ledger.Report, error) {
	if !p.HasRole(cashRoles...) {
		return nil, ErrForbidden
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := store.LockCashRegister(ctx); err != nil {
		return nil, fmt.Errorf("lock register: %w", err)
	}

	bizDate := businessDate(date, s.loc)
	closed, err := store.HasCloseForBusinessDate(ctx, bizDate)
	if err != nil {
		return nil, fmt.Errorf("check close: %w", err)
	}
	if closed {
		return nil, ErrAlreadyClosed
	}

	start, end := ledger.DayWindow(date, s.loc)
	window := database.ListCashLogsInRangeParams{StartTime: timestamptz(start), EndTime: timestamptz(end)}

	logs, err := store.ListCashLogsInRange(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("list cash logs: %w", err)
	}
	entries := toEntries(logs)

	// A CLOSE in the window may belong to the previous day when that day was
	// closed after midnight; only business_date decides.
	var opening *ledger.Entry
	for i := range entries {
		if entries[i].Type != enum.CashLogOpen {
			continue
		}
		if opening == nil || !entries[i].CreatedAt.Before(opening.CreatedAt) {
			opening = &entries[i]
		}
	}

	rows, err := store.ListSoldLinesInRange(ctx, database.ListSoldLinesInRangeParams{
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
	})
	if err != nil {
		return nil, fmt.Errorf("list sold lines: %w", err)
	}
	lines := make([]ledger.SoldLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, ledger.SoldLine{
			OrderID:   r.OrderID,
			ComboName: r.ComboName,
			Quantity:  r.Quantity,
			UnitPrice: numericToDecimal(r.UnitPrice),
		})
	}

	report := ledger.BuildReport(date, s.loc, opening, entries, lines)

	closing, err := store.CreateCashLog(ctx, database.CreateCashLogParams{
		Type:         enum.CashLogClose,
		Amount:       decimalToNumeric(report.TotalSales),
		Description:  text(fmt.Sprintf("Fechamento de caixa %s: %d pedidos", report.Date, report.TotalOrders)),
		UserID:       nullUUID(p.UserID),
		BusinessDate: bizDate,
	})
	if err != nil {
		if isUniqueViolation(err, "cash_logs_one_close_per_day") {
			return nil, ErrAlreadyClosed
		}
		return nil, fmt.Errorf("create cash log: %w", err)
	}
	report.ClosingAmount = numericToDecimal(closing.Amount)

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err, "cash_logs_one_close_per_day") {
			return nil, ErrAlreadyClosed
		}
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &report, nil
}

// ListLogs returns every entry created in [start, end].
func (s *CashRegisterService) ListLogs(ctx context.Context, p auth.Principal, start, end time.Time) ([]database.CashLog, error) {
	if !p.HasRole(cashRoles...) {
		return nil, ErrForbidden
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	logs, err := s.newStore(tx).ListCashLogsInRange(ctx, database.ListCashLogsInRangeParams{
		StartTime: timestamptz(start),
		EndTime:   timestamptz(end),
	})
	if err != nil {
		return nil, fmt.Errorf("list cash logs: %w", err)
	}
	return logs, nil
}

func toEntries(logs []database.CashLog) []ledger.Entry {
	out := make([]ledger.Entry, 0, len(logs))
	for _, l := range logs {
		e := ledger.Entry{
			ID:            l.ID,
			Type:          l.Type,
			Amount:        numericToDecimal(l.Amount),
			PaymentMethod: l.PaymentMethod.String,
			CreatedAt:     l.CreatedAt,
		}
		if l.OrderID.Valid {
			id := uuid.UUID(l.OrderID.Bytes)
			e.OrderID = &id
		}
		out = append(out, e)
	}
	return out
}
