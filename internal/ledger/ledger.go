// Package ledger derives register state and daily close reports from the
// append-only cash log.
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

const topCombosLimit = 10

// Entry is one cash log row.
type Entry struct {
	ID            uuid.UUID
	Type          string
	Amount        decimal.Decimal
	OrderID       *uuid.UUID
	PaymentMethod string
	CreatedAt     time.Time
}

// IsOpen reports whether the chronologically last OPEN/CLOSE entry is OPEN.
// Entries may be given in any order.
func IsOpen(entries []Entry) bool {
	var last *Entry
	for i := range entries {
		e := &entries[i]
		if e.Type != enum.CashLogOpen && e.Type != enum.CashLogClose {
			continue
		}
		if last == nil || !e.CreatedAt.Before(last.CreatedAt) {
			last = e
		}
	}
	return last != nil && last.Type == enum.CashLogOpen
}

// DayWindow returns the first and last millisecond of date's day in loc.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// SoldLine is an order item sold in the window, joined with its product name.
type SoldLine struct {
	OrderID   uuid.UUID
	ComboName string
	Quantity  int32
	UnitPrice decimal.Decimal
}

// PaymentMethodSales is one row of the payment method breakdown.
type PaymentMethodSales struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// ComboSales is one row of the best sellers breakdown.
type ComboSales struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// HourlySales is one row of the per-hour breakdown.
type HourlySales struct {
	Hour  int             `json:"hour"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Report is the daily closing report.
type Report struct {
	Date                 string               `json:"date"`
	OpeningAmount        decimal.Decimal      `json:"opening_amount"`
	TotalSales           decimal.Decimal      `json:"total_sales"`
	TotalOrders          int                  `json:"total_orders"`
	Revenue              decimal.Decimal      `json:"revenue"`
	ClosingAmount        decimal.Decimal      `json:"closing_amount"`
	SalesByPaymentMethod []PaymentMethodSales `json:"sales_by_payment_method"`
	TopCombos            []ComboSales         `json:"top_combos"`
	HourlySales          []HourlySales        `json:"hourly_sales"`
}

// BuildReport aggregates the day's ORDER entries and sold lines. opening is
// the day's OPEN entry, or nil when the register was not opened.
func BuildReport(date time.Time, loc *time.Location, opening *Entry, orders []Entry, lines []SoldLine) Report {
	totalSales := decimal.Zero
	totalOrders := 0
	for _, e := range orders {
		if e.Type != enum.CashLogOrder {
			continue
		}
		totalSales = totalSales.Add(e.Amount)
		totalOrders++
	}

	openingAmount := decimal.Zero
	if opening != nil {
		openingAmount = opening.Amount
	}

	return Report{
		Date:                 date.In(loc).Format("2006-01-02"),
		OpeningAmount:        openingAmount,
		TotalSales:           totalSales,
		TotalOrders:          totalOrders,
		Revenue:              totalSales.Sub(openingAmount),
		ClosingAmount:        totalSales,
		SalesByPaymentMethod: salesByPaymentMethod(orders),
		TopCombos:            topCombos(lines),
		HourlySales:          hourlySales(orders, loc),
	}
}

func salesByPaymentMethod(orders []Entry) []PaymentMethodSales {
	idx := make(map[string]int)
	var out []PaymentMethodSales
	for _, e := range orders {
		if e.Type != enum.CashLogOrder {
			continue
		}
		method := e.PaymentMethod
		if method == "" {
			method = "UNKNOWN"
		}
		i, ok := idx[method]
		if !ok {
			i = len(out)
			idx[method] = i
			out = append(out, PaymentMethodSales{Method: method, Total: decimal.Zero})
		}
		out[i].Count++
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Method < out[b].Method })
	return out
}

func topCombos(lines []SoldLine) []ComboSales {
	idx := make(map[string]int)
	var out []ComboSales
	for _, l := range lines {
		i, ok := idx[l.ComboName]
		if !ok {
			i = len(out)
			idx[l.ComboName] = i
			out = append(out, ComboSales{Name: l.ComboName, Revenue: decimal.Zero})
		}
		out[i].Quantity += int64(l.Quantity)
		out[i].Revenue = out[i].Revenue.Add(l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Quantity != out[b].Quantity {
			return out[a].Quantity > out[b].Quantity
		}
		return out[a].Name < out[b].Name
	})
	if len(out) > topCombosLimit {
		out = out[:topCombosLimit]
	}
	return out
}

func hourlySales(orders []Entry, loc *time.Location) []HourlySales {
	byHour := make(map[int]*HourlySales)
	for _, e := range orders {
		if e.Type != enum.CashLogOrder {
			continue
		}
		h := e.CreatedAt.In(loc).Hour()
		row, ok := byHour[h]
		if !ok {
			row = &HourlySales{Hour: h, Total: decimal.Zero}
			byHour[h] = row
		}
		row.Count++
		row.Total = row.Total.Add(e.Amount)
	}

	out := make([]HourlySales, 0, len(byHour))
	for _, row := range byHour {
		out = append(out, *row)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Hour < out[b].Hour })
	return out
}
