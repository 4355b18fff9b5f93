// Package printer renders kitchen/customer receipts and ships them to a
// network receipt printer.
package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotConfigured is returned when no printer address is set.
var ErrNotConfigured = errors.New("printer not configured")

const lineWidth = 40

// Receipt is the printable view of an order.
type Receipt struct {
	StoreName     string
	OrderNumber   string
	CreatedAt     time.Time
	CustomerName  string
	CustomerPhone string
	DeliveryType  string
	Address       string
	PaymentMethod string
	Notes         string
	Lines         []ReceiptLine
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
}

// ReceiptLine is one order item.
type ReceiptLine struct {
	Quantity     int32
	Name         string
	Details      []string
	Observations string
	Total        decimal.Decimal
}

// Render formats r as fixed-width plain text.
func Render(r Receipt) []byte {
	var b bytes.Buffer
	sep := strings.Repeat("-", lineWidth) + "\n"

	b.WriteString(center(r.StoreName))
	b.WriteString(center("PEDIDO " + r.OrderNumber))
	b.WriteString(center(r.CreatedAt.Format("02/01/2006 15:04")))
	b.WriteString(sep)

	fmt.Fprintf(&b, "Cliente: %s\n", r.CustomerName)
	if r.CustomerPhone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", r.CustomerPhone)
	}
	fmt.Fprintf(&b, "Entrega: %s\n", r.DeliveryType)
	if r.Address != "" {
		fmt.Fprintf(&b, "Endereco: %s\n", r.Address)
	}
	b.WriteString(sep)

	for _, l := range r.Lines {
		b.WriteString(columns(fmt.Sprintf("%dx %s", l.Quantity, l.Name), money(l.Total)))
		for _, d := range l.Details {
			fmt.Fprintf(&b, "   %s\n", d)
		}
		if l.Observations != "" {
			fmt.Fprintf(&b, "   Obs: %s\n", l.Observations)
		}
	}
	b.WriteString(sep)

	b.WriteString(columns("Subtotal", money(r.Subtotal)))
	if !r.DeliveryFee.IsZero() {
		b.WriteString(columns("Taxa de entrega", money(r.DeliveryFee)))
	}
	b.WriteString(columns("TOTAL", money(r.Total)))
	fmt.Fprintf(&b, "Pagamento: %s\n", r.PaymentMethod)
	if r.Notes != "" {
		fmt.Fprintf(&b, "Obs: %s\n", r.Notes)
	}
	b.WriteString("\n\n\n")
	return b.Bytes()
}

func money(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s + "\n"
	}
	return strings.Repeat(" ", (lineWidth-len(s))/2) + s + "\n"
}

func columns(left, right string) string {
	gap := lineWidth - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

// TCPSink writes raw receipts to a printer listening on a TCP port
// (usually 9100).
type TCPSink struct {
	Addr    string
	Timeout time.Duration
}

// Print sends data to the printer. The whole exchange is bounded by Timeout.
func (s *TCPSink) Print(ctx context.Context, data []byte) error {
	if s.Addr == "" {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("dial printer: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("set deadline: %w", err)
		}
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}
