// Package receipt renders finalized orders into fixed-width printable
// documents. Rendering is pure: it never touches the store and never
// mutates the order. Where the document ends up (thermal printer, file,
// HTTP response) is the sink's concern.
package receipt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/arenaretail/pos/internal/money"
)

// width is the character width of the printed document (80mm thermal roll).
const width = 40

// StoreInfo is the stationary header block printed on every receipt.
type StoreInfo struct {
	Name         string
	AddressLines []string
	Phone        string
	Currency     string // symbol prefixed to amounts, e.g. "Rs"
}

// Sink receives a rendered receipt document.
type Sink interface {
	Print(ctx context.Context, doc []byte) error
}

// WriterSink prints receipts to an io.Writer.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Print(_ context.Context, doc []byte) error {
	_, err := s.W.Write(doc)
	return err
}

// NopSink discards receipts. Used when no print surface is configured.
type NopSink struct{}

func (NopSink) Print(context.Context, []byte) error { return nil }

// Printer renders orders with a fixed store identity and hands the result
// to a sink.
type Printer struct {
	Info StoreInfo
	Sink Sink
}

// Print renders the order and sends it to the sink.
func (p *Printer) Print(ctx context.Context, o *domain.Order) error {
	return p.Sink.Print(ctx, []byte(Render(o, p.Info)))
}

// Render formats a finalized order as a fixed-width receipt document.
func Render(o *domain.Order, info StoreInfo) string {
	var b strings.Builder
	divider := strings.Repeat("-", width)

	// Header block
	b.WriteString(center(info.Name))
	for _, line := range info.AddressLines {
		b.WriteString(center(line))
	}
	if info.Phone != "" {
		b.WriteString(center("Phone: " + info.Phone))
	}
	b.WriteString("\n")

	// Info block
	fmt.Fprintf(&b, "Invoice No: %s\n", o.ID)
	fmt.Fprintf(&b, "Date: %s\n", o.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Customer: %s\n", orPlaceholder(o.CustomerName))
	fmt.Fprintf(&b, "Phone: %s\n", orPlaceholder(o.PhoneNumber))
	b.WriteString(divider + "\n")

	// Itemized list
	for i, it := range o.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Name)
		fmt.Fprintf(&b, "   %d @ %s = %s", it.Quantity, money.Display(it.Price), money.Display(it.Total()))
		if it.Discount.IsPositive() {
			fmt.Fprintf(&b, " (Disc: %s%%)", it.Discount.String())
		}
		b.WriteString("\n")
	}
	b.WriteString(divider + "\n")

	// Totals block
	cur := info.Currency
	fmt.Fprintf(&b, "Total Items: %d\n", o.ItemCount())
	fmt.Fprintf(&b, "Gross Amount: %s%s\n", cur, money.Display(o.Total))
	fmt.Fprintf(&b, "Amount Payable: %s%s\n", cur, money.Display(o.Total))
	fmt.Fprintf(&b, "Cash Received: %s%s\n", cur, money.Display(o.TenderedAmount))
	fmt.Fprintf(&b, "Change: %s%s\n", cur, money.Display(o.Change))
	b.WriteString(divider + "\n")

	// Footer block
	b.WriteString(center("Thank you for shopping!"))
	b.WriteString(center("Please come again"))

	return b.String()
}

// orPlaceholder substitutes the original receipt's "#" marker for blank
// customer fields.
func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "#"
	}
	return s
}

func center(s string) string {
	// Padding counts printed columns, not bytes; store names are not
	// guaranteed to be ASCII.
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s + "\n"
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s + "\n"
}
