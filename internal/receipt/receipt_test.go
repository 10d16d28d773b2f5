package receipt

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:             uuid.MustParse("6be72f6e-54f0-4a1c-9b9f-0db0e32ad74e"),
		CustomerName:   "Ali Raza",
		PhoneNumber:    "",
		Total:          dec("230"),
		TenderedAmount: dec("250"),
		Change:         dec("20"),
		CreatedAt:      time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{Name: "Shirt", Quantity: 2, Price: dec("100"), Discount: dec("10")},
			{Name: "Scarf", Quantity: 1, Price: dec("50"), Discount: decimal.Zero},
		},
	}
}

func sampleInfo() StoreInfo {
	return StoreInfo{
		Name:         "Fashion Arena",
		AddressLines: []string{"Opp. Prisma Mall", "Cantt."},
		Phone:        "055-386577",
		Currency:     "Rs",
	}
}

func TestRender(t *testing.T) {
	doc := Render(sampleOrder(), sampleInfo())

	assert.Contains(t, doc, "Fashion Arena")
	assert.Contains(t, doc, "Invoice No: 6be72f6e-54f0-4a1c-9b9f-0db0e32ad74e")
	assert.Contains(t, doc, "Date: 2025-03-14 18:30:00")
	assert.Contains(t, doc, "Customer: Ali Raza")
	assert.Contains(t, doc, "Phone: #")

	assert.Contains(t, doc, "1. Shirt")
	assert.Contains(t, doc, "2 @ 100.00 = 180.00 (Disc: 10%)")
	assert.Contains(t, doc, "2. Scarf")
	assert.Contains(t, doc, "1 @ 50.00 = 50.00")
	assert.NotContains(t, doc, "50.00 (Disc", "no discount annotation for zero discount")

	assert.Contains(t, doc, "Total Items: 3")
	assert.Contains(t, doc, "Gross Amount: Rs230.00")
	assert.Contains(t, doc, "Amount Payable: Rs230.00")
	assert.Contains(t, doc, "Cash Received: Rs250.00")
	assert.Contains(t, doc, "Change: Rs20.00")
	assert.Contains(t, doc, "Thank you for shopping!")
}

func TestCenter_CountsRunesNotBytes(t *testing.T) {
	// Both names occupy 8 printed columns; the second is multi-byte.
	ascii := center("Boutique")
	urdu := center("دکان عمر")

	assert.Equal(t, strings.Repeat(" ", 16)+"Boutique\n", ascii)
	assert.Equal(t, strings.Repeat(" ", 16)+"دکان عمر\n", urdu)
}

func TestRender_DoesNotMutateOrder(t *testing.T) {
	o := sampleOrder()
	before := o.Total.String()

	_ = Render(o, sampleInfo())

	assert.Equal(t, before, o.Total.String())
	assert.Len(t, o.Items, 2)
}

func TestPrinter_WritesToSink(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Info: sampleInfo(), Sink: WriterSink{W: &buf}}

	require.NoError(t, p.Print(context.Background(), sampleOrder()))
	assert.Contains(t, buf.String(), "Fashion Arena")
}
