package pos

import (
	"testing"

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

func product(name, code, price string) domain.Product {
	return domain.Product{
		ID:    uuid.New(),
		Name:  name,
		Code:  code,
		Price: dec(price),
	}
}

func TestCart_AddLine(t *testing.T) {
	c := NewCart()

	line, err := c.AddLine(product("Shirt", "SH-1", "100"), 2, dec("10"))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.Subtotal.Equal(dec("200")))
	assert.True(t, line.TotalAfterDiscount.Equal(dec("180")))
}

func TestCart_AddLine_MergesOnDuplicateCode(t *testing.T) {
	c := NewCart()
	p := product("Shirt", "SH-1", "100")

	_, err := c.AddLine(p, 2, dec("10"))
	require.NoError(t, err)

	// Same code again: quantity adds up, the new discount wins.
	line, err := c.AddLine(p, 3, dec("20"))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.Discount.Equal(dec("20")))
	assert.True(t, line.Subtotal.Equal(dec("500")))
	assert.True(t, line.TotalAfterDiscount.Equal(dec("400")))
}

func TestCart_AddLine_NoCodeMergesByProductID(t *testing.T) {
	c := NewCart()
	a := product("Loose button", "", "5")
	b := product("Loose thread", "", "3")

	_, err := c.AddLine(a, 1, decimal.Zero)
	require.NoError(t, err)
	_, err = c.AddLine(b, 1, decimal.Zero)
	require.NoError(t, err)
	_, err = c.AddLine(a, 2, decimal.Zero)
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, 3, c.Lines()[0].Quantity)
	assert.Equal(t, 1, c.Lines()[1].Quantity)
}

func TestCart_AddLine_InvalidInput(t *testing.T) {
	c := NewCart()
	p := product("Shirt", "SH-1", "100")

	_, err := c.AddLine(p, 0, decimal.Zero)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = c.AddLine(p, 1, dec("101"))
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	assert.Equal(t, 0, c.Len(), "invalid adds must not leave partial lines")
}

func TestCart_AddLine_InvalidQuantityOnMerge(t *testing.T) {
	c := NewCart()
	p := product("Shirt", "SH-1", "100")

	_, err := c.AddLine(p, 5, dec("10"))
	require.NoError(t, err)

	// A zero add must not slip through the merge branch and overwrite the
	// discount, and a negative add must not decrement the line.
	_, err = c.AddLine(p, 0, dec("90"))
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = c.AddLine(p, -3, decimal.Zero)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 5, c.Lines()[0].Quantity)
	assert.True(t, c.Lines()[0].Discount.Equal(dec("10")))
}

func TestCart_RemoveLine(t *testing.T) {
	c := NewCart()
	_, err := c.AddLine(product("A", "A-1", "10"), 1, decimal.Zero)
	require.NoError(t, err)
	_, err = c.AddLine(product("B", "B-1", "20"), 1, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, c.RemoveLine(0))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "B-1", c.Lines()[0].Code)

	assert.ErrorIs(t, c.RemoveLine(1), ErrLineOutOfRange)
	assert.ErrorIs(t, c.RemoveLine(-1), ErrLineOutOfRange)
}

func TestCart_TotalRecomputedAfterEveryMutation(t *testing.T) {
	c := NewCart()

	_, err := c.AddLine(product("A", "A-1", "100"), 2, dec("10"))
	require.NoError(t, err)
	assert.True(t, c.Total().Equal(dec("180")))

	_, err = c.AddLine(product("B", "B-1", "50"), 1, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, c.Total().Equal(dec("230")))

	require.NoError(t, c.RemoveLine(1))
	assert.True(t, c.Total().Equal(dec("180")))

	c.Clear()
	assert.True(t, c.Total().Equal(decimal.Zero))
}

func TestCart_Clear(t *testing.T) {
	c := NewCart()
	c.SetCustomer("Ali", "0321-0000000")
	_, err := c.AddLine(product("A", "A-1", "10"), 1, decimal.Zero)
	require.NoError(t, err)

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.CustomerName)
	assert.Empty(t, c.PhoneNumber)
}

func TestCart_SubmissionFlag(t *testing.T) {
	c := NewCart()

	require.NoError(t, c.BeginSubmission())
	assert.ErrorIs(t, c.BeginSubmission(), ErrSubmissionInFlight)

	c.EndSubmission()
	assert.NoError(t, c.BeginSubmission())
}

func TestRegistry_OneCartPerSession(t *testing.T) {
	r := NewRegistry()

	a := r.Cart("till-1")
	b := r.Cart("till-2")
	assert.NotSame(t, a, b)

	_, err := a.AddLine(product("A", "A-1", "10"), 1, decimal.Zero)
	require.NoError(t, err)

	assert.Same(t, a, r.Cart("till-1"))
	assert.Equal(t, 0, r.Cart("till-2").Len())
}
