package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLine struct {
	amount decimal.Decimal
	gst    bool
}

func (l testLine) LineAmount() decimal.Decimal { return l.amount }
func (l testLine) IsGSTApplicable() bool       { return l.gst }

func TestComputeTotals(t *testing.T) {
	lines := []testLine{
		{amount: decimal.RequireFromString("100.00"), gst: true},
		{amount: decimal.RequireFromString("49.95"), gst: true},
		{amount: decimal.RequireFromString("20.00"), gst: false},
	}

	totals := ComputeTotals(lines, DefaultGSTRate)

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("169.95")))
	assert.True(t, totals.GSTAmount.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.GSTAmount)))
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals([]testLine{}, DefaultGSTRate)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.GSTAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestPercentOf(t *testing.T) {
	got := PercentOf(decimal.RequireFromString("1234.56"), decimal.NewFromInt(25))
	assert.Equal(t, "308.64", got.StringFixed(2))
}

func TestNewPublicToken(t *testing.T) {
	a, err := NewPublicToken()
	require.NoError(t, err)
	b, err := NewPublicToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestDomainError_Is(t *testing.T) {
	err := NotFound("Invoice")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
}
