package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineItemRequest_Input(t *testing.T) {
	price := decimal.RequireFromString("185.00")

	t.Run("missing quantity defaults to one", func(t *testing.T) {
		in := LineItemRequest{Description: "Replace mixer tap", UnitPrice: &price}.input()
		assert.True(t, in.Quantity.Equal(decimal.NewFromInt(1)))
		assert.True(t, in.GSTApplicable)
	})

	t.Run("explicit zero is passed through", func(t *testing.T) {
		zero := decimal.Zero
		noGST := false
		in := LineItemRequest{Description: "Replace mixer tap", Quantity: &zero, UnitPrice: &price, GSTApplicable: &noGST}.input()
		assert.True(t, in.Quantity.IsZero())
		assert.False(t, in.GSTApplicable)
	})
}
