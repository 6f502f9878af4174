package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestInvoicesXLSX(t *testing.T) {
	orgID, userID, clientID := uuid.New(), uuid.New(), uuid.New()
	issue := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	inv, err := billing.NewInvoice(orgID, userID, "INV-00001", issue, 14, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	inv.ClientID = &clientID
	_, err = inv.AddLine(billing.LineInput{Description: "Callout", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), GSTApplicable: true})
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent(issue))

	draft, err := billing.NewInvoice(orgID, userID, "INV-00002", issue, 14, decimal.Zero)
	require.NoError(t, err)

	data, err := InvoicesXLSX([]billing.Invoice{*inv, *draft}, map[uuid.UUID]string{clientID: "Jo Citizen"}, issue.AddDate(0, 1, 0))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(invoiceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Invoice", rows[0][0])
	assert.Equal(t, "INV-00001", rows[1][0])
	assert.Equal(t, "Jo Citizen", rows[1][1])
	assert.Equal(t, "sent", rows[1][2])
	assert.Equal(t, "yes", rows[1][10])
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "no", rows[2][10])

	total, err := f.GetCellValue(invoiceSheet, "H2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "110", total)
}
