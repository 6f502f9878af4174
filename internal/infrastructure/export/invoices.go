// Package export writes spreadsheet exports.
package export

import (
	"fmt"
	"time"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const invoiceSheet = "Invoices"

var invoiceHeader = []interface{}{
	"Invoice", "Client", "Status", "Issue date", "Due date",
	"Subtotal", "GST", "Total", "Paid", "Balance", "Overdue",
}

// InvoicesXLSX writes one row per invoice. clientNames maps client ids to
// display names; unknown clients are left blank.
func InvoicesXLSX(invoices []billing.Invoice, clientNames map[uuid.UUID]string, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(invoiceSheet, "A1", &invoiceHeader); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	date, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(invoiceSheet, "A1", "K1", bold); err != nil {
		return nil, err
	}

	for i := range invoices {
		inv := &invoices[i]
		row := i + 2
		client := ""
		if inv.ClientID != nil {
			client = clientNames[*inv.ClientID]
		}
		overdue := "no"
		if inv.IsOverdue(now) {
			overdue = "yes"
		}
		values := []interface{}{
			inv.InvoiceNumber,
			client,
			string(inv.Status),
			inv.IssueDate,
			inv.DueDate,
			inv.Subtotal.InexactFloat64(),
			inv.GSTAmount.InexactFloat64(),
			inv.TotalAmount.InexactFloat64(),
			inv.AmountPaid.InexactFloat64(),
			inv.RemainingBalance().InexactFloat64(),
			overdue,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(invoiceSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(invoiceSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), date); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(invoiceSheet, fmt.Sprintf("F%d", row), fmt.Sprintf("J%d", row), money); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(invoiceSheet, "A", "K", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(invoiceSheet, "B", "B", 28); err != nil {
		return nil, err
	}
	if err := f.SetPanes(invoiceSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
