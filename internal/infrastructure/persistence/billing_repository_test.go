package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormInvoiceRepository_FindByPublicToken(t *testing.T) {
	t.Run("matches the exact token and loads children", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db, "INV-")

		invID, orgID := uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE public_token = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("tok_abc", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "invoice_number", "status", "public_token"}).
				AddRow(invID, orgID, "INV-00042", "sent", "tok_abc"))
		mock.ExpectQuery(`SELECT \* FROM "invoice_line_items" WHERE "invoice_line_items"."invoice_id" = \$1 ORDER BY sort_order ASC, created_at ASC`).
			WithArgs(invID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "description"}).AddRow(uuid.New(), invID, "Labour"))
		mock.ExpectQuery(`SELECT \* FROM "invoice_payments" WHERE "invoice_payments"."invoice_id" = \$1`).
			WithArgs(invID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id"}))

		inv, err := repo.FindByPublicToken(ctx(), "tok_abc")
		require.NoError(t, err)
		assert.Equal(t, "INV-00042", inv.InvoiceNumber)
		assert.Len(t, inv.LineItems, 1)
		assert.Empty(t, inv.Payments)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty token never queries", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db, "INV-")

		_, err := repo.FindByPublicToken(ctx(), " ")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindByID_Scoped(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceRepository(db, "INV-")

	userID, invID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE organization_id IN \(SELECT organization_id FROM organization_members WHERE user_id = \$1 AND status = 'active'\) AND id = \$2`).
		WithArgs(userID, invID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(ctx(), shared.NewScope(userID, nil), invID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "invoices outside the user's organizations look missing")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextNumber(t *testing.T) {
	t.Run("invoice", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db, "INV-")
		orgID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SUBSTRING\(invoice_number FROM '\[0-9\]\+\$'\) AS BIGINT\)\), 0\) \+ 1 AS next\s+FROM invoices WHERE organization_id = \$1`).
			WithArgs(orgID).
			WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(42))

		n, err := repo.NextNumber(ctx(), orgID)
		require.NoError(t, err)
		assert.Equal(t, "INV-00042", n)
	})

	t.Run("first quote", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormQuoteRepository(db, "Q-")

		mock.ExpectQuery(`FROM quotes WHERE organization_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))

		n, err := repo.NextNumber(ctx(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "Q-00001", n)
	})
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceRepository(db, "INV-")
	orgID, id := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM "invoices" WHERE organization_id = \$1 AND id = \$2`).
		WithArgs(orgID, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(ctx(), orgID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
