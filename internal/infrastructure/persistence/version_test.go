package persistence

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lockInvoiceVersion = `SELECT "?version"? FROM "?invoices"? WHERE id = \$1 FOR UPDATE`

func TestAdvanceVersion(t *testing.T) {
	t.Run("new row starts at one", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		id := uuid.New()

		mock.ExpectQuery(lockInvoiceVersion).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		version := 0
		require.NoError(t, advanceVersion(db, "invoices", id, &version, "Invoice"))
		assert.Equal(t, 1, version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matching version advances", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		id := uuid.New()

		mock.ExpectQuery(lockInvoiceVersion).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(4))

		version := 4
		require.NoError(t, advanceVersion(db, "invoices", id, &version, "Invoice"))
		assert.Equal(t, 5, version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		id := uuid.New()

		mock.ExpectQuery(lockInvoiceVersion).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(5))

		version := 4
		err := advanceVersion(db, "invoices", id, &version, "Invoice")
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 4, version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock failure is returned", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		id := uuid.New()
		boom := errors.New("connection reset")

		mock.ExpectQuery(lockInvoiceVersion).WithArgs(id).WillReturnError(boom)

		version := 1
		assert.ErrorIs(t, advanceVersion(db, "invoices", id, &version, "Invoice"), boom)
	})
}

// Two requests that loaded the same invoice: the second save must not
// replace the payments written by the first.
func TestGormInvoiceRepository_Save_RejectsStaleCopy(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceRepository(db, "INV-")

	inv := &billing.Invoice{TenantEntity: shared.NewTenantEntity(uuid.New()), InvoiceNumber: "INV-00007", Version: 2}
	inv.Payments = []billing.InvoicePayment{{BaseEntity: shared.NewBaseEntity(), InvoiceID: inv.ID}}

	mock.ExpectBegin()
	mock.ExpectQuery(lockInvoiceVersion).WithArgs(inv.ID).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
	mock.ExpectRollback()

	err := repo.Save(ctx(), inv)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet(), "no delete or insert after the conflict")
}

func TestGormQuoteRepository_Save_RejectsStaleCopy(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormQuoteRepository(db, "Q-")

	q := &billing.Quote{TenantEntity: shared.NewTenantEntity(uuid.New()), QuoteNumber: "Q-00003", Version: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "?version"? FROM "?quotes"? WHERE id = \$1 FOR UPDATE`).WithArgs(q.ID).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Save(ctx(), q), shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
