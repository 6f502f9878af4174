package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormUserRepository_FindByEmail(t *testing.T) {
	t.Run("normalizes the address", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("sam@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "status"}).AddRow(id, "sam@example.com", "active"))

		u, err := repo.FindByEmail(ctx(), "  Sam@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user is not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByEmail(ctx(), "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrganizationRepository_Credits(t *testing.T) {
	t.Run("consume succeeds when balance covers it", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrganizationRepository(db)
		orgID := uuid.New()

		mock.ExpectExec(`UPDATE organizations SET sms_credits = sms_credits - \$1, updated_at = \$2\s+WHERE id = \$3 AND sms_credits >= \$4`).
			WithArgs(2, sqlmock.AnyArg(), orgID, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.ConsumeSMSCredits(ctx(), orgID, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("consume reports false when balance is short", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrganizationRepository(db)

		mock.ExpectExec(`UPDATE organizations SET sms_credits = sms_credits - \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.ConsumeSMSCredits(ctx(), uuid.New(), 5)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("add returns the new balance", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrganizationRepository(db)
		orgID := uuid.New()

		mock.ExpectQuery(`UPDATE organizations SET sms_credits = sms_credits \+ \$1, updated_at = \$2\s+WHERE id = \$3 AND sms_credits \+ \$4 >= 0\s+RETURNING sms_credits`).
			WithArgs(100, sqlmock.AnyArg(), orgID, 100).
			WillReturnRows(sqlmock.NewRows([]string{"sms_credits"}).AddRow(150))

		balance, err := repo.AddSMSCredits(ctx(), orgID, 100)
		require.NoError(t, err)
		assert.Equal(t, 150, balance)
	})

	t.Run("negative adjustment below zero is refused", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrganizationRepository(db)
		orgID := uuid.New()

		mock.ExpectQuery(`UPDATE organizations SET sms_credits`).
			WillReturnRows(sqlmock.NewRows([]string{"sms_credits"}))
		mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1`).
			WithArgs(orgID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sms_credits"}).AddRow(orgID, "Acme Plumbing", 3))

		_, err := repo.AddSMSCredits(ctx(), orgID, -10)
		assert.ErrorIs(t, err, shared.ErrInsufficientCredits)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMemberRepository(t *testing.T) {
	t.Run("visible list excludes removed members", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMemberRepository(db)
		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "organization_members" WHERE organization_id = \$1 AND status <> \$2 ORDER BY created_at ASC`).
			WithArgs(orgID, string(identity.MemberStatusRemoved)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "status"}))

		members, err := repo.ListVisible(ctx(), orgID)
		require.NoError(t, err)
		assert.Empty(t, members)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("active lookup requires active status", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMemberRepository(db)
		orgID, userID := uuid.New(), uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "organization_members" WHERE organization_id = \$1 AND user_id = \$2 AND status = \$3`).
			WithArgs(orgID, userID, string(identity.MemberStatusActive), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindActive(ctx(), orgID, userID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
