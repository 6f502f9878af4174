package tenant

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type testRow struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
}

func (testRow) TableName() string { return "clients" }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestVisible(t *testing.T) {
	t.Run("all organizations of the user", func(t *testing.T) {
		db, mock := newMockDB(t)
		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE organization_id IN \(SELECT organization_id FROM organization_members WHERE user_id = \$1 AND status = 'active'\)`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name"}))

		var rows []testRow
		require.NoError(t, db.Scopes(Visible(shared.NewScope(userID, nil))).Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("narrowed to one organization", func(t *testing.T) {
		db, mock := newMockDB(t)
		userID, orgID := uuid.New(), uuid.New()

		mock.ExpectQuery(`WHERE organization_id IN \(SELECT .*user_id = \$1.*\) AND organization_id = \$2`).
			WithArgs(userID, orgID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name"}))

		var rows []testRow
		require.NoError(t, db.Scopes(Visible(shared.NewScope(userID, &orgID))).Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hostile ids stay bound parameters", func(t *testing.T) {
		db, mock := newMockDB(t)
		userID := uuid.New()

		mock.ExpectQuery(`WHERE c.organization_id IN \(SELECT .*\$1.*\) AND name = \$2`).
			WithArgs(userID, "x'; DROP TABLE jobs; --").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		var rows []testRow
		err := db.Table("clients c").Scopes(VisibleAs("c", shared.NewScope(userID, nil))).
			Where("name = ?", "x'; DROP TABLE jobs; --").Find(&rows).Error
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
