package persistence

import (
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// advanceVersion locks the row of id in table for the rest of the
// transaction and moves *version past the stored one. A row that does not
// exist yet starts at 1. A stored version other than *version means the
// aggregate was loaded before someone else saved it.
func advanceVersion(tx *gorm.DB, table string, id uuid.UUID, version *int, resource string) error {
	var stored []int
	err := tx.Table(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Pluck("version", &stored).Error
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		*version = 1
		return nil
	}
	if stored[0] != *version {
		return shared.ConcurrencyConflict(resource)
	}
	*version = stored[0] + 1
	return nil
}
