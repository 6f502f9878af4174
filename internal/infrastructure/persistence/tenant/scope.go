// Package tenant scopes GORM queries to the organizations a user belongs to.
//
// Rows are never filtered by a client-supplied organization id alone: every
// read joins through an active organization_members row for the requesting
// user, so guessing another organization's id yields nothing.
//
// Usage:
//
//	db.Scopes(tenant.Visible(scope)).Find(&jobs)
//	db.Scopes(tenant.VisibleAs("j", scope)).Table("jobs j")...
package tenant

import (
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipSubquery selects the organizations a user is an active member of.
// It takes the user id as its single bound parameter.
const MembershipSubquery = "SELECT organization_id FROM organization_members WHERE user_id = ? AND status = 'active'"

// Visible restricts a query on a table with an organization_id column to
// rows the scope's user may read, narrowed to the scope's organization when set.
func Visible(scope shared.Scope) func(*gorm.DB) *gorm.DB {
	return VisibleAs("", scope)
}

// VisibleAs is Visible for a query that aliases its table
func VisibleAs(alias string, scope shared.Scope) func(*gorm.DB) *gorm.DB {
	col := "organization_id"
	if alias != "" {
		col = alias + ".organization_id"
	}
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(col+" IN ("+MembershipSubquery+")", scope.UserID)
		if scope.OrganizationID != nil {
			db = db.Where(col+" = ?", *scope.OrganizationID)
		}
		return db
	}
}

// Owned restricts a write to rows of one organization. Callers must already
// have checked the user's membership in that organization.
func Owned(organizationID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}
