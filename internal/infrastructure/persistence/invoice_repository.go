package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db     *gorm.DB
	prefix string
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository. prefix is
// prepended to generated invoice numbers.
func NewGormInvoiceRepository(db *gorm.DB, prefix string) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, prefix: prefix}
}

func withInvoiceChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date ASC, created_at ASC") })
}

func (r *GormInvoiceRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope), withInvoiceChildren).Where("id = ?", id).First(&inv).Error
	if err != nil {
		return nil, translate(err, "Invoice")
	}
	return &inv, nil
}

// FindByPublicToken matches the token exactly; an empty token never matches
func (r *GormInvoiceRepository) FindByPublicToken(ctx context.Context, token string) (*billing.Invoice, error) {
	if strings.TrimSpace(token) == "" {
		return nil, shared.NotFound("Invoice")
	}
	var inv billing.Invoice
	err := r.db.WithContext(ctx).Scopes(withInvoiceChildren).Where("public_token = ?", token).First(&inv).Error
	if err != nil {
		return nil, translate(err, "Invoice")
	}
	return &inv, nil
}

// List returns invoice headers without lines or payments
func (r *GormInvoiceRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Scopes(tenant.Visible(scope))
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", likePattern(filter.Search))
	}
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	for _, col := range []string{"client_id", "job_id"} {
		if v, ok := filter.Filters[col].(uuid.UUID); ok {
			query = query.Where(col+" = ?", v)
		}
	}

	query, total, err := paginate(query, filter, InvoiceSortFields, "issue_date")
	if err != nil {
		return nil, 0, err
	}
	var invoices []billing.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvoice(tx, inv)
	})
}

// saveInvoice writes the header and replaces the children so removed lines
// and payments disappear with the same commit. The header row stays locked
// until commit, and a copy loaded before another save is rejected.
func saveInvoice(tx *gorm.DB, inv *billing.Invoice) error {
	if err := advanceVersion(tx, "invoices", inv.ID, &inv.Version, "Invoice"); err != nil {
		return err
	}
	if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
		return translate(err, "Invoice")
	}
	if err := tx.Where("invoice_id = ?", inv.ID).Delete(&billing.InvoiceLineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("invoice_id = ?", inv.ID).Delete(&billing.InvoicePayment{}).Error; err != nil {
		return err
	}
	if len(inv.LineItems) > 0 {
		if err := tx.Create(&inv.LineItems).Error; err != nil {
			return err
		}
	}
	if len(inv.Payments) > 0 {
		if err := tx.Create(&inv.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormInvoiceRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&billing.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Invoice")
	}
	return nil
}

type nextNumber struct {
	Next int64
}

// NextNumber returns the next sequential number for the organization. The
// unique (organization_id, invoice_number) constraint rejects a racing insert.
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	n, err := maxNumber(ctx, r.db, "invoices", "invoice_number", organizationID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", r.prefix, n), nil
}

// maxNumber reads the trailing digits of existing document numbers, so
// numbers imported with another prefix still advance the sequence.
func maxNumber(ctx context.Context, db *gorm.DB, table, column string, organizationID uuid.UUID) (int64, error) {
	var out nextNumber
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(CAST(SUBSTRING(`+column+` FROM '[0-9]+$') AS BIGINT)), 0) + 1 AS next
		 FROM `+table+` WHERE organization_id = ?`,
		organizationID,
	).Scan(&out).Error
	if err != nil {
		return 0, err
	}
	if out.Next < 1 {
		out.Next = 1
	}
	return out.Next, nil
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
