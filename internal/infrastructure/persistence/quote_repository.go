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

// GormQuoteRepository implements billing.QuoteRepository using GORM
type GormQuoteRepository struct {
	db     *gorm.DB
	prefix string
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB, prefix string) *GormQuoteRepository {
	return &GormQuoteRepository{db: db, prefix: prefix}
}

func withQuoteLines(db *gorm.DB) *gorm.DB {
	return db.Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") })
}

func (r *GormQuoteRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*billing.Quote, error) {
	var q billing.Quote
	err := r.db.WithContext(ctx).Scopes(tenant.Visible(scope), withQuoteLines).Where("id = ?", id).First(&q).Error
	if err != nil {
		return nil, translate(err, "Quote")
	}
	return &q, nil
}

func (r *GormQuoteRepository) FindByPublicToken(ctx context.Context, token string) (*billing.Quote, error) {
	if strings.TrimSpace(token) == "" {
		return nil, shared.NotFound("Quote")
	}
	var q billing.Quote
	err := r.db.WithContext(ctx).Scopes(withQuoteLines).Where("public_token = ?", token).First(&q).Error
	if err != nil {
		return nil, translate(err, "Quote")
	}
	return &q, nil
}

func (r *GormQuoteRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]billing.Quote, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Quote{}).Scopes(tenant.Visible(scope))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("quote_number ILIKE ? OR title ILIKE ?", p, p)
	}
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	for _, col := range []string{"client_id", "job_id"} {
		if v, ok := filter.Filters[col].(uuid.UUID); ok {
			query = query.Where(col+" = ?", v)
		}
	}

	query, total, err := paginate(query, filter, QuoteSortFields, "issue_date")
	if err != nil {
		return nil, 0, err
	}
	var quotes []billing.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *GormQuoteRepository) Save(ctx context.Context, q *billing.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveQuote(tx, q)
	})
}

func saveQuote(tx *gorm.DB, q *billing.Quote) error {
	if err := advanceVersion(tx, "quotes", q.ID, &q.Version, "Quote"); err != nil {
		return err
	}
	if err := tx.Omit(clause.Associations).Save(q).Error; err != nil {
		return translate(err, "Quote")
	}
	if err := tx.Where("quote_id = ?", q.ID).Delete(&billing.QuoteLineItem{}).Error; err != nil {
		return err
	}
	if len(q.LineItems) > 0 {
		return tx.Create(&q.LineItems).Error
	}
	return nil
}

// SaveConversion writes the invoice first so the quote's invoice_id reference is valid
func (r *GormQuoteRepository) SaveConversion(ctx context.Context, q *billing.Quote, inv *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveInvoice(tx, inv); err != nil {
			return err
		}
		return saveQuote(tx, q)
	})
}

func (r *GormQuoteRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(tenant.Owned(organizationID)).Where("id = ?", id).Delete(&billing.Quote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NotFound("Quote")
	}
	return nil
}

func (r *GormQuoteRepository) NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	n, err := maxNumber(ctx, r.db, "quotes", "quote_number", organizationID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", r.prefix, n), nil
}

var _ billing.QuoteRepository = (*GormQuoteRepository)(nil)
