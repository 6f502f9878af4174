package persistence

import (
	"strings"

	"github.com/fieldline/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC (the default)
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField.
// Sort columns are interpolated into ORDER BY, so only whitelisted names pass.
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	f := strings.TrimSpace(sortField)
	if f != "" && allowed[f] {
		return f
	}
	return defaultField
}

func sortFields(extra ...string) map[string]bool {
	m := map[string]bool{"created_at": true, "updated_at": true}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

var (
	ClientSortFields    = sortFields("name", "email")
	JobSortFields       = sortFields("title", "status", "priority", "scheduled_start")
	PropertySortFields  = sortFields("name")
	AssetJobSortFields  = sortFields("title", "scheduled_date", "status")
	InvoiceSortFields   = sortFields("invoice_number", "issue_date", "due_date", "status", "total_amount")
	QuoteSortFields     = sortFields("quote_number", "issue_date", "valid_until", "status", "total_amount")
	SMSSortFields       = sortFields("status")
	WorkforceSortFields = sortFields("amount", "status", "paid_at")
)

// paginate applies ordering and paging from filter and counts the matching rows
// before the limit is applied.
func paginate(db *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) (*gorm.DB, int64, error) {
	filter.Normalize()
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := ValidateSortField(filter.OrderBy, allowed, defaultField) + " " + ValidateSortOrder(filter.OrderDir)
	return db.Order(order).Offset(filter.Offset()).Limit(filter.PageSize), total, nil
}

// likePattern escapes LIKE metacharacters in a user search term
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}
