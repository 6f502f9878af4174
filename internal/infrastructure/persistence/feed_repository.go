package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeedRepository implements schedule.FeedRepository with one UNION ALL
// query over appointments, scheduled jobs and active asset-register jobs.
type GormFeedRepository struct {
	db *gorm.DB
}

// NewGormFeedRepository creates a new GormFeedRepository
func NewGormFeedRepository(db *gorm.DB) *GormFeedRepository {
	return &GormFeedRepository{db: db}
}

// feedBranch describes one source of the union. Every column expression is
// fixed text; only values from the query are bound.
type feedBranch struct {
	source    schedule.Source
	selectSQL string
	fromSQL   string
	alias     string
	startCol  string
	where     string
}

var feedBranches = []feedBranch{
	{
		source: schedule.SourceAppointment,
		selectSQL: `a.id, a.organization_id, a.title, a.description, a.location,
			a.start_time, a.end_time, a.assigned_to, u.full_name AS assignee_name,
			a.client_id, c.name AS client_name, a.job_id, a.status`,
		fromSQL: `appointments a
			LEFT JOIN users u ON u.id = a.assigned_to
			LEFT JOIN clients c ON c.id = a.client_id`,
		alias:    "a",
		startCol: "a.start_time",
	},
	{
		source: schedule.SourceJob,
		selectSQL: `j.id, j.organization_id, j.title, j.description, j.address,
			j.scheduled_start, j.scheduled_end, j.assigned_to, u.full_name,
			j.client_id, c.name, j.id, j.status`,
		fromSQL: `jobs j
			LEFT JOIN users u ON u.id = j.assigned_to
			LEFT JOIN clients c ON c.id = j.client_id`,
		alias:    "j",
		startCol: "j.scheduled_start",
		where:    "j.scheduled_start IS NOT NULL AND j.scheduled_end IS NOT NULL",
	},
	{
		source: schedule.SourceAssetJob,
		selectSQL: `r.id, r.organization_id, r.title, r.notes, p.address,
			r.scheduled_date,
			r.scheduled_date + make_interval(mins => COALESCE(NULLIF(r.duration_minutes, 0), 60)),
			r.assigned_to, u.full_name, p.client_id, c.name, NULL::uuid, r.status`,
		fromSQL: `asset_register_jobs r
			JOIN properties p ON p.id = r.property_id
			LEFT JOIN users u ON u.id = r.assigned_to
			LEFT JOIN clients c ON c.id = p.client_id`,
		alias:    "r",
		startCol: "r.scheduled_date",
		where:    "r.status = 'active' AND r.scheduled_date IS NOT NULL",
	},
}

// build renders the branch and returns its own argument list. Each branch
// binds its parameters separately so the union never reuses filter text.
func (b feedBranch) build(q schedule.FeedQuery) (string, []interface{}) {
	conds := []string{b.alias + ".organization_id IN (" + tenant.MembershipSubquery + ")"}
	args := []interface{}{q.UserID}
	if b.where != "" {
		conds = append(conds, b.where)
	}
	if q.OrganizationID != nil {
		conds = append(conds, b.alias+".organization_id = ?")
		args = append(args, *q.OrganizationID)
	}
	if q.From != nil {
		conds = append(conds, b.startCol+" >= ?")
		args = append(args, *q.From)
	}
	if q.To != nil {
		conds = append(conds, b.startCol+" < ?")
		args = append(args, *q.To)
	}
	if q.AssignedTo != nil {
		conds = append(conds, b.alias+".assigned_to = ?")
		args = append(args, *q.AssignedTo)
	}

	sql := "SELECT '" + string(b.source) + "' AS source, " + b.selectSQL +
		" FROM " + b.fromSQL +
		" WHERE " + strings.Join(conds, " AND ")
	return sql, args
}

// feedSQL returns the full union and its arguments in placeholder order
func feedSQL(q schedule.FeedQuery) (string, []interface{}) {
	parts := make([]string, 0, len(feedBranches))
	var args []interface{}
	for _, b := range feedBranches {
		sql, a := b.build(q)
		parts = append(parts, "("+sql+")")
		args = append(args, a...)
	}
	return strings.Join(parts, " UNION ALL ") + " ORDER BY start_time ASC", args
}

type feedRow struct {
	Source         string
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Title          string
	Description    *string
	Location       *string
	StartTime      time.Time
	EndTime        time.Time
	AssignedTo     *uuid.UUID
	AssigneeName   *string
	ClientID       *uuid.UUID
	ClientName     *string
	JobID          *uuid.UUID
	Status         string
}

func (r *GormFeedRepository) ListInternal(ctx context.Context, q schedule.FeedQuery) ([]schedule.Entry, error) {
	sql, args := feedSQL(q)
	var rows []feedRow
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]schedule.Entry, 0, len(rows))
	for _, row := range rows {
		orgID := row.OrganizationID
		entries = append(entries, schedule.Entry{
			ID:             row.ID.String(),
			Source:         schedule.Source(row.Source),
			OrganizationID: &orgID,
			Title:          row.Title,
			Description:    deref(row.Description),
			Location:       deref(row.Location),
			StartTime:      row.StartTime,
			EndTime:        row.EndTime,
			AssignedTo:     row.AssignedTo,
			AssigneeName:   deref(row.AssigneeName),
			ClientID:       row.ClientID,
			ClientName:     deref(row.ClientName),
			JobID:          row.JobID,
			Status:         row.Status,
		})
	}
	return entries, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ schedule.FeedRepository = (*GormFeedRepository)(nil)
