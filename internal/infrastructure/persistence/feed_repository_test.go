package persistence

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedColumns = []string{
	"source", "id", "organization_id", "title", "description", "location",
	"start_time", "end_time", "assigned_to", "assignee_name",
	"client_id", "client_name", "job_id", "status",
}

func TestFeedSQL(t *testing.T) {
	t.Run("each branch binds its own parameters", func(t *testing.T) {
		userID, orgID, assignee := uuid.New(), uuid.New(), uuid.New()
		from := mustTime("2026-05-04T00:00:00Z")
		to := mustTime("2026-05-11T00:00:00Z")

		sql, args := feedSQL(schedule.FeedQuery{
			UserID:         userID,
			OrganizationID: &orgID,
			From:           &from,
			To:             &to,
			AssignedTo:     &assignee,
		})

		assert.Equal(t, 2, strings.Count(sql, "UNION ALL"))
		assert.Equal(t, strings.Count(sql, "?"), len(args))
		require.Len(t, args, 15)
		for i := 0; i < 3; i++ {
			branch := args[i*5 : i*5+5]
			assert.Equal(t, []interface{}{userID, orgID, from, to, assignee}, branch)
		}
		assert.NotContains(t, sql, from.Format("2006-01-02"), "dates are never interpolated")
		assert.NotContains(t, sql, assignee.String())
		assert.True(t, strings.HasSuffix(sql, "ORDER BY start_time ASC"))
	})

	t.Run("unset filters add no conditions", func(t *testing.T) {
		sql, args := feedSQL(schedule.FeedQuery{UserID: uuid.New()})

		assert.Len(t, args, 3)
		assert.NotContains(t, sql, "assigned_to = ?")
		assert.Contains(t, sql, "j.scheduled_start IS NOT NULL AND j.scheduled_end IS NOT NULL")
		assert.Contains(t, sql, "r.status = 'active' AND r.scheduled_date IS NOT NULL")
	})
}

func TestGormFeedRepository_ListInternal(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormFeedRepository(db)

	userID := uuid.New()
	orgID := uuid.New()
	apptID, jobID, assetJobID := uuid.New(), uuid.New(), uuid.New()
	clientID := uuid.New()

	rows := sqlmock.NewRows(feedColumns).
		AddRow("appointment", apptID, orgID, "Site visit", nil, "12 Rose St",
			mustTime("2026-05-04T09:00:00Z"), mustTime("2026-05-04T10:00:00Z"),
			nil, nil, clientID, "Jo Client", nil, "scheduled").
		AddRow("job", jobID, orgID, "Replace tap", "Leaking mixer", "3 Oak Ave",
			mustTime("2026-05-04T11:00:00Z"), mustTime("2026-05-04T12:30:00Z"),
			nil, nil, nil, nil, jobID, "scheduled").
		AddRow("asset_register_job", assetJobID, orgID, "Annual RCD test", nil, "7 Elm Rd",
			mustTime("2026-05-05T08:00:00Z"), mustTime("2026-05-05T09:00:00Z"),
			nil, nil, nil, nil, nil, "active")

	mock.ExpectQuery(`\(SELECT 'appointment' AS source, .* FROM appointments a .*\) UNION ALL \(SELECT 'job' AS source, .*\) UNION ALL \(SELECT 'asset_register_job' AS source, .*\) ORDER BY start_time ASC`).
		WithArgs(userID, userID, userID).
		WillReturnRows(rows)

	entries, err := repo.ListInternal(ctx(), schedule.FeedQuery{UserID: userID})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, apptID.String(), entries[0].ID)
	assert.Equal(t, schedule.SourceAppointment, entries[0].Source)
	assert.Equal(t, "Jo Client", entries[0].ClientName)
	assert.Empty(t, entries[0].Description)
	assert.Equal(t, schedule.SourceJob, entries[1].Source)
	assert.Equal(t, jobID, *entries[1].JobID)
	assert.Equal(t, schedule.SourceAssetJob, entries[2].Source)
	assert.Equal(t, orgID, *entries[2].OrganizationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
