package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/fieldline/backend/tests/testutil"
	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCalendar serves canned days and records how many requests overlap
type fakeCalendar struct {
	mu        sync.Mutex
	days      map[string][]schedule.Entry
	failDays  map[string]error
	requested []string
	inFlight  atomic.Int32
	peak      atomic.Int32
	available bool
}

func (c *fakeCalendar) Available(context.Context, uuid.UUID) (bool, error) {
	return c.available, nil
}

func (c *fakeCalendar) FetchDay(_ context.Context, _ uuid.UUID, day time.Time) ([]schedule.Entry, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	key := day.Format(time.DateOnly)
	c.mu.Lock()
	c.requested = append(c.requested, key)
	c.mu.Unlock()
	if err := c.failDays[key]; err != nil {
		return nil, err
	}
	return c.days[key], nil
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(id string, src schedule.Source, start string) schedule.Entry {
	st := at(start)
	return schedule.Entry{ID: id, Source: src, StartTime: st, EndTime: st.Add(time.Hour)}
}

func newFeed(feed schedule.FeedRepository, cal schedule.ExternalCalendar) (*FeedService, *telemetry.Metrics) {
	m := telemetry.NewMetrics()
	s := NewFeedService(feed, cal, 4, m, zap.NewNop())
	s.now = func() time.Time { return at("2026-03-02T15:04:05Z") }
	return s, m
}

func TestFeedService_MergesAndSorts(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	from, to := at("2026-03-02T00:00:00Z"), at("2026-03-04T00:00:00Z")
	q := schedule.FeedQuery{UserID: userID, From: &from, To: &to, IncludeExternal: true}

	repo := new(testutil.MockFeedRepository)
	repo.On("ListInternal", ctx, q).Return([]schedule.Entry{
		entry("a1", schedule.SourceAppointment, "2026-03-03T09:00:00Z"),
		entry("j1", schedule.SourceJob, "2026-03-02T08:00:00Z"),
		entry("r1", schedule.SourceAssetJob, "2026-03-03T09:00:00Z"),
	}, nil)
	cal := &fakeCalendar{available: true, days: map[string][]schedule.Entry{
		"2026-03-02": {entry("tc-1", schedule.SourceThirdParty, "2026-03-02T07:00:00Z")},
		"2026-03-03": {entry("tc-2", schedule.SourceThirdParty, "2026-03-03T09:00:00Z")},
	}}

	svc, metrics := newFeed(repo, cal)
	entries, err := svc.List(ctx, q)
	require.NoError(t, err)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	// Equal start times keep SQL order, then external order
	assert.Equal(t, []string{"tc-1", "j1", "a1", "r1", "tc-2"}, ids)
	assert.ElementsMatch(t, []string{"2026-03-02", "2026-03-03"}, cal.requested)
	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.CalendarRequests.WithLabelValues("ok")))
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].StartTime.Before(entries[i-1].StartTime))
	}
}

func TestFeedService_DefaultRangeAndConcurrency(t *testing.T) {
	ctx := context.Background()
	q := schedule.FeedQuery{UserID: uuid.New(), IncludeExternal: true}
	repo := new(testutil.MockFeedRepository)
	repo.On("ListInternal", ctx, q).Return(nil, nil)
	cal := &fakeCalendar{available: true}

	svc, _ := newFeed(repo, cal)
	svc.concurrency = 2
	_, err := svc.List(ctx, q)
	require.NoError(t, err)

	assert.Len(t, cal.requested, DefaultExternalDays)
	assert.Contains(t, cal.requested, "2026-03-02")
	assert.Contains(t, cal.requested, "2026-03-08")
	assert.NotContains(t, cal.requested, "2026-03-09")
	assert.LessOrEqual(t, cal.peak.Load(), int32(2))
}

func TestFeedService_ExternalFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	from, to := at("2026-03-02T00:00:00Z"), at("2026-03-05T00:00:00Z")
	q := schedule.FeedQuery{UserID: uuid.New(), From: &from, To: &to, IncludeExternal: true}
	repo := new(testutil.MockFeedRepository)
	repo.On("ListInternal", ctx, q).Return([]schedule.Entry{entry("j1", schedule.SourceJob, "2026-03-02T08:00:00Z")}, nil)
	cal := &fakeCalendar{
		available: true,
		days:      map[string][]schedule.Entry{"2026-03-04": {entry("tc-9", schedule.SourceThirdParty, "2026-03-04T10:00:00Z")}},
		failDays: map[string]error{
			"2026-03-02": errors.New("connection reset"),
			"2026-03-03": gobreaker.ErrOpenState,
		},
	}

	svc, metrics := newFeed(repo, cal)
	entries, err := svc.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "tc-9", entries[1].ID)
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.CalendarRequests.WithLabelValues("error")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.CalendarRequests.WithLabelValues("rejected")))
}

func TestFeedService_SkipsExternal(t *testing.T) {
	ctx := context.Background()
	assignee := uuid.New()
	cases := map[string]struct {
		q   schedule.FeedQuery
		cal *fakeCalendar
	}{
		"not requested":   {q: schedule.FeedQuery{UserID: uuid.New()}, cal: &fakeCalendar{available: true}},
		"not connected":   {q: schedule.FeedQuery{UserID: uuid.New(), IncludeExternal: true}, cal: &fakeCalendar{}},
		"assignee filter": {q: schedule.FeedQuery{UserID: uuid.New(), IncludeExternal: true, AssignedTo: &assignee}, cal: &fakeCalendar{available: true}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(testutil.MockFeedRepository)
			repo.On("ListInternal", ctx, tc.q).Return(nil, nil)
			svc, _ := newFeed(repo, tc.cal)
			_, err := svc.List(ctx, tc.q)
			require.NoError(t, err)
			assert.Empty(t, tc.cal.requested)
		})
	}
}

func TestFeedService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("range too long", func(t *testing.T) {
		from := at("2026-01-01T00:00:00Z")
		to := from.AddDate(0, 0, 63)
		svc, _ := newFeed(new(testutil.MockFeedRepository), nil)
		_, err := svc.List(ctx, schedule.FeedQuery{From: &from, To: &to})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("end before start", func(t *testing.T) {
		from := at("2026-01-02T00:00:00Z")
		to := at("2026-01-01T00:00:00Z")
		svc, _ := newFeed(new(testutil.MockFeedRepository), nil)
		_, err := svc.List(ctx, schedule.FeedQuery{From: &from, To: &to})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("sql failure propagates", func(t *testing.T) {
		repo := new(testutil.MockFeedRepository)
		repo.On("ListInternal", ctx, mock.Anything).Return(nil, errors.New("relation does not exist"))
		svc, _ := newFeed(repo, &fakeCalendar{available: true})
		_, err := svc.List(ctx, schedule.FeedQuery{IncludeExternal: true})
		assert.Error(t, err)
	})
}

func TestAppointmentService(t *testing.T) {
	ctx := context.Background()
	tn := testutil.NewOwnerTenant(t)
	orgID := tn.Organization.ID
	members := new(testutil.MockMemberRepository)
	appts := new(testutil.MockAppointmentRepository)
	clients := new(testutil.MockClientRepository)
	jobs := new(testutil.MockJobRepository)
	members.On("FindActive", ctx, orgID, tn.User.ID).Return(tn.Member, nil)
	svc := NewAppointmentService(appts, clients, jobs, members, appidentity.NewAccess(members), zap.NewNop())

	start := at("2026-03-05T09:00:00Z")
	appts.On("Save", ctx, mock.AnythingOfType("*schedule.Appointment")).Return(nil)
	a, err := svc.Create(ctx, tn.User.ID, CreateAppointmentInput{OrganizationID: orgID, Title: "Site visit", StartTime: start, EndTime: start.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, schedule.AppointmentScheduled, a.Status)

	_, err = svc.Create(ctx, tn.User.ID, CreateAppointmentInput{OrganizationID: orgID, Title: "Backwards", StartTime: start, EndTime: start.Add(-time.Hour)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	missing := uuid.New()
	members.On("FindActive", ctx, orgID, missing).Return(nil, shared.NotFound("Member"))
	_, err = svc.Create(ctx, tn.User.ID, CreateAppointmentInput{OrganizationID: orgID, Title: "Visit", StartTime: start, EndTime: start.Add(time.Hour), Patch: schedule.AppointmentPatch{AssignedTo: &missing}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	t.Run("only creator or admin deletes", func(t *testing.T) {
		user, staff := tn.NewStaffMember(t)
		members.On("FindActive", ctx, orgID, user.ID).Return(staff, nil)
		appts.On("FindByID", ctx, shared.NewScope(user.ID, nil), a.ID).Return(a, nil)
		assert.ErrorIs(t, svc.Delete(ctx, user.ID, a.ID), shared.ErrForbidden)

		appts.On("FindByID", ctx, shared.NewScope(tn.User.ID, nil), a.ID).Return(a, nil)
		appts.On("Delete", ctx, orgID, a.ID).Return(nil)
		assert.NoError(t, svc.Delete(ctx, tn.User.ID, a.ID))
	})
}
