// Package schedule serves the merged calendar feed and manages appointments.
package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultExternalDays is the third-party range when none is requested
	DefaultExternalDays = 7
	// MaxRangeDays bounds the feed window
	MaxRangeDays = 62
	// DefaultConcurrency is the number of day requests in flight
	DefaultConcurrency = 4
)

// FeedService merges the internal calendar sources with the user's
// third-party trade calendar
type FeedService struct {
	feed        schedule.FeedRepository
	external    schedule.ExternalCalendar
	concurrency int
	metrics     *telemetry.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewFeedService creates a feed service. external may be nil when no
// calendar provider is configured.
func NewFeedService(feed schedule.FeedRepository, external schedule.ExternalCalendar, concurrency int, metrics *telemetry.Metrics, logger *zap.Logger) *FeedService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &FeedService{
		feed:        feed,
		external:    external,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns every entry visible to the user sorted by start time. SQL
// failures are returned; third-party failures only shrink the result.
func (s *FeedService) List(ctx context.Context, q schedule.FeedQuery) ([]schedule.Entry, error) {
	if err := validateRange(q.From, q.To); err != nil {
		return nil, err
	}

	internal, err := s.feed.ListInternal(ctx, q)
	if err != nil {
		return nil, err
	}

	var external []schedule.Entry
	if q.IncludeExternal && q.AssignedTo == nil && s.external != nil {
		external = s.fetchExternal(ctx, q)
	}

	entries := make([]schedule.Entry, 0, len(internal)+len(external))
	entries = append(entries, internal...)
	entries = append(entries, external...)
	schedule.SortEntries(entries)

	s.observe(entries)
	return entries, nil
}

// fetchExternal pulls the provider calendar one day at a time. Each day
// lands in its own slot so the result keeps day order whatever order the
// requests finish in.
func (s *FeedService) fetchExternal(ctx context.Context, q schedule.FeedQuery) []schedule.Entry {
	ok, err := s.external.Available(ctx, q.UserID)
	if err != nil {
		s.logger.Warn("Calendar connection lookup failed", zap.String("user_id", q.UserID.String()), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	days := s.externalDays(q.From, q.To)
	perDay := make([][]schedule.Entry, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, day := range days {
		g.Go(func() error {
			entries, err := s.external.FetchDay(gctx, q.UserID, day)
			s.metrics.CalendarRequests.WithLabelValues(calendarResult(err)).Inc()
			if err != nil {
				s.logger.Warn("Calendar day fetch failed",
					zap.String("user_id", q.UserID.String()),
					zap.String("day", day.Format(time.DateOnly)),
					zap.Error(err))
				return nil
			}
			perDay[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	var out []schedule.Entry
	for _, entries := range perDay {
		for _, e := range entries {
			if inRange(e.StartTime, q.From, q.To) {
				out = append(out, e)
			}
		}
	}
	return out
}

// externalDays lists the UTC days to request. Without a range it is today
// plus the following six days.
func (s *FeedService) externalDays(from, to *time.Time) []time.Time {
	today := truncateDay(s.now())
	start := today
	if from != nil {
		start = truncateDay(*from)
	}
	end := start.AddDate(0, 0, DefaultExternalDays)
	if to != nil {
		end = *to
		if from == nil && !end.After(start) {
			start = truncateDay(end.AddDate(0, 0, -DefaultExternalDays))
		}
	}
	var days []time.Time
	for d := start; d.Before(end) && len(days) < MaxRangeDays; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (s *FeedService) observe(entries []schedule.Entry) {
	counts := map[schedule.Source]int{
		schedule.SourceAppointment: 0,
		schedule.SourceJob:         0,
		schedule.SourceAssetJob:    0,
		schedule.SourceThirdParty:  0,
	}
	for _, e := range entries {
		counts[e.Source]++
	}
	for src, n := range counts {
		s.metrics.FeedEntries.WithLabelValues(string(src)).Observe(float64(n))
	}
}

func validateRange(from, to *time.Time) error {
	if from == nil || to == nil {
		return nil
	}
	if !to.After(*from) {
		return shared.InvalidInput("end_date must be after start_date")
	}
	if to.Sub(*from) > MaxRangeDays*24*time.Hour {
		return shared.InvalidInput("date range cannot exceed 62 days")
	}
	return nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func calendarResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	}
	return "error"
}
