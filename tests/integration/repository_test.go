//go:build integration

package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/migration"
	"github.com/fieldline/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrations_Idempotent(t *testing.T) {
	tdb := NewTestDB(t)

	m, err := migration.New(tdb.DSN, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()

	res, err := m.Up()
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.False(t, res.Dirty)

	names, err := migration.Embedded()
	require.NoError(t, err)
	version, _, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(len(names)), version)
}

func TestFeedRepository_UnionAcrossSources(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	sparks := tdb.SeedTenant("owner@sparks.example.com", "Sparks Electrical")
	other := tdb.SeedTenant("owner@pipes.example.com", "Pipes Plumbing")

	clients := persistence.NewGormClientRepository(tdb.DB)
	c, err := client.NewClient(sparks.Organization.ID, "Jo Bloggs")
	require.NoError(t, err)
	require.NoError(t, clients.Save(ctx, c))

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	appointments := persistence.NewGormAppointmentRepository(tdb.DB)
	visit, err := schedule.NewAppointment(sparks.Organization.ID, sparks.Owner.ID, "Site visit", day.Add(13*time.Hour), day.Add(14*time.Hour))
	require.NoError(t, err)
	visit.ClientID = &c.ID
	require.NoError(t, appointments.Save(ctx, visit))

	foreign, err := schedule.NewAppointment(other.Organization.ID, other.Owner.ID, "Not ours", day.Add(9*time.Hour), day.Add(10*time.Hour))
	require.NoError(t, err)
	require.NoError(t, appointments.Save(ctx, foreign))

	jobs := persistence.NewGormJobRepository(tdb.DB)
	rewire, err := job.NewJob(sparks.Organization.ID, sparks.Owner.ID, "Rewire kitchen", job.TypeRepair)
	require.NoError(t, err)
	rewire.ClientID = &c.ID
	start, end := day.Add(8*time.Hour), day.Add(12*time.Hour)
	require.NoError(t, rewire.Schedule(&start, &end))
	require.NoError(t, jobs.Save(ctx, rewire))

	unscheduled, err := job.NewJob(sparks.Organization.ID, sparks.Owner.ID, "Quote follow up", job.TypeQuoteVisit)
	require.NoError(t, err)
	require.NoError(t, jobs.Save(ctx, unscheduled))

	feed := persistence.NewGormFeedRepository(tdb.DB)
	from, to := day, day.AddDate(0, 0, 1)
	entries, err := feed.ListInternal(ctx, schedule.FeedQuery{UserID: sparks.Owner.ID, From: &from, To: &to})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, schedule.SourceJob, entries[0].Source)
	assert.Equal(t, "Rewire kitchen", entries[0].Title)
	assert.Equal(t, "Jo Bloggs", entries[0].ClientName)
	assert.Equal(t, schedule.SourceAppointment, entries[1].Source)
	assert.Equal(t, "Site visit", entries[1].Title)

	t.Run("date range excludes other days", func(t *testing.T) {
		next, after := to, to.AddDate(0, 0, 1)
		entries, err := feed.ListInternal(ctx, schedule.FeedQuery{UserID: sparks.Owner.ID, From: &next, To: &after})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("organization filter outside membership yields nothing", func(t *testing.T) {
		entries, err := feed.ListInternal(ctx, schedule.FeedQuery{UserID: sparks.Owner.ID, OrganizationID: other.OrgID()})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestInvoiceRepository_NumbersAndPublicToken(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tn := tdb.SeedTenant("owner@sparks.example.com", "Sparks Electrical")
	invoices := persistence.NewGormInvoiceRepository(tdb.DB, "INV-")

	number, err := invoices.NextNumber(ctx, tn.Organization.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", number)

	inv, err := billing.NewInvoice(tn.Organization.ID, tn.Owner.ID, number, time.Now(), 14, shared.DefaultGSTRate)
	require.NoError(t, err)
	inv.InternalNotes = "customer pays late"
	_, err = inv.AddLine(billing.LineInput{
		Description:   "Call out",
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     decimal.NewFromInt(200),
		GSTApplicable: true,
	})
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent(time.Now()))
	require.NoError(t, invoices.Save(ctx, inv))

	number, err = invoices.NextNumber(ctx, tn.Organization.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-00002", number)

	found, err := invoices.FindByPublicToken(ctx, inv.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, found.ID)
	require.Len(t, found.LineItems, 1)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(220)), "total %s", found.TotalAmount)

	_, err = invoices.FindByPublicToken(ctx, "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = invoices.FindByPublicToken(ctx, inv.PublicToken[:len(inv.PublicToken)-1])
	assert.ErrorIs(t, err, shared.ErrNotFound)

	t.Run("another tenant cannot read it by id", func(t *testing.T) {
		stranger := tdb.SeedTenant("owner@pipes.example.com", "Pipes Plumbing")
		_, err := invoices.FindByID(ctx, shared.NewScope(stranger.Owner.ID, nil), inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceRepository_StaleSaveKeepsFirstPayment(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tn := tdb.SeedTenant("owner@sparks.example.com", "Sparks Electrical")
	invoices := persistence.NewGormInvoiceRepository(tdb.DB, "INV-")
	scope := shared.NewScope(tn.Owner.ID, tn.OrgID())

	inv, err := billing.NewInvoice(tn.Organization.ID, tn.Owner.ID, "INV-00001", time.Now(), 14, shared.DefaultGSTRate)
	require.NoError(t, err)
	_, err = inv.AddLine(billing.LineInput{Description: "Call out", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200)})
	require.NoError(t, err)
	require.NoError(t, invoices.Save(ctx, inv))
	assert.Equal(t, 1, inv.Version)

	first, err := invoices.FindByID(ctx, scope, inv.ID)
	require.NoError(t, err)
	second, err := invoices.FindByID(ctx, scope, inv.ID)
	require.NoError(t, err)

	pay := func(amount int64) billing.PaymentInput {
		return billing.PaymentInput{Amount: decimal.NewFromInt(amount), PaymentDate: time.Now(), Method: billing.PaymentCash, RecordedBy: tn.Owner.ID}
	}
	_, err = first.RecordPayment(pay(50))
	require.NoError(t, err)
	require.NoError(t, invoices.Save(ctx, first))

	_, err = second.RecordPayment(pay(80))
	require.NoError(t, err)
	assert.ErrorIs(t, invoices.Save(ctx, second), shared.ErrConcurrencyConflict)

	stored, err := invoices.FindByID(ctx, scope, inv.ID)
	require.NoError(t, err)
	require.Len(t, stored.Payments, 1)
	assert.True(t, stored.AmountPaid.Equal(decimal.NewFromInt(50)), "amount paid %s", stored.AmountPaid)
	assert.Equal(t, 2, stored.Version)
}

func TestOrganizationRepository_ConcurrentCreditConsumption(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tn := tdb.SeedTenant("owner@sparks.example.com", "Sparks Electrical")
	orgs := persistence.NewGormOrganizationRepository(tdb.DB)

	balance, err := orgs.AddSMSCredits(ctx, tn.Organization.ID, 10)
	require.NoError(t, err)
	require.Equal(t, 10, balance)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := orgs.ConsumeSMSCredits(ctx, tn.Organization.ID, 1)
			assert.NoError(t, err)
			if ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), granted.Load())
	org, err := orgs.FindByID(ctx, tn.Organization.ID)
	require.NoError(t, err)
	assert.Zero(t, org.SMSCredits)

	_, err = orgs.AddSMSCredits(ctx, tn.Organization.ID, -1)
	assert.ErrorIs(t, err, shared.ErrInsufficientCredits)
}
