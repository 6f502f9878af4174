package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/email"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/fieldline/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	tn       testutil.Tenant
	invoices *testutil.MockInvoiceRepository
	quotes   *testutil.MockQuoteRepository
	clients  *testutil.MockClientRepository
	jobs     *testutil.MockJobRepository
	orgs     *testutil.MockOrganizationRepository
	members  *testutil.MockMemberRepository
	mailer   *testutil.Mailer
	svc      *InvoiceService
	quoteSvc *QuoteService
	public   *PublicService
}

var today = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		tn:       testutil.NewOwnerTenant(t),
		invoices: new(testutil.MockInvoiceRepository),
		quotes:   new(testutil.MockQuoteRepository),
		clients:  new(testutil.MockClientRepository),
		jobs:     new(testutil.MockJobRepository),
		orgs:     new(testutil.MockOrganizationRepository),
		members:  new(testutil.MockMemberRepository),
		mailer:   &testutil.Mailer{},
	}
	f.members.On("FindActive", mock.Anything, f.tn.Organization.ID, f.tn.User.ID).Return(f.tn.Member, nil)
	f.orgs.On("FindByID", mock.Anything, f.tn.Organization.ID).Return(f.tn.Organization, nil)

	access := appidentity.NewAccess(f.members)
	f.svc = NewInvoiceService(InvoiceDeps{
		Invoices:      f.invoices,
		Clients:       f.clients,
		Jobs:          f.jobs,
		Orgs:          f.orgs,
		Access:        access,
		Mailer:        f.mailer,
		Metrics:       telemetry.NewMetrics(),
		Logger:        zap.NewNop(),
		PublicBaseURL: "https://app.example.com/",
	})
	f.svc.now = func() time.Time { return today }
	f.quoteSvc = NewQuoteService(f.quotes, f.invoices, f.clients, f.jobs, f.orgs, access, zap.NewNop())
	f.quoteSvc.now = f.svc.now
	f.public = NewPublicService(f.invoices, f.quotes, f.clients, f.orgs, "https://app.example.com", zap.NewNop())
	f.public.now = f.svc.now
	return f
}

func line(desc, qty, price string) billing.LineInput {
	return billing.LineInput{
		Description:   desc,
		Quantity:      decimal.RequireFromString(qty),
		UnitPrice:     decimal.RequireFromString(price),
		GSTApplicable: true,
	}
}

// sentInvoice returns an issued invoice for 220.00 including GST
func (f *fixture) sentInvoice(t *testing.T) *billing.Invoice {
	inv, err := billing.NewInvoice(f.tn.Organization.ID, f.tn.User.ID, "INV-0001", today.AddDate(0, 0, -30), 14, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	_, err = inv.AddLine(line("Switchboard upgrade", "2", "100"))
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent(today.AddDate(0, 0, -30)))
	return inv
}

func (f *fixture) expectInvoice(inv *billing.Invoice) {
	f.invoices.On("FindByID", mock.Anything, shared.NewScope(f.tn.User.ID, nil), inv.ID).Return(inv, nil)
}

func TestInvoiceService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.tn.Organization.ID
	f.invoices.On("NextNumber", ctx, orgID).Return("INV-0042", nil)
	f.invoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	inv, err := f.svc.Create(ctx, f.tn.User.ID, CreateInvoiceInput{
		OrganizationID: orgID,
		IssueDate:      today,
		Lines:          []billing.LineInput{line("Call out", "1", "90"), line("Labour", "1.5", "100")},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0042", inv.InvoiceNumber)
	assert.Equal(t, billing.InvoiceDraft, inv.Status)
	assert.Equal(t, "240.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "24.00", inv.GSTAmount.StringFixed(2))
	assert.True(t, inv.TotalAmount.Equal(inv.Subtotal.Add(inv.GSTAmount)))
	assert.Equal(t, today.AddDate(0, 0, f.tn.Organization.PaymentTerms).Format(time.DateOnly), inv.DueDate.Format(time.DateOnly))

	t.Run("foreign client", func(t *testing.T) {
		other := uuid.New()
		f.clients.On("FindByID", ctx, shared.NewScope(f.tn.User.ID, &orgID), other).Return(nil, shared.NotFound("Client"))
		_, err := f.svc.Create(ctx, f.tn.User.ID, CreateInvoiceInput{OrganizationID: orgID, Patch: billing.InvoicePatch{ClientID: &other}})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestInvoiceService_Capabilities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.tn.Organization.ID

	viewer, viewerMember := f.tn.NewStaffMember(t, identity.CapViewFinancials)
	f.members.On("FindActive", ctx, orgID, viewer.ID).Return(viewerMember, nil)

	f.invoices.On("List", ctx, shared.NewScope(viewer.ID, &orgID), mock.Anything).Return([]billing.Invoice{}, int64(0), nil)
	_, err := f.svc.List(ctx, viewer.ID, ListQuery{OrganizationID: orgID})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, viewer.ID, CreateInvoiceInput{OrganizationID: orgID})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	tech, techMember := f.tn.NewStaffMember(t, identity.CapCreateJobs)
	f.members.On("FindActive", ctx, orgID, tech.ID).Return(techMember, nil)
	_, err = f.svc.List(ctx, tech.ID, ListQuery{OrganizationID: orgID})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = f.svc.Export(ctx, tech.ID, ListQuery{OrganizationID: orgID})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestInvoiceService_Payments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.sentInvoice(t)
	f.expectInvoice(inv)
	f.invoices.On("Save", ctx, inv).Return(nil)

	got, err := f.svc.RecordPayment(ctx, f.tn.User.ID, inv.ID, billing.PaymentInput{Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, billing.InvoicePartiallyPaid, got.Status)
	assert.Equal(t, f.tn.User.ID, got.Payments[0].RecordedBy)

	_, err = f.svc.RecordPayment(ctx, f.tn.User.ID, inv.ID, billing.PaymentInput{Amount: decimal.NewFromInt(500)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	got, err = f.svc.RecordPayment(ctx, f.tn.User.ID, inv.ID, billing.PaymentInput{Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	assert.Equal(t, billing.InvoicePaid, got.Status)
	assert.True(t, got.RemainingBalance().IsZero())

	assert.ErrorIs(t, f.svc.Delete(ctx, f.tn.User.ID, inv.ID), shared.ErrInvalidState)

	got, err = f.svc.RemovePayment(ctx, f.tn.User.ID, inv.ID, got.Payments[1].ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoicePartiallyPaid, got.Status)
}

func TestInvoiceService_Send(t *testing.T) {
	ctx := context.Background()

	newDraft := func(f *fixture) (*billing.Invoice, *client.Client) {
		c, err := client.NewClient(f.tn.Organization.ID, "Harbour Cafe")
		require.NoError(t, err)
		c.Email = "accounts@harbour.test"
		inv, err := billing.NewInvoice(f.tn.Organization.ID, f.tn.User.ID, "INV-0007", today, 14, decimal.RequireFromString("0.1"))
		require.NoError(t, err)
		inv.ClientID = &c.ID
		_, err = inv.AddLine(line("Smoke alarm", "3", "45"))
		require.NoError(t, err)
		f.expectInvoice(inv)
		f.clients.On("FindByID", ctx, shared.NewScope(f.tn.User.ID, nil), c.ID).Return(c, nil)
		return inv, c
	}

	t.Run("emails pdf and link", func(t *testing.T) {
		f := newFixture(t)
		inv, c := newDraft(f)
		f.invoices.On("Save", ctx, inv).Return(nil)

		d, err := f.svc.Send(ctx, f.tn.User.ID, inv.ID, "")
		require.NoError(t, err)
		assert.Equal(t, c.Email, d.SentTo)
		assert.Equal(t, billing.InvoiceSent, inv.Status)
		assert.Equal(t, "https://app.example.com/public/invoice/"+inv.ID.String()+"?token="+inv.PublicToken, d.PublicURL)

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, []string{c.Email}, sent[0].To)
		assert.Contains(t, sent[0].HTML, d.PublicURL)
		require.Len(t, sent[0].Attachments, 1)
		assert.Equal(t, "invoice-INV-0007.pdf", sent[0].Attachments[0].Filename)
		assert.True(t, strings.HasPrefix(string(sent[0].Attachments[0].Data), "%PDF"))
	})

	t.Run("email disabled leaves the invoice alone", func(t *testing.T) {
		f := newFixture(t)
		inv, _ := newDraft(f)
		f.mailer.Err = email.ErrDisabled

		_, err := f.svc.Send(ctx, f.tn.User.ID, inv.ID, "")
		assert.ErrorIs(t, err, shared.ErrEmailUnavailable)
		f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("no recipient", func(t *testing.T) {
		f := newFixture(t)
		inv, c := newDraft(f)
		c.Email = ""
		_, err := f.svc.Send(ctx, f.tn.User.ID, inv.ID, " ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestInvoiceService_PDFAndExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.tn.Organization.ID
	inv := f.sentInvoice(t)
	f.expectInvoice(inv)

	pdf, name, err := f.svc.PDF(ctx, f.tn.User.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice-INV-0001.pdf", name)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	scope := shared.NewScope(f.tn.User.ID, &orgID)
	f.invoices.On("List", ctx, scope, mock.MatchedBy(func(fl shared.Filter) bool { return fl.PageSize == 200 })).
		Return([]billing.Invoice{*inv}, int64(1), nil)
	f.clients.On("List", ctx, scope, mock.Anything).Return([]client.Client{}, int64(0), nil)
	data, err := f.svc.Export(ctx, f.tn.User.ID, ListQuery{OrganizationID: orgID})
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestCollect(t *testing.T) {
	calls := 0
	all, err := collect(func(page int) ([]int, int64, error) {
		calls++
		if page < 3 {
			return []int{page, page}, 5, nil
		}
		return []int{page}, 5, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 2, 3}, all)
	assert.Equal(t, 3, calls)

	_, err = collect(func(int) ([]int, int64, error) { return nil, 0, errors.New("boom") })
	assert.Error(t, err)
}

func TestQuoteService_Convert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.tn.Organization.ID

	q, err := billing.NewQuote(orgID, f.tn.User.ID, "Q-0003", "Rewire", today, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	_, err = q.AddLine(line("Cable", "10", "12.5"))
	require.NoError(t, err)
	f.quotes.On("FindByID", ctx, shared.NewScope(f.tn.User.ID, nil), q.ID).Return(q, nil)
	f.invoices.On("NextNumber", ctx, orgID).Return("INV-0100", nil)
	f.quotes.On("SaveConversion", ctx, q, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	inv, err := f.quoteSvc.Convert(ctx, f.tn.User.ID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0100", inv.InvoiceNumber)
	require.Len(t, inv.LineItems, 1)
	assert.True(t, inv.TotalAmount.Equal(q.TotalAmount))
	assert.Equal(t, billing.QuoteConverted, q.Status)
	assert.Equal(t, &q.ID, inv.QuoteID)

	_, err = f.quoteSvc.Convert(ctx, f.tn.User.ID, q.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, f.quoteSvc.Delete(ctx, f.tn.User.ID, q.ID), shared.ErrInvalidState)
}

func TestPublicService_Invoice(t *testing.T) {
	ctx := context.Background()

	t.Run("sent invoice with derived fields", func(t *testing.T) {
		f := newFixture(t)
		inv := f.sentInvoice(t)
		inv.InternalNotes = "client is slow to pay"
		f.invoices.On("FindByPublicToken", ctx, inv.PublicToken).Return(inv, nil)

		pub, err := f.public.Invoice(ctx, inv.PublicToken, nil)
		require.NoError(t, err)
		assert.Equal(t, "220.00", pub.RemainingBalance.StringFixed(2))
		assert.True(t, pub.IsOverdue)
		assert.Nil(t, pub.Client)

		_, err = f.public.Invoice(ctx, inv.PublicToken, &inv.ID)
		require.NoError(t, err)
		other := uuid.New()
		_, err = f.public.Invoice(ctx, inv.PublicToken, &other)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		page, err := f.public.InvoicePage(ctx, inv.ID, inv.PublicToken)
		require.NoError(t, err)
		assert.Contains(t, page, "INV-0001")
		assert.NotContains(t, page, "slow to pay")
	})

	t.Run("drafts and cancelled are hidden", func(t *testing.T) {
		f := newFixture(t)
		draft, err := billing.NewInvoice(f.tn.Organization.ID, f.tn.User.ID, "INV-0002", today, 14, decimal.Zero)
		require.NoError(t, err)
		f.invoices.On("FindByPublicToken", ctx, draft.PublicToken).Return(draft, nil)
		_, err = f.public.Invoice(ctx, draft.PublicToken, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		cancelled := f.sentInvoice(t)
		require.NoError(t, cancelled.Cancel())
		f.invoices.On("FindByPublicToken", ctx, cancelled.PublicToken).Return(cancelled, nil)
		_, err = f.public.Invoice(ctx, cancelled.PublicToken, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown or empty token", func(t *testing.T) {
		f := newFixture(t)
		f.invoices.On("FindByPublicToken", ctx, "nope").Return(nil, shared.NotFound("Invoice"))
		_, err := f.public.Invoice(ctx, "nope", nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = f.public.Invoice(ctx, "", nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.invoices.AssertNumberOfCalls(t, "FindByPublicToken", 1)
	})
}

func TestPublicService_Quote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := client.NewClient(f.tn.Organization.ID, "Harbour Cafe")
	require.NoError(t, err)
	q, err := billing.NewQuote(f.tn.Organization.ID, f.tn.User.ID, "Q-0009", "Lighting", today, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	q.ClientID = &c.ID
	_, err = q.AddLine(line("Downlights", "12", "37.50"))
	require.NoError(t, err)
	deposit := decimal.NewFromInt(25)
	require.NoError(t, q.Apply(billing.QuotePatch{DepositPercentage: &deposit}))
	f.quotes.On("FindByPublicToken", ctx, q.PublicToken).Return(q, nil)

	_, err = f.public.Quote(ctx, q.PublicToken, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound, "draft quotes stay private")

	sent := billing.QuoteSent
	require.NoError(t, q.Apply(billing.QuotePatch{Status: &sent}))
	f.clients.On("FindInOrganization", ctx, f.tn.Organization.ID, c.ID).Return(c, nil)

	pub, err := f.public.Quote(ctx, q.PublicToken, &q.ID)
	require.NoError(t, err)
	// 450.00 + 45.00 GST, 25% deposit
	assert.Equal(t, "123.75", pub.DepositAmount.StringFixed(2))
	assert.Equal(t, "Harbour Cafe", pub.Client.Name)
	assert.False(t, pub.IsExpired)
}
