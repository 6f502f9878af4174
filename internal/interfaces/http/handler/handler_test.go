package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	appbilling "github.com/fieldline/backend/internal/application/billing"
	appidentity "github.com/fieldline/backend/internal/application/identity"
	appmessaging "github.com/fieldline/backend/internal/application/messaging"
	"github.com/fieldline/backend/internal/application/operations"
	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/infrastructure/cache"
	"github.com/fieldline/backend/internal/infrastructure/sms"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
	"github.com/fieldline/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// asUser stands in for the auth middleware
func asUser(u *identity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			c.Set(middleware.IdentityKey, &auth.Identity{User: u, Method: auth.MethodBearer})
		}
		c.Next()
	}
}

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// assertSnakeCase walks every object key of a JSON document
func assertSnakeCase(t *testing.T, body []byte) {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal(body, &doc))
	var walk func(path string, v any)
	walk = func(path string, v any) {
		switch x := v.(type) {
		case map[string]any:
			for k, child := range x {
				assert.Regexp(t, snakeCase, k, "key %q at %s", k, path)
				walk(path+"."+k, child)
			}
		case []any:
			for _, child := range x {
				walk(path+"[]", child)
			}
		}
	}
	walk("$", doc)
}

func TestJobHandler_Create(t *testing.T) {
	tn := testutil.NewOwnerTenant(t)
	members := new(testutil.MockMemberRepository)
	jobs := new(testutil.MockJobRepository)
	svc := operations.NewJobService(jobs, new(testutil.MockClientRepository), new(testutil.MockPropertyRepository),
		members, appidentity.NewAccess(members), zap.NewNop())
	h := NewJobHandler(svc, nil)

	serve := func(u *identity.User) *gin.Engine {
		r := gin.New()
		r.POST("/api/jobs", asUser(u), h.Create)
		return r
	}
	body := map[string]any{
		"organization_id": tn.Organization.ID.String(),
		"title":           "Kitchen Renovation",
		"job_type":        "repair",
		"scheduled_start": "2026-03-02T09:00:00Z",
		"scheduled_end":   "2026-03-02T11:00:00Z",
	}

	t.Run("member without can_create_jobs", func(t *testing.T) {
		user, staff := tn.NewStaffMember(t, identity.CapEditJobs)
		members.On("FindActive", mock.Anything, tn.Organization.ID, user.ID).Return(staff, nil)

		w := testutil.Do(t, serve(user), testutil.Request{Method: http.MethodPost, Path: "/api/jobs", Body: body})
		testutil.AssertError(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
		jobs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("owner", func(t *testing.T) {
		members.On("FindActive", mock.Anything, tn.Organization.ID, tn.User.ID).Return(tn.Member, nil)
		jobs.On("Save", mock.Anything, mock.AnythingOfType("*job.Job")).Return(nil).Once()

		w := testutil.Do(t, serve(tn.User), testutil.Request{Method: http.MethodPost, Path: "/api/jobs", Body: body})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assertSnakeCase(t, w.Body.Bytes())

		resp := testutil.DataAs[JobResponse](t, w)
		assert.Equal(t, "Kitchen Renovation", resp.Title)
		assert.Equal(t, "scheduled", resp.Status)
		assert.Equal(t, tn.User.ID.String(), resp.CreatedBy)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := testutil.Do(t, serve(tn.User), testutil.Request{Method: http.MethodPost, Path: "/api/jobs", Body: `{"title":`})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("missing title", func(t *testing.T) {
		w := testutil.Do(t, serve(tn.User), testutil.Request{Method: http.MethodPost, Path: "/api/jobs",
			Body: map[string]any{"organization_id": tn.Organization.ID.String()}})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})
}

type publicFixture struct {
	tn       testutil.Tenant
	invoices *testutil.MockInvoiceRepository
	engine   *gin.Engine
}

func newPublicFixture(t *testing.T, user *identity.User) *publicFixture {
	f := &publicFixture{tn: testutil.NewOwnerTenant(t), invoices: new(testutil.MockInvoiceRepository)}
	orgs := new(testutil.MockOrganizationRepository)
	orgs.On("FindByID", mock.Anything, f.tn.Organization.ID).Return(f.tn.Organization, nil)
	public := appbilling.NewPublicService(f.invoices, new(testutil.MockQuoteRepository), new(testutil.MockClientRepository),
		orgs, "https://app.example.com", zap.NewNop())

	invoices := NewInvoiceHandler(nil, public)
	pages := NewPublicHandler(public)
	f.engine = gin.New()
	f.engine.GET("/api/invoices/:id", asUser(user), invoices.Get)
	f.engine.GET("/api/public/invoices/:token", pages.Invoice)
	f.engine.GET("/public/invoice/:id", pages.InvoicePage)
	return f
}

func (f *publicFixture) invoice(t *testing.T, send bool) *billing.Invoice {
	issued := time.Now().AddDate(0, 0, -3)
	inv, err := billing.NewInvoice(f.tn.Organization.ID, f.tn.User.ID, "INV-0007", issued, 14, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	_, err = inv.AddLine(billing.LineInput{
		Description:   "Switchboard upgrade",
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     decimal.RequireFromString("200"),
		GSTApplicable: true,
	})
	require.NoError(t, err)
	inv.InternalNotes = "client haggles, hold firm"
	if send {
		require.NoError(t, inv.MarkSent(issued))
	}
	f.invoices.On("FindByPublicToken", mock.Anything, inv.PublicToken).Return(inv, nil)
	return inv
}

func TestPublicInvoice(t *testing.T) {
	t.Run("token endpoint hides internal fields", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		inv := f.invoice(t, true)

		w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/public/invoices/" + inv.PublicToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assertSnakeCase(t, w.Body.Bytes())
		assert.NotContains(t, w.Body.String(), "internal_notes")
		assert.NotContains(t, w.Body.String(), "hold firm")

		resp := testutil.DataAs[PublicInvoiceResponse](t, w)
		assert.Equal(t, "INV-0007", resp.Invoice.InvoiceNumber)
		assert.True(t, resp.RemainingBalance.Equal(decimal.RequireFromString("220")))
		assert.False(t, resp.IsOverdue)
		assert.Equal(t, f.tn.Organization.Name, resp.Organization.Name)
	})

	t.Run("draft is not disclosed", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		inv := f.invoice(t, false)

		w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/public/invoices/" + inv.PublicToken})
		testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		f.invoices.On("FindByPublicToken", mock.Anything, "nope").Return(nil, shared.NotFound("Invoice"))

		w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/public/invoices/nope"})
		testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("id route with token needs no session", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		inv := f.invoice(t, true)

		w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/invoices/" + inv.ID.String() + "?public_token=" + inv.PublicToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotContains(t, w.Body.String(), "internal_notes")
	})

	t.Run("token for another invoice id", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		inv := f.invoice(t, true)
		other := testutil.NewTestUUID("other-invoice")

		w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/invoices/" + other.String() + "?public_token=" + inv.PublicToken})
		testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("id route without token or session", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/invoices/" + testutil.NewTestUUID("inv").String()})
		testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("html page", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		inv := f.invoice(t, true)

		w := testutil.Do(t, f.engine, testutil.Request{Path: "/public/invoice/" + inv.ID.String() + "?token=" + inv.PublicToken})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Contains(t, w.Body.String(), "INV-0007")
		assert.NotContains(t, w.Body.String(), "hold firm")
	})

	t.Run("html page without token", func(t *testing.T) {
		f := newPublicFixture(t, nil)
		w := testutil.Do(t, f.engine, testutil.Request{Path: "/public/invoice/" + testutil.NewTestUUID("inv").String()})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSMSHandler_DeliveryReport(t *testing.T) {
	const secret = "whsec-handler"
	messages := new(testutil.MockSMSRepository)
	svc := appmessaging.NewSMSService(appmessaging.SMSDeps{
		Messages:      messages,
		Sender:        new(testutil.MockSMSSender),
		Orgs:          new(testutil.MockOrganizationRepository),
		Clients:       new(testutil.MockClientRepository),
		Jobs:          new(testutil.MockJobRepository),
		Access:        appidentity.NewAccess(new(testutil.MockMemberRepository)),
		Webhooks:      cache.NewInMemoryIdempotencyStore(),
		WebhookSecret: secret,
		Metrics:       telemetry.NewMetrics(),
		Logger:        zap.NewNop(),
	})
	h := NewSMSHandler(svc)
	r := gin.New()
	r.POST("/api/webhooks/sms", h.DeliveryReport)

	body := `{"event_id":"evt-1","message_id":"gw-404","status":"delivered","timestamp":"2026-03-02T10:00:00Z"}`
	messages.On("FindByProviderID", mock.Anything, "gw-404").Return(nil, shared.NotFound("SMS message"))

	t.Run("bad signature", func(t *testing.T) {
		w := testutil.Do(t, r, testutil.Request{Method: http.MethodPost, Path: "/api/webhooks/sms", Body: body,
			Headers: map[string]string{sms.SignatureHeader: "deadbeef"}})
		testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("signed report for an unknown message is acknowledged", func(t *testing.T) {
		w := testutil.Do(t, r, testutil.Request{Method: http.MethodPost, Path: "/api/webhooks/sms", Body: body,
			Headers: map[string]string{sms.SignatureHeader: sms.Sign(secret, []byte(body))}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, appmessaging.WebhookIgnored, testutil.DataAs[map[string]string](t, w)["outcome"])
	})

	t.Run("replay", func(t *testing.T) {
		w := testutil.Do(t, r, testutil.Request{Method: http.MethodPost, Path: "/api/webhooks/sms", Body: body,
			Headers: map[string]string{sms.SignatureHeader: sms.Sign(secret, []byte(body))}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, appmessaging.WebhookDuplicate, testutil.DataAs[map[string]string](t, w)["outcome"])
	})
}
