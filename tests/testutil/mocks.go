package testutil

import (
	"context"
	"time"

	"github.com/fieldline/backend/internal/domain/billing"
	"github.com/fieldline/backend/internal/domain/client"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/domain/messaging"
	"github.com/fieldline/backend/internal/domain/property"
	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ptrOrNil returns the first mock return value as *T
func ptrOrNil[T any](args mock.Arguments) *T {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*T)
}

func sliceOrNil[T any](args mock.Arguments) []T {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]T)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[identity.User](args), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	return ptrOrNil[identity.User](args), args.Error(1)
}

func (m *MockUserRepository) FindByAuthProviderID(ctx context.Context, providerID string) (*identity.User, error) {
	args := m.Called(ctx, providerID)
	return ptrOrNil[identity.User](args), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockOrganizationRepository is a mock implementation of identity.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[identity.Organization](args), args.Error(1)
}

func (m *MockOrganizationRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]identity.Organization, error) {
	args := m.Called(ctx, userID)
	return sliceOrNil[identity.Organization](args), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	return m.Called(ctx, org).Error(0)
}

func (m *MockOrganizationRepository) CreateWithOwner(ctx context.Context, org *identity.Organization, owner *identity.OrganizationMember) error {
	return m.Called(ctx, org, owner).Error(0)
}

func (m *MockOrganizationRepository) AddSMSCredits(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockOrganizationRepository) ConsumeSMSCredits(ctx context.Context, id uuid.UUID, n int) (bool, error) {
	args := m.Called(ctx, id, n)
	return args.Bool(0), args.Error(1)
}

// MockMemberRepository is a mock implementation of identity.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindActive(ctx context.Context, organizationID, userID uuid.UUID) (*identity.OrganizationMember, error) {
	args := m.Called(ctx, organizationID, userID)
	return ptrOrNil[identity.OrganizationMember](args), args.Error(1)
}

func (m *MockMemberRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*identity.OrganizationMember, error) {
	args := m.Called(ctx, organizationID, id)
	return ptrOrNil[identity.OrganizationMember](args), args.Error(1)
}

func (m *MockMemberRepository) FindByUser(ctx context.Context, organizationID, userID uuid.UUID) (*identity.OrganizationMember, error) {
	args := m.Called(ctx, organizationID, userID)
	return ptrOrNil[identity.OrganizationMember](args), args.Error(1)
}

func (m *MockMemberRepository) ListVisible(ctx context.Context, organizationID uuid.UUID) ([]identity.OrganizationMember, error) {
	args := m.Called(ctx, organizationID)
	return sliceOrNil[identity.OrganizationMember](args), args.Error(1)
}

func (m *MockMemberRepository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]identity.OrganizationMember, error) {
	args := m.Called(ctx, userID)
	return sliceOrNil[identity.OrganizationMember](args), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *identity.OrganizationMember) error {
	return m.Called(ctx, member).Error(0)
}

// MockClientRepository is a mock implementation of client.Repository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[client.Client](args), args.Error(1)
}

func (m *MockClientRepository) FindInOrganization(ctx context.Context, organizationID, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, organizationID, id)
	return ptrOrNil[client.Client](args), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]client.Client, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[client.Client](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) Save(ctx context.Context, c *client.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

// MockJobRepository is a mock implementation of job.Repository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[job.Job](args), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]job.Job, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[job.Job](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepository) Save(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

// MockPropertyRepository is a mock implementation of property.Repository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[property.Property](args), args.Error(1)
}

func (m *MockPropertyRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]property.Property, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[property.Property](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

func (m *MockPropertyRepository) FindAsset(ctx context.Context, scope shared.Scope, id uuid.UUID) (*property.Asset, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[property.Asset](args), args.Error(1)
}

func (m *MockPropertyRepository) ListAssets(ctx context.Context, propertyID uuid.UUID) ([]property.Asset, error) {
	args := m.Called(ctx, propertyID)
	return sliceOrNil[property.Asset](args), args.Error(1)
}

func (m *MockPropertyRepository) SaveAsset(ctx context.Context, a *property.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockPropertyRepository) DeleteAsset(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

// MockAssetJobRepository is a mock implementation of property.AssetJobRepository
type MockAssetJobRepository struct {
	mock.Mock
}

func (m *MockAssetJobRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*property.AssetRegisterJob, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[property.AssetRegisterJob](args), args.Error(1)
}

func (m *MockAssetJobRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]property.AssetRegisterJob, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[property.AssetRegisterJob](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetJobRepository) Save(ctx context.Context, j *property.AssetRegisterJob) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockAssetJobRepository) Complete(ctx context.Context, done, next *property.AssetRegisterJob) error {
	return m.Called(ctx, done, next).Error(0)
}

func (m *MockAssetJobRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

// MockAppointmentRepository is a mock implementation of schedule.AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*schedule.Appointment, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[schedule.Appointment](args), args.Error(1)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, a *schedule.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

// MockFeedRepository is a mock implementation of schedule.FeedRepository
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) ListInternal(ctx context.Context, q schedule.FeedQuery) ([]schedule.Entry, error) {
	args := m.Called(ctx, q)
	return sliceOrNil[schedule.Entry](args), args.Error(1)
}

// MockExternalCalendar is a mock implementation of schedule.ExternalCalendar
type MockExternalCalendar struct {
	mock.Mock
}

func (m *MockExternalCalendar) Available(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockExternalCalendar) FetchDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]schedule.Entry, error) {
	args := m.Called(ctx, userID, day)
	return sliceOrNil[schedule.Entry](args), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[billing.Invoice](args), args.Error(1)
}

func (m *MockInvoiceRepository) FindByPublicToken(ctx context.Context, token string) (*billing.Invoice, error) {
	args := m.Called(ctx, token)
	return ptrOrNil[billing.Invoice](args), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[billing.Invoice](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	args := m.Called(ctx, organizationID)
	return args.String(0), args.Error(1)
}

// MockQuoteRepository is a mock implementation of billing.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*billing.Quote, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[billing.Quote](args), args.Error(1)
}

func (m *MockQuoteRepository) FindByPublicToken(ctx context.Context, token string) (*billing.Quote, error) {
	args := m.Called(ctx, token)
	return ptrOrNil[billing.Quote](args), args.Error(1)
}

func (m *MockQuoteRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]billing.Quote, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[billing.Quote](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *billing.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuoteRepository) SaveConversion(ctx context.Context, q *billing.Quote, inv *billing.Invoice) error {
	return m.Called(ctx, q, inv).Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

func (m *MockQuoteRepository) NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	args := m.Called(ctx, organizationID)
	return args.String(0), args.Error(1)
}

// MockSMSRepository is a mock implementation of messaging.SMSRepository
type MockSMSRepository struct {
	mock.Mock
}

func (m *MockSMSRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]messaging.SMSMessage, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[messaging.SMSMessage](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockSMSRepository) FindByProviderID(ctx context.Context, providerMessageID string) (*messaging.SMSMessage, error) {
	args := m.Called(ctx, providerMessageID)
	return ptrOrNil[messaging.SMSMessage](args), args.Error(1)
}

func (m *MockSMSRepository) Save(ctx context.Context, msg *messaging.SMSMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// MockSMSSender is a mock implementation of messaging.SMSSender
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

// MockIntegrationRepository is a mock implementation of integration.Repository
type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Connection, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[integration.Connection](args), args.Error(1)
}

func (m *MockIntegrationRepository) FindForUser(ctx context.Context, userID uuid.UUID, provider integration.Provider) (*integration.Connection, error) {
	args := m.Called(ctx, userID, provider)
	return ptrOrNil[integration.Connection](args), args.Error(1)
}

func (m *MockIntegrationRepository) FindForOrganization(ctx context.Context, organizationID uuid.UUID, provider integration.Provider) (*integration.Connection, error) {
	args := m.Called(ctx, organizationID, provider)
	return ptrOrNil[integration.Connection](args), args.Error(1)
}

func (m *MockIntegrationRepository) ListForOrganization(ctx context.Context, organizationID uuid.UUID) ([]integration.Connection, error) {
	args := m.Called(ctx, organizationID)
	return sliceOrNil[integration.Connection](args), args.Error(1)
}

func (m *MockIntegrationRepository) Save(ctx context.Context, c *integration.Connection) error {
	return m.Called(ctx, c).Error(0)
}

// MockPaymentRepository is a mock implementation of workforce.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*workforce.SubcontractorPayment, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[workforce.SubcontractorPayment](args), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]workforce.SubcontractorPayment, int64, error) {
	args := m.Called(ctx, scope, filter)
	return sliceOrNil[workforce.SubcontractorPayment](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *workforce.SubcontractorPayment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

// MockTradeRateRepository is a mock implementation of workforce.TradeRateRepository
type MockTradeRateRepository struct {
	mock.Mock
}

func (m *MockTradeRateRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*workforce.TradeRate, error) {
	args := m.Called(ctx, scope, id)
	return ptrOrNil[workforce.TradeRate](args), args.Error(1)
}

func (m *MockTradeRateRepository) List(ctx context.Context, scope shared.Scope) ([]workforce.TradeRate, error) {
	args := m.Called(ctx, scope)
	return sliceOrNil[workforce.TradeRate](args), args.Error(1)
}

func (m *MockTradeRateRepository) Save(ctx context.Context, r *workforce.TradeRate) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockTradeRateRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

var (
	_ identity.UserRepository         = (*MockUserRepository)(nil)
	_ identity.OrganizationRepository = (*MockOrganizationRepository)(nil)
	_ identity.MemberRepository       = (*MockMemberRepository)(nil)
	_ client.Repository               = (*MockClientRepository)(nil)
	_ job.Repository                  = (*MockJobRepository)(nil)
	_ property.Repository             = (*MockPropertyRepository)(nil)
	_ property.AssetJobRepository     = (*MockAssetJobRepository)(nil)
	_ schedule.AppointmentRepository  = (*MockAppointmentRepository)(nil)
	_ schedule.FeedRepository         = (*MockFeedRepository)(nil)
	_ schedule.ExternalCalendar       = (*MockExternalCalendar)(nil)
	_ billing.InvoiceRepository       = (*MockInvoiceRepository)(nil)
	_ billing.QuoteRepository         = (*MockQuoteRepository)(nil)
	_ messaging.SMSRepository         = (*MockSMSRepository)(nil)
	_ messaging.SMSSender             = (*MockSMSSender)(nil)
	_ integration.Repository          = (*MockIntegrationRepository)(nil)
	_ workforce.PaymentRepository     = (*MockPaymentRepository)(nil)
	_ workforce.TradeRateRepository   = (*MockTradeRateRepository)(nil)
)
