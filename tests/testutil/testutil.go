// Package testutil holds the mocks, fixtures and HTTP helpers shared by the
// backend's unit tests.
package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a postgres-dialect GORM handle over sqlmock. The
// connection is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewTestUUID generates a deterministic UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// Tenant is a user with an organization and their membership in it
type Tenant struct {
	User         *identity.User
	Organization *identity.Organization
	Member       *identity.OrganizationMember
}

// NewOwnerTenant builds an organization owned by a fresh active user
func NewOwnerTenant(t *testing.T) Tenant {
	t.Helper()
	user, err := identity.NewUser("owner@example.com", "Olive Owner", "correct-horse-1")
	require.NoError(t, err)
	org, err := identity.NewOrganization("Sparks Electrical")
	require.NoError(t, err)
	return Tenant{User: user, Organization: org, Member: identity.NewOwnerMember(org.ID, user.ID)}
}

// NewStaffMember adds an active plain member to the tenant's organization
// with the given capability flags set.
func (tn Tenant) NewStaffMember(t *testing.T, caps ...identity.Capability) (*identity.User, *identity.OrganizationMember) {
	t.Helper()
	user, err := identity.NewUser("tech@example.com", "Terry Tech", "correct-horse-2")
	require.NoError(t, err)
	m, err := identity.NewInvitedMember(tn.Organization.ID, user.ID, identity.RoleMember)
	require.NoError(t, err)
	m.Activate()
	yes := true
	var patch identity.MemberPatch
	for _, c := range caps {
		switch c {
		case identity.CapCreateJobs:
			patch.CanCreateJobs = &yes
		case identity.CapEditJobs:
			patch.CanEditJobs = &yes
		case identity.CapDeleteJobs:
			patch.CanDeleteJobs = &yes
		case identity.CapCreateInvoices:
			patch.CanCreateInvoices = &yes
		case identity.CapViewFinancials:
			patch.CanViewFinancials = &yes
		case identity.CapManageTeam:
			patch.CanManageTeam = &yes
		}
	}
	require.NoError(t, m.Apply(patch))
	return user, m
}

// Eventually retries condition until it holds or the timeout passes.
func Eventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
