//go:build integration

// Package integration runs the repositories against a real PostgreSQL started
// with testcontainers. Run with: go test -tags integration ./tests/integration/...
package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/infrastructure/migration"
	"github.com/fieldline/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestMain terminates the shared container once every test has run
func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedContainer()
	os.Exit(code)
}

// TestDB is a migrated database shared by the package's tests
type TestDB struct {
	DB  *gorm.DB
	DSN string
	t   *testing.T
}

// NewTestDB returns a connection to the shared container, starting it and
// applying the embedded migrations on first use. Tables are truncated so
// every test starts empty.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()
	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("fieldline_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "Failed to get connection string")

		m, err := migration.New(dsn, zap.NewNop())
		require.NoError(t, err, "Failed to open migrator")
		_, err = m.Up()
		require.NoError(t, err, "Failed to run migrations")
		require.NoError(t, m.Close())

		sharedContainer = container
		sharedContainerDSN = dsn
	}

	tdb := &TestDB{DB: connect(t, sharedContainerDSN), DSN: sharedContainerDSN, t: t}
	tdb.CleanTables()
	t.Cleanup(func() {
		if sqlDB, err := tdb.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return tdb
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		require.NoError(tdb.t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error)
	}
}

func connect(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), cfg)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	return db
}

func cleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

// Tenant is an organization with its owner, persisted through the repositories
type Tenant struct {
	Owner        *identity.User
	Organization *identity.Organization
	Member       *identity.OrganizationMember
}

// SeedTenant creates a user owning a fresh organization
func (tdb *TestDB) SeedTenant(email, orgName string) Tenant {
	tdb.t.Helper()
	ctx := context.Background()

	user, err := identity.NewUser(email, "Owner "+orgName, "correct-horse-1")
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormUserRepository(tdb.DB).Save(ctx, user))

	org, err := identity.NewOrganization(orgName)
	require.NoError(tdb.t, err)
	owner := identity.NewOwnerMember(org.ID, user.ID)
	require.NoError(tdb.t, persistence.NewGormOrganizationRepository(tdb.DB).CreateWithOwner(ctx, org, owner))

	return Tenant{Owner: user, Organization: org, Member: owner}
}

// OrgID returns a pointer to the tenant's organization id
func (tn Tenant) OrgID() *uuid.UUID {
	id := tn.Organization.ID
	return &id
}
