package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationFS embed.FS

// Result describes one migration run
type Result struct {
	FromVersion uint `json:"from_version"`
	ToVersion   uint `json:"to_version"`
	Applied     bool `json:"applied"`
	Dirty       bool `json:"dirty"`
}

// Migrator applies the embedded schema migrations to one database
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New opens a dedicated connection to dsn and prepares the embedded
// migrations. The migrator owns that connection; Close releases it.
func New(dsn string, logger *zap.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "sql")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger}, nil
}

// Up applies all pending migrations. Running it on an up to date schema is a no-op.
func (m *Migrator) Up() (Result, error) {
	from, _, err := m.Version()
	if err != nil {
		return Result{}, err
	}

	err = m.migrate.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Result{FromVersion: from}, fmt.Errorf("migration up failed: %w", err)
	}

	to, dirty, verr := m.Version()
	if verr != nil {
		return Result{FromVersion: from}, verr
	}
	res := Result{FromVersion: from, ToVersion: to, Applied: to != from, Dirty: dirty}
	if res.Applied {
		m.logger.Info("Migrations applied", zap.Uint("from_version", from), zap.Uint("to_version", to))
	} else {
		m.logger.Info("No migrations to apply", zap.Uint("version", to))
	}
	return res, nil
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.logger.Warn("Rolling back all migrations")
	if err := m.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Steps applies n migrations (positive = up, negative = down)
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Running migration steps", zap.Int("steps", n))
	if err := m.migrate.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return nil
}

// Version returns the current schema version; zero means no migration ran yet
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return v, dirty, nil
}

// Force sets the version without running migrations, to recover a dirty schema
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the dedicated database connection
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}

// Runner serves repeated migration requests. Each run opens and closes its own
// connection, and runs within one process never overlap.
type Runner struct {
	mu     sync.Mutex
	dsn    string
	logger *zap.Logger
}

// NewRunner creates a runner for dsn
func NewRunner(dsn string, logger *zap.Logger) *Runner {
	return &Runner{dsn: dsn, logger: logger}
}

// Apply runs all pending migrations
func (r *Runner) Apply(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	m, err := New(r.dsn, r.logger)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			r.logger.Warn("Failed to close migrator", zap.Error(cerr))
		}
	}()
	return m.Up()
}

// Embedded lists the names of the embedded up migrations in order
func Embedded() ([]string, error) {
	entries, err := migrationFS.ReadDir("sql")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries)/2)
	for _, e := range entries {
		if base, ok := upBaseName(e.Name()); ok {
			names = append(names, base)
		}
	}
	return names, nil
}
