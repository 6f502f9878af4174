package persistence

import (
	"errors"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// translate maps driver errors to domain errors. Missing rows become
// NotFound for resource; unique violations become AlreadyExists.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(resource)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.NewDomainError("ALREADY_EXISTS", resource+" already exists")
	}
	return err
}
