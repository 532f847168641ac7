// Package repository handles all interactions with the registration store.
//
// It hides the SQL and document-store details behind RegistrationRepository
// so the service layer does not know which backend is running.
package repository

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks RegistrationRepository

import (
	"context"

	"github.com/deppfellow/registration-service/internal/model"
)

// TableName is the table (PostgreSQL) or collection (MongoDB) holding registrations.
const TableName = "users"

// RegistrationRepository persists registrations.
//
// Records are append-only: there is no read, update or delete, and
// duplicate emails are accepted.
type RegistrationRepository interface {
	// InitSchema creates the table or collection if missing. Safe to call repeatedly.
	InitSchema(ctx context.Context) error

	// Save writes one record and sets reg.ID to the store-assigned id.
	// Failures are *errs.HTTPError storage errors; nothing is retried.
	Save(ctx context.Context, reg *model.Registration) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
