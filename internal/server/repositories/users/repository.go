// Package users implements durable keyed storage of user records, queryable
// by username.
package users

import (
	"context"

	"github.com/mathrevise/backend/internal/server/models"
)

// Repository is the user-store contract. Absence is signalled with
// common.ErrorNotFound, duplicates with common.ErrorAlreadyExists; any other
// error means the store misbehaved or was unreachable.
//
// Strike mutations are atomic at the storage layer: AddStrike performs a
// single increment-and-return so two concurrent wrong-password attempts can
// never both read a stale count and lose an update.
type Repository interface {
	// GetByUsername returns the record, or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create inserts a new record. The store enforces username uniqueness.
	Create(ctx context.Context, user *models.User) error

	// AddStrike atomically increments the strike counter and returns the
	// new value. common.ErrorNotFound if the record vanished.
	AddStrike(ctx context.Context, username string) (int, error)

	// ResetStrikes sets the counter to zero. Idempotent; resetting an
	// absent record is a no-op success.
	ResetStrikes(ctx context.Context, username string) error

	// Delete removes the record. Deleting an absent record is a no-op
	// success; existence checks are the caller's responsibility.
	Delete(ctx context.Context, username string) error

	// List returns all records ordered by username.
	List(ctx context.Context) ([]models.User, error)
}
