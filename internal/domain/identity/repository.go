package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines user persistence
type UserRepository interface {
	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail looks up a normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByRole lists users of a role, newest first
	FindByRole(ctx context.Context, role Role, filter shared.Filter) ([]User, int64, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	// Create inserts a user; shared.ErrAlreadyExists on a duplicate email
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
	// Delete removes the user with their cart and reviews; ErrForbidden when they have orders
	Delete(ctx context.Context, id uuid.UUID) error
}
