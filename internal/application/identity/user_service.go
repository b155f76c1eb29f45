package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService lets administrators manage customer accounts
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// ListCustomers pages through customer accounts
func (s *UserService) ListCustomers(ctx context.Context, filter UserListFilter) (*shared.Paginated[UserResponse], error) {
	f := filter.toFilter()
	users, total, err := s.userRepo.FindByRole(ctx, identity.RoleCustomer, f)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Activate re-enables an account
func (s *UserService) Activate(ctx context.Context, actorID, userID uuid.UUID) (*UserResponse, error) {
	return s.setActive(ctx, actorID, userID, true)
}

// Deactivate blocks an account from logging in
func (s *UserService) Deactivate(ctx context.Context, actorID, userID uuid.UUID) (*UserResponse, error) {
	return s.setActive(ctx, actorID, userID, false)
}

func (s *UserService) setActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.CanBeManagedBy(actorID); err != nil {
		return nil, err
	}
	if active {
		user.Activate()
	} else {
		user.Deactivate()
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User status changed",
		zap.String("user_id", userID.String()),
		zap.String("actor_id", actorID.String()),
		zap.Bool("active", active),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes an account without orders. Administrators cannot delete
// themselves.
func (s *UserService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.CanBeManagedBy(actorID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("actor_id", actorID.String()),
	)
	return nil
}
