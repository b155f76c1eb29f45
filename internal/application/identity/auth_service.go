// Package identity handles accounts: registration, login and customer
// administration
package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = shared.ErrUnauthorized.WithMessage("Invalid email or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a customer account and logs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	user, err := identity.NewUser(req.Name, req.Email, req.Password, identity.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := user.SetPhone(req.Phone); err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Email %s is already registered", user.Email)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login authenticates a user and returns an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := identity.NormalizeEmail(req.Email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		s.burnPasswordCheck(req.Password)
		s.logger.Warn("Login for unknown email")
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if !user.Active {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrForbidden.WithMessage("Account has been deactivated")
	}
	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Logout revokes the caller's token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" || input.TTL <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TTL); err != nil {
		return shared.NewStorageError(err)
	}
	return nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) issue(user *identity.User) (*LoginResult, error) {
	token, err := s.jwtService.Generate(user)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, err
	}
	return &LoginResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// burnPasswordCheck spends a bcrypt comparison so unknown emails take as
// long as wrong passwords
func (s *AuthService) burnPasswordCheck(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storefront-dummy"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}
