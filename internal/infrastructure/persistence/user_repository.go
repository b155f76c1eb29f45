package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrNotFound.WithMessage("User not found"))
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error
	if err != nil {
		return nil, translateError(err, shared.ErrNotFound.WithMessage("User not found"))
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks whether an email is registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, nil)
	}
	return count > 0, nil
}

// FindByRole lists users of a role
func (r *GormUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, int64, error) {
	filter = filter.Normalize()
	db := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", role)
	if pattern := likePattern(filter.Search); pattern != "" {
		db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	sortField := ValidateSortField(filter.OrderBy, UserSortFields, "created_at")
	var rows []models.UserModel
	err := db.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err, nil)
	}

	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

// CountByRole counts users of a role
func (r *GormUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", role).Count(&count).Error
	return count, translateError(err, nil)
}

// Create inserts a user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := &models.UserModel{}
	model.FromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		err = translateError(err, nil)
		if errors.Is(err, shared.ErrAlreadyExists) {
			return shared.ErrAlreadyExists.WithMessage("Email %s is already registered", user.Email)
		}
		return err
	}
	return nil
}

// Save updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := &models.UserModel{}
	model.FromDomain(user)
	return translateError(r.db.WithContext(ctx).Save(model).Error, nil)
}

// Delete removes the user with their cart and reviews. Accounts with
// orders are kept so order history stays intact; deactivate those instead.
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&models.OrderModel{}).Where("user_id = ?", id).Count(&orders).Error; err != nil {
			return translateError(err, nil)
		}
		if orders > 0 {
			return shared.ErrForbidden.WithMessage("User has %d orders and can only be deactivated", orders)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
			return translateError(err, nil)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ReviewModel{}).Error; err != nil {
			return translateError(err, nil)
		}
		result := tx.Where("id = ?", id).Delete(&models.UserModel{})
		if result.Error != nil {
			return translateError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound.WithMessage("User not found")
		}
		return nil
	})
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
