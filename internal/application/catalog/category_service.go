package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns categories by name; activeOnly hides deactivated ones
func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, category.Name, nil); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update renames or re-describes a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, category.Name, &id); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Activate re-enables a category
func (s *CategoryService) Activate(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate hides a category; categories are never removed
func (s *CategoryService) Deactivate(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *CategoryService) setActive(ctx context.Context, id uuid.UUID, active bool) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		category.Activate()
	} else {
		category.Deactivate()
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.ErrAlreadyExists.WithMessage("Category %q already exists", name)
	}
	return nil
}
