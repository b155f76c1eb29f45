package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

// MaxCategoryNameLength limits category names
const MaxCategoryNameLength = 100

// Category groups products for browsing. Categories are only ever
// deactivated, never removed.
type Category struct {
	shared.BaseEntity
	Name        string
	Description string
	Active      bool
}

// NewCategory creates an active category
func NewCategory(name, description string) (*Category, error) {
	c := &Category{
		BaseEntity: shared.NewBaseEntity(),
		Active:     true,
	}
	if err := c.Update(name, description); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes name and description
func (c *Category) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Category name is required")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return shared.NewValidationError("Category name cannot exceed %d characters", MaxCategoryNameLength)
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.Touch()
	return nil
}

// Activate re-enables the category
func (c *Category) Activate() {
	c.Active = true
	c.Touch()
}

// Deactivate hides the category from browsing
func (c *Category) Deactivate() {
	c.Active = false
	c.Touch()
}
