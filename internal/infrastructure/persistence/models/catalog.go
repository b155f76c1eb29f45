package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	BaseModel
	Name        string           `gorm:"type:varchar(200);not null;index"`
	Description string           `gorm:"type:text;not null;default:''"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PromoPrice  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Stock       int              `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	Active      bool             `gorm:"not null;default:true;index"`
	Featured    bool             `gorm:"not null;default:false"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index"`
	ImageRef    string           `gorm:"type:varchar(500);not null;default:''"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		AggregateRoot: shared.AggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		PromoPrice:    m.PromoPrice,
		Stock:         m.Stock,
		Active:        m.Active,
		Featured:      m.Featured,
		CategoryID:    m.CategoryID,
		ImageRef:      m.ImageRef,
	}
}

// FromDomain populates the model from a domain product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.PromoPrice = p.PromoPrice
	m.Stock = p.Stock
	m.Active = p.Active
	m.Featured = p.Featured
	m.CategoryID = p.CategoryID
	m.ImageRef = p.ImageRef
}

// ProductModelFromDomain creates a model from a domain product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for catalog.Category
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text;not null;default:''"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
	}
}

// FromDomain populates the model from a domain category
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.Active = c.Active
}

// ReviewModel is the persistence model for catalog.Review
type ReviewModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product,priority:2;index"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:varchar(500);not null;default:''"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the model to a domain review
func (m *ReviewModel) ToDomain() *catalog.Review {
	return &catalog.Review{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ProductID:  m.ProductID,
		Rating:     m.Rating,
		Comment:    m.Comment,
	}
}

// FromDomain populates the model from a domain review
func (m *ReviewModel) FromDomain(r *catalog.Review) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.UserID = r.UserID
	m.ProductID = r.ProductID
	m.Rating = r.Rating
	m.Comment = r.Comment
}
