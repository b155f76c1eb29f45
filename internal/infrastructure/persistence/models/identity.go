package models

import (
	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	BaseModel
	Name         string        `gorm:"type:varchar(100);not null"`
	Email        string        `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'customer';index"`
	Phone        string        `gorm:"type:varchar(30);not null;default:''"`
	Active       bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Phone:        m.Phone,
		Active:       m.Active,
	}
}

// FromDomain populates the model from a domain user
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Phone = u.Phone
	m.Active = u.Active
}
