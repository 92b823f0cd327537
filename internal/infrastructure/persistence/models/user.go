package models

import (
	"github.com/partnerpro/product-manager/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	FullName     string `gorm:"type:varchar(100);not null"`
	Enabled      bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.entity(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Email:        m.Email,
		FullName:     m.FullName,
		Enabled:      m.Enabled,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.BaseModel = baseModelOf(u.BaseEntity)
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.Email = u.Email
	m.FullName = u.FullName
	m.Enabled = u.Enabled
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
