package models

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
// UsernameKey and EmailKey hold the case-folded values the unique indexes apply to.
type UserModel struct {
	AggregateModel
	Username     string `gorm:"type:varchar(50);not null"`
	UsernameKey  string `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username_key"`
	Email        string `gorm:"type:varchar(200);not null"`
	EmailKey     string `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email_key"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	RealName     string `gorm:"type:varchar(100);not null;default:''"`
	Phone        string `gorm:"type:varchar(50);not null;default:''"`
	Address      string `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Profile: identity.ShippingProfile{
			RealName: m.RealName,
			Phone:    m.Phone,
			Address:  m.Address,
		},
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.UsernameKey = u.UsernameKey()
	m.Email = u.Email
	m.EmailKey = u.EmailKey()
	m.PasswordHash = u.PasswordHash
	m.RealName = u.Profile.RealName
	m.Phone = u.Profile.Phone
	m.Address = u.Profile.Address
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
