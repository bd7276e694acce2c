package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// User is a shop staff account. PasswordHash stores the argon2id string.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	ShopID       uuid.UUID      `gorm:"column:shop_id;type:uuid;not null;index"`
	Email        string         `gorm:"column:email;size:150;not null;uniqueIndex"`
	FirstName    string         `gorm:"column:first_name;size:60;not null"`
	LastName     string         `gorm:"column:last_name;size:60;not null"`
	PasswordHash string         `gorm:"column:password_hash;size:300;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'cashier'"`
	Active       bool           `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    *time.Time     `gorm:"column:deleted_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
