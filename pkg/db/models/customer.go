package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a shop-scoped contact record.
type Customer struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ShopID    uuid.UUID  `gorm:"column:shop_id;type:uuid;not null;index"`
	FirstName string     `gorm:"column:first_name;size:60;not null"`
	LastName  string     `gorm:"column:last_name;size:60;not null"`
	Phone     string     `gorm:"column:phone;size:30"`
	Email     string     `gorm:"column:email;size:150"`
	Notes     *string    `gorm:"column:notes;size:1000"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
