package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// Repair is a workshop ticket. RepairNumber is generated per shop per day
// and unique within the shop.
type Repair struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ShopID        uuid.UUID           `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:idx_repairs_shop_number"`
	RepairNumber  string              `gorm:"column:repair_number;size:50;not null;uniqueIndex:idx_repairs_shop_number"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	DeviceBrand   string              `gorm:"column:device_brand;size:60"`
	DeviceModel   string              `gorm:"column:device_model;size:80"`
	Issue         string              `gorm:"column:issue;size:500;not null"`
	Cost          decimal.Decimal     `gorm:"column:cost;type:numeric(18,2);not null"`
	Status        enums.RepairStatus  `gorm:"column:status;type:text;not null;default:'received'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	CreatedByID   uuid.UUID           `gorm:"column:created_by_id;type:uuid;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     *time.Time          `gorm:"column:deleted_at"`
}

func (r *Repair) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
