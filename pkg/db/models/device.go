package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Device is one physical unit for sale. The Available->Sold transition is
// one-way in the checkout path.
type Device struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ShopID           uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;index"`
	Brand            string          `gorm:"column:brand;size:60;not null"`
	Model            string          `gorm:"column:model;size:80;not null"`
	Category         string          `gorm:"column:category;size:60"`
	SerialNumber     string          `gorm:"column:serial_number;size:60"`
	BuyingPrice      decimal.Decimal `gorm:"column:buying_price;type:numeric(18,2);not null"`
	SellingPrice     decimal.Decimal `gorm:"column:selling_price;type:numeric(18,2);not null"`
	AvailableForSale bool            `gorm:"column:available_for_sale;not null;default:true"`
	IsSold           bool            `gorm:"column:is_sold;not null;default:false"`
	SoldDate         *time.Time      `gorm:"column:sold_date"`
	SoldToCustomerID *uuid.UUID      `gorm:"column:sold_to_customer_id;type:uuid"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        *time.Time      `gorm:"column:deleted_at"`
}

func (d *Device) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
