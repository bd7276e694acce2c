package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// SaleItem captures the snapshot of one sold unit. SubTotal and TotalAmount
// are computed server-side at checkout and never trusted from the caller.
type SaleItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SaleID          uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ItemType        enums.ItemType  `gorm:"column:item_type;type:text;not null"`
	ItemReferenceID *uuid.UUID      `gorm:"column:item_reference_id;type:uuid"`
	Description     string          `gorm:"column:description;size:200;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(18,2);not null"`
	OriginalPrice   decimal.Decimal `gorm:"column:original_price;type:numeric(18,2);not null"`
	SubTotal        decimal.Decimal `gorm:"column:sub_total;type:numeric(18,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"column:discount_amount;type:numeric(18,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(18,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (s *SaleItem) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
