package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// Sale is a finalized point-of-sale transaction. The header is immutable
// after checkout; it owns its items.
type Sale struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ShopID         uuid.UUID           `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:idx_sales_shop_invoice"`
	CustomerID     uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	InvoiceNumber  string              `gorm:"column:invoice_number;size:50;not null;uniqueIndex:idx_sales_shop_invoice"`
	SubTotal       decimal.Decimal     `gorm:"column:sub_total;type:numeric(18,2);not null"`
	TaxAmount      decimal.Decimal     `gorm:"column:tax_amount;type:numeric(18,2);not null"`
	DiscountAmount decimal.Decimal     `gorm:"column:discount_amount;type:numeric(18,2);not null"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:numeric(18,2);not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'paid'"`
	Notes          *string             `gorm:"column:notes;size:500"`
	SaleDate       time.Time           `gorm:"column:sale_date;not null"`
	CreatedByID    uuid.UUID           `gorm:"column:created_by_id;type:uuid;not null"`
	Items          []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
