package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a stock-bearing record. CurrentStock is mutated only by
// the stock ledger, which pairs every change with a StockMovement row.
type InventoryItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ShopID         uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;index"`
	Name           string          `gorm:"column:name;size:100;not null"`
	SKU            string          `gorm:"column:sku;size:50"`
	Category       string          `gorm:"column:category;size:60"`
	Description    string          `gorm:"column:description;size:200"`
	CurrentStock   int             `gorm:"column:current_stock;not null;default:0"`
	ReorderPoint   int             `gorm:"column:reorder_point;not null;default:5"`
	CostPrice      decimal.Decimal `gorm:"column:cost_price;type:numeric(18,2);not null"`
	RetailPrice    decimal.Decimal `gorm:"column:retail_price;type:numeric(18,2);not null"`
	WholesalePrice decimal.Decimal `gorm:"column:wholesale_price;type:numeric(18,2);not null"`
	NotifyLowStock bool            `gorm:"column:notify_low_stock;not null;default:true"`
	Active         bool            `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      *time.Time      `gorm:"column:deleted_at"`
}

func (i *InventoryItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
