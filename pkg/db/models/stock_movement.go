package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// StockMovement is the append-only audit row for every stock change.
// Rows are created, never updated or deleted in normal operation.
type StockMovement struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	InventoryItemID uuid.UUID          `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	ActorUserID     uuid.UUID          `gorm:"column:actor_user_id;type:uuid;not null"`
	MovementType    enums.MovementType `gorm:"column:movement_type;type:text;not null"`
	Quantity        int                `gorm:"column:quantity;not null"`
	PreviousStock   int                `gorm:"column:previous_stock;not null"`
	NewStock        int                `gorm:"column:new_stock;not null"`
	Reason          string             `gorm:"column:reason;size:200"`
	ReferenceNumber string             `gorm:"column:reference_number;size:50"`
	UnitCost        decimal.Decimal    `gorm:"column:unit_cost;type:numeric(18,2);not null"`
	TotalCost       decimal.Decimal    `gorm:"column:total_cost;type:numeric(18,2);not null"`
	MovementDate    time.Time          `gorm:"column:movement_date;not null"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (m *StockMovement) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
