package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// CreateItemInput captures the fields accepted when adding a stock item.
type CreateItemInput struct {
	Name           string          `json:"name" validate:"required,max=100"`
	SKU            string          `json:"sku" validate:"max=50"`
	Category       string          `json:"category" validate:"max=60"`
	Description    string          `json:"description" validate:"max=200"`
	CurrentStock   int             `json:"current_stock" validate:"gte=0"`
	ReorderPoint   int             `json:"reorder_point" validate:"gte=0"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	NotifyLowStock *bool           `json:"notify_low_stock"`
}

// UpdateItemInput is a partial update; nil fields are left untouched.
// Stock is deliberately absent, movements are the only way to change it.
type UpdateItemInput struct {
	Name           *string          `json:"name" validate:"omitempty,max=100"`
	SKU            *string          `json:"sku" validate:"omitempty,max=50"`
	Category       *string          `json:"category" validate:"omitempty,max=60"`
	Description    *string          `json:"description" validate:"omitempty,max=200"`
	ReorderPoint   *int             `json:"reorder_point" validate:"omitempty,gte=0"`
	CostPrice      *decimal.Decimal `json:"cost_price"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	NotifyLowStock *bool            `json:"notify_low_stock"`
	Active         *bool            `json:"active"`
}

// RecordMovementInput is the standalone movement request body.
type RecordMovementInput struct {
	MovementType    enums.MovementType `json:"movement_type" validate:"required"`
	Quantity        int                `json:"quantity" validate:"required"`
	Reason          string             `json:"reason" validate:"max=200"`
	ReferenceNumber string             `json:"reference_number" validate:"max=50"`
	UnitCost        decimal.Decimal    `json:"unit_cost"`
}

// ListFilters narrows the item list.
type ListFilters struct {
	Query    string
	Category string
	Limit    int
}

// MovementList is one page of an item's movement history, newest first.
type MovementList struct {
	Items      []models.StockMovement `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}
