// Package stockledger is the only code path allowed to mutate an inventory
// item's stock count. Every mutation appends one immutable movement row
// capturing the previous and new stock.
package stockledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
)

// ApplyInput captures one stock mutation request.
type ApplyInput struct {
	ShopID          uuid.UUID
	InventoryItemID uuid.UUID
	MovementType    enums.MovementType
	Quantity        int
	Reason          string
	ReferenceNumber string
	ActorUserID     uuid.UUID
	UnitCost        decimal.Decimal
}

// ApplyResult reports the written movement and whether an outbound
// mutation hit the zero-stock floor.
type ApplyResult struct {
	Movement *models.StockMovement
	Clamped  bool
}

// Apply mutates the item's stock and appends the audit row, both inside the
// caller's transaction. Movement semantics:
//
//	in:         new = current + qty
//	out/transfer: new = max(0, current - qty), clamped rather than rejected
//	adjustment: new = qty (absolute set)
func Apply(ctx context.Context, tx *gorm.DB, input ApplyInput) (*ApplyResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock ledger requires a transaction")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor user id is required")
	}
	if !input.MovementType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement type %q", input.MovementType))
	}
	if input.MovementType == enums.MovementTypeAdjustment {
		if input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment quantity must not be negative")
		}
	} else if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var item models.InventoryItem
	err := tx.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND deleted_at IS NULL", input.InventoryItemID, input.ShopID).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
	}

	previous := item.CurrentStock
	var next int
	clamped := false

	switch input.MovementType {
	case enums.MovementTypeIn:
		next = previous + input.Quantity
	case enums.MovementTypeOut, enums.MovementTypeTransfer:
		next = previous - input.Quantity
		if next < 0 {
			next = 0
			clamped = true
		}
	case enums.MovementTypeAdjustment:
		next = input.Quantity
	}

	err = tx.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"current_stock": next,
			"updated_at":    time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating stock count")
	}

	movement := models.StockMovement{
		InventoryItemID: item.ID,
		ActorUserID:     input.ActorUserID,
		MovementType:    input.MovementType,
		Quantity:        input.Quantity,
		PreviousStock:   previous,
		NewStock:        next,
		Reason:          input.Reason,
		ReferenceNumber: input.ReferenceNumber,
		UnitCost:        input.UnitCost,
		TotalCost:       input.UnitCost.Mul(decimal.NewFromInt(int64(input.Quantity))),
		MovementDate:    time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing stock movement")
	}

	return &ApplyResult{Movement: &movement, Clamped: clamped}, nil
}
