// Package inventory manages stock items. Stock counts are read here but
// only ever written through the stock ledger.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/internal/stockledger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Service interface {
	Create(ctx context.Context, shopID, userID uuid.UUID, input CreateItemInput) (*models.InventoryItem, error)
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context, shopID uuid.UUID) ([]models.InventoryItem, error)
	ListMovements(ctx context.Context, shopID, itemID uuid.UUID, params pagination.Params) (*MovementList, error)
	RecordMovement(ctx context.Context, shopID, userID, itemID uuid.UUID, input RecordMovementInput) (*models.StockMovement, error)
	Update(ctx context.Context, shopID, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, shopID, id uuid.UUID) error
}

type service struct {
	repo   Repository
	ledger stockledger.Service
	tx     txRunner
	logg   *logger.Logger
}

func NewService(repo Repository, ledger stockledger.Service, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, ledger: ledger, tx: tx, logg: logg}, nil
}

// Create persists the item and, when it starts with stock on hand,
// records the opening count as an adjustment movement in the same
// transaction so the audit trail covers the first value too.
func (s *service) Create(ctx context.Context, shopID, userID uuid.UUID, input CreateItemInput) (*models.InventoryItem, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user required")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.CurrentStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "current stock must not be negative")
	}
	if input.ReorderPoint < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder point must not be negative")
	}
	if input.CostPrice.IsNegative() || input.RetailPrice.IsNegative() || input.WholesalePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}

	notify := true
	if input.NotifyLowStock != nil {
		notify = *input.NotifyLowStock
	}
	// The item is born with zero stock; the opening movement raises it.
	item := &models.InventoryItem{
		ShopID:         shopID,
		Name:           input.Name,
		SKU:            strings.TrimSpace(input.SKU),
		Category:       strings.TrimSpace(input.Category),
		Description:    strings.TrimSpace(input.Description),
		CurrentStock:   0,
		ReorderPoint:   input.ReorderPoint,
		CostPrice:      input.CostPrice,
		RetailPrice:    input.RetailPrice,
		WholesalePrice: input.WholesalePrice,
		NotifyLowStock: notify,
		Active:         true,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		if input.CurrentStock == 0 {
			return nil
		}
		result, err := stockledger.Apply(ctx, tx, stockledger.ApplyInput{
			ShopID:          shopID,
			InventoryItemID: item.ID,
			MovementType:    enums.MovementTypeAdjustment,
			Quantity:        input.CurrentStock,
			Reason:          "opening stock",
			ActorUserID:     userID,
			UnitCost:        input.CostPrice,
		})
		if err != nil {
			return err
		}
		item.CurrentStock = result.Movement.NewStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.InventoryItem, error) {
	return s.repo.FindByID(ctx, shopID, id)
}

func (s *service) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.InventoryItem, error) {
	return s.repo.List(ctx, shopID, f)
}

func (s *service) ListLowStock(ctx context.Context, shopID uuid.UUID) ([]models.InventoryItem, error) {
	return s.repo.ListLowStock(ctx, shopID)
}

func (s *service) ListMovements(ctx context.Context, shopID, itemID uuid.UUID, params pagination.Params) (*MovementList, error) {
	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.repo.ListMovements(ctx, shopID, itemID, params.Limit, cursor)
	if err != nil {
		return nil, err
	}

	encoded := ""
	if next != nil {
		encoded = pagination.EncodeCursor(*next)
	}
	return &MovementList{Items: rows, NextCursor: encoded}, nil
}

// RecordMovement applies a manual stock change through the ledger.
func (s *service) RecordMovement(ctx context.Context, shopID, userID, itemID uuid.UUID, input RecordMovementInput) (*models.StockMovement, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user required")
	}
	result, err := s.ledger.Record(ctx, stockledger.ApplyInput{
		ShopID:          shopID,
		InventoryItemID: itemID,
		MovementType:    input.MovementType,
		Quantity:        input.Quantity,
		Reason:          strings.TrimSpace(input.Reason),
		ReferenceNumber: strings.TrimSpace(input.ReferenceNumber),
		ActorUserID:     userID,
		UnitCost:        input.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	return result.Movement, nil
}

func (s *service) Update(ctx context.Context, shopID, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
		}
		updates["name"] = name
	}
	if input.SKU != nil {
		updates["sku"] = strings.TrimSpace(*input.SKU)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ReorderPoint != nil {
		if *input.ReorderPoint < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder point must not be negative")
		}
		updates["reorder_point"] = *input.ReorderPoint
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost price must not be negative")
		}
		updates["cost_price"] = *input.CostPrice
	}
	if input.RetailPrice != nil {
		if input.RetailPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "retail price must not be negative")
		}
		updates["retail_price"] = *input.RetailPrice
	}
	if input.WholesalePrice != nil {
		if input.WholesalePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "wholesale price must not be negative")
		}
		updates["wholesale_price"] = *input.WholesalePrice
	}
	if input.NotifyLowStock != nil {
		updates["notify_low_stock"] = *input.NotifyLowStock
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return item, nil
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.repo.Update(ctx, item, updates); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, shopID, id)
}

func (s *service) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	item, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, item); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"inventory_item_id": id.String()}), "inventory item deleted")
	return nil
}
