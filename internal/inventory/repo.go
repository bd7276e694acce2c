package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/filters"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context, shopID uuid.UUID) ([]models.InventoryItem, error)
	ListMovements(ctx context.Context, shopID, itemID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.StockMovement, *pagination.Cursor, error)
	Update(ctx context.Context, item *models.InventoryItem, updates map[string]any) error
	SoftDelete(ctx context.Context, item *models.InventoryItem) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating inventory item")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND deleted_at IS NULL", id, shopID).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.InventoryItem, error) {
	b := filters.New().
		Equal("shop_id", shopID).
		Search(f.Query, "name", "sku", "description").
		EqualString("category", f.Category).
		NotDeleted()

	var items []models.InventoryItem
	err := b.Apply(r.db.WithContext(ctx)).
		Order("name ASC").
		Limit(pagination.NormalizeLimit(f.Limit)).
		Find(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory items")
	}
	return items, nil
}

// ListLowStock returns active items at or below their reorder point that
// have low-stock alerts enabled.
func (r *repository) ListLowStock(ctx context.Context, shopID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND active = ? AND notify_low_stock = ? AND current_stock <= reorder_point AND deleted_at IS NULL",
			shopID, true, true).
		Order("current_stock ASC").
		Find(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock items")
	}
	return items, nil
}

func (r *repository) ListMovements(ctx context.Context, shopID, itemID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.StockMovement, *pagination.Cursor, error) {
	// Scope through the item so one shop cannot read another's audit trail.
	if _, err := r.FindByID(ctx, shopID, itemID); err != nil {
		return nil, nil, err
	}

	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).Where("inventory_item_id = ?", itemID)
	if cursor != nil {
		query = query.Where("(movement_date, id) < (?, ?)", cursor.Timestamp, cursor.ID)
	}

	var movements []models.StockMovement
	err := query.
		Order("movement_date DESC, id DESC").
		Limit(buffered).
		Find(&movements).Error
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stock movements")
	}

	if len(movements) > normalized {
		next := movements[normalized]
		movements = movements[:normalized]
		return movements, &pagination.Cursor{Timestamp: next.MovementDate, ID: next.ID}, nil
	}
	return movements, nil, nil
}

func (r *repository) Update(ctx context.Context, item *models.InventoryItem, updates map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Updates(updates).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating inventory item")
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, item *models.InventoryItem) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{"deleted_at": now, "active": false, "updated_at": now}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting inventory item")
	}
	return nil
}
