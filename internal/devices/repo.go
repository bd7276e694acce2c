package devices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/filters"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

// Repository manages device persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, device *models.Device) error
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Device, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Device, error)
	SearchSellable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Device, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, device *models.Device) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND deleted_at IS NULL", id, shopID).
		First(&device).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading device")
	}
	return &device, nil
}

func (r *repository) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Device, error) {
	builder := filters.New().
		Equal("shop_id", shopID).
		Search(f.Query, "brand", "model", "serial_number").
		EqualString("category", f.Category).
		NotDeleted()
	if f.AvailableOnly {
		builder.Equal("available_for_sale", true).Equal("is_sold", false)
	}

	var rows []models.Device
	err := builder.Apply(r.db.WithContext(ctx).Model(&models.Device{})).
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(f.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing devices")
	}
	return rows, nil
}

// SearchSellable returns devices a cashier can put on a sale: available,
// not yet sold, not deleted.
func (r *repository) SearchSellable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Device, error) {
	builder := filters.New().
		Equal("shop_id", shopID).
		Equal("available_for_sale", true).
		Equal("is_sold", false).
		Search(query, "brand", "model", "serial_number").
		NotDeleted()

	var rows []models.Device
	err := builder.Apply(r.db.WithContext(ctx).Model(&models.Device{})).
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching devices")
	}
	return rows, nil
}
