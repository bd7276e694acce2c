package repairs

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/filters"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, repair *models.Repair) error
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Repair, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Repair, error)
	SearchBillable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Repair, error)
	UpdateStatus(ctx context.Context, repair *models.Repair, updates map[string]any) error
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

func (r *repository) Create(ctx context.Context, repair *models.Repair) error {
	if err := r.db.WithContext(ctx).Create(repair).Error; err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "repair number already taken")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating repair")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Repair, error) {
	var repair models.Repair
	err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND deleted_at IS NULL", id, shopID).
		First(&repair).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "repair not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading repair")
	}
	return &repair, nil
}

func (r *repository) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Repair, error) {
	b := filters.New().
		Equal("shop_id", shopID).
		Search(f.Query, "repair_number", "device_brand", "device_model", "issue").
		NotDeleted()
	if f.Status != nil {
		b.Equal("status", string(*f.Status))
	}
	if f.PaymentStatus != nil {
		b.Equal("payment_status", string(*f.PaymentStatus))
	}

	var repairs []models.Repair
	err := b.Apply(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(f.Limit)).
		Find(&repairs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing repairs")
	}
	return repairs, nil
}

// SearchBillable returns repairs a cashier can add to a sale: work is done
// and the ticket has not been paid yet.
func (r *repository) SearchBillable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Repair, error) {
	q := r.db.WithContext(ctx).
		Where("shop_id = ? AND status = ? AND payment_status = ? AND deleted_at IS NULL",
			shopID, enums.RepairStatusComplete, enums.PaymentStatusUnpaid)
	if s := strings.TrimSpace(query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(repair_number) LIKE ? OR LOWER(device_brand) LIKE ? OR LOWER(device_model) LIKE ?", like, like, like)
	}

	var repairs []models.Repair
	err := q.Order("created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&repairs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching repairs")
	}
	return repairs, nil
}

func (r *repository) UpdateStatus(ctx context.Context, repair *models.Repair, updates map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&models.Repair{}).
		Where("id = ?", repair.ID).
		Updates(updates).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating repair status")
	}
	return nil
}
