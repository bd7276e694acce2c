package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/filters"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

// Repository manages customer persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Customer, error)
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

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND deleted_at IS NULL", id, shopID).
		First(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Customer, error) {
	query := filters.New().
		Equal("shop_id", shopID).
		Search(f.Query, "first_name", "last_name", "phone", "email").
		NotDeleted().
		Apply(r.db.WithContext(ctx).Model(&models.Customer{}))

	var rows []models.Customer
	err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(f.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	return rows, nil
}
