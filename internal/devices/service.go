package devices

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
)

// Service exposes shop-scoped device operations.
type Service interface {
	Create(ctx context.Context, shopID uuid.UUID, input CreateDeviceInput) (*models.Device, error)
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Device, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Device, error)
	SearchSellable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Device, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("devices repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, shopID uuid.UUID, input CreateDeviceInput) (*models.Device, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	if strings.TrimSpace(input.Brand) == "" || strings.TrimSpace(input.Model) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand and model are required")
	}
	if input.SellingPrice.IsNegative() || input.BuyingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}

	device := &models.Device{
		ShopID:           shopID,
		Brand:            strings.TrimSpace(input.Brand),
		Model:            strings.TrimSpace(input.Model),
		Category:         strings.TrimSpace(input.Category),
		SerialNumber:     strings.TrimSpace(input.SerialNumber),
		BuyingPrice:      input.BuyingPrice,
		SellingPrice:     input.SellingPrice,
		AvailableForSale: input.AvailableForSale,
	}
	if err := s.repo.Create(ctx, device); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating device")
	}
	return device, nil
}

func (s *service) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Device, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device id required")
	}
	return s.repo.FindByID(ctx, shopID, id)
}

func (s *service) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Device, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	return s.repo.List(ctx, shopID, f)
}

func (s *service) SearchSellable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Device, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	return s.repo.SearchSellable(ctx, shopID, query, limit)
}
