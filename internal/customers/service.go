package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
)

// Service exposes shop-scoped customer operations.
type Service interface {
	Create(ctx context.Context, shopID uuid.UUID, input CreateCustomerInput) (*models.Customer, error)
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Customer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, shopID uuid.UUID, input CreateCustomerInput) (*models.Customer, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name required")
	}

	customer := &models.Customer{
		ShopID:    shopID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(input.Email),
		Notes:     input.Notes,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
	}
	return customer, nil
}

func (s *service) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.repo.FindByID(ctx, shopID, id)
}

func (s *service) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Customer, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	return s.repo.List(ctx, shopID, f)
}
