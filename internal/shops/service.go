package shops

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
)

// Service resolves the tenant a request operates under.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	GetByCode(ctx context.Context, code string) (*models.Shop, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shops repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shop.Active {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop is inactive")
	}
	return shop, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*models.Shop, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop code required")
	}
	return s.repo.FindByCode(ctx, code)
}
