// Package sales reads finalized sale transactions. Writing goes through
// checkout; nothing here mutates a sale.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type Service interface {
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, shopID uuid.UUID, params pagination.Params, f ListFilters) (*SaleList, error)
	DailySummary(ctx context.Context, shopID uuid.UUID, day time.Time) (*DailySummary, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error) {
	return s.repo.FindByID(ctx, shopID, id)
}

func (s *service) List(ctx context.Context, shopID uuid.UUID, params pagination.Params, f ListFilters) (*SaleList, error) {
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}

	q := listQuery{Filters: f, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		q.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, shopID, q)
	if err != nil {
		return nil, err
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &SaleList{Items: rows, NextCursor: cursor}, nil
}

// DailySummary aggregates one UTC calendar day.
func (s *service) DailySummary(ctx context.Context, shopID uuid.UUID, day time.Time) (*DailySummary, error) {
	day = day.UTC()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	return s.repo.Summarize(ctx, shopID, from, to)
}
