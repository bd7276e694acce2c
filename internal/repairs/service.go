// Package repairs manages workshop tickets: intake with per-shop repair
// numbering, status progression, and the POS-facing search for finished
// unpaid work.
package repairs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/internal/sequence"
	"github.com/shopdeskhq/shopdesk-backend/internal/shops"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequenceGenerator interface {
	Next(ctx context.Context, tx *gorm.DB, shop *models.Shop, kind enums.DocumentKind, now time.Time) (string, error)
}

type Service interface {
	Create(ctx context.Context, shopID, userID uuid.UUID, input CreateRepairInput) (*models.Repair, error)
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Repair, error)
	List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Repair, error)
	SearchBillable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Repair, error)
	UpdateStatus(ctx context.Context, shopID, id uuid.UUID, input UpdateStatusInput) (*models.Repair, error)
}

type service struct {
	tx       txRunner
	repo     Repository
	sequence sequenceGenerator
	logg     *logger.Logger
}

func NewService(tx txRunner, repo Repository, seq sequenceGenerator, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if seq == nil {
		seq = sequence.NewGenerator()
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, repo: repo, sequence: seq, logg: logg}, nil
}

// Create opens a repair ticket. The repair number is generated inside the
// same transaction that persists the row, so a lost race surfaces as a
// CONFLICT from the unique index rather than a duplicate number.
func (s *service) Create(ctx context.Context, shopID, userID uuid.UUID, input CreateRepairInput) (*models.Repair, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user required")
	}
	if err := validateCreate(&input); err != nil {
		return nil, err
	}

	var repair *models.Repair
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		now := time.Now().UTC()

		shop, err := shops.NewRepository(tx).FindByID(ctx, shopID)
		if err != nil {
			return err
		}

		var customer models.Customer
		if err := tx.WithContext(ctx).
			Where("id = ? AND shop_id = ? AND deleted_at IS NULL", input.CustomerID, shopID).
			First(&customer).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
		}

		number, err := s.sequence.Next(ctx, tx, shop, enums.DocumentKindRepair, now)
		if err != nil {
			return err
		}

		repair = &models.Repair{
			ShopID:        shopID,
			RepairNumber:  number,
			CustomerID:    customer.ID,
			DeviceBrand:   input.DeviceBrand,
			DeviceModel:   input.DeviceModel,
			Issue:         input.Issue,
			Cost:          input.Cost,
			Status:        enums.RepairStatusReceived,
			PaymentStatus: enums.PaymentStatusUnpaid,
			CreatedByID:   userID,
		}
		return s.repo.WithTx(tx).Create(ctx, repair)
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"repair_id":     repair.ID.String(),
		"repair_number": repair.RepairNumber,
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "repair ticket created")
	return repair, nil
}

func (s *service) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Repair, error) {
	return s.repo.FindByID(ctx, shopID, id)
}

func (s *service) List(ctx context.Context, shopID uuid.UUID, f ListFilters) ([]models.Repair, error) {
	return s.repo.List(ctx, shopID, f)
}

func (s *service) SearchBillable(ctx context.Context, shopID uuid.UUID, query string, limit int) ([]models.Repair, error) {
	return s.repo.SearchBillable(ctx, shopID, query, limit)
}

// UpdateStatus moves a ticket along the workshop flow. Illegal jumps and
// transitions out of a terminal status are rejected.
func (s *service) UpdateStatus(ctx context.Context, shopID, id uuid.UUID, input UpdateStatusInput) (*models.Repair, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid repair status %q", input.Status))
	}

	repair, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if !repair.Status.CanTransitionTo(input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move repair from %q to %q", repair.Status, input.Status)).
			WithDetails(map[string]any{"current_status": string(repair.Status)})
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":     input.Status,
		"updated_at": now,
	}
	if err := s.repo.UpdateStatus(ctx, repair, updates); err != nil {
		return nil, err
	}
	repair.Status = input.Status
	repair.UpdatedAt = now
	return repair, nil
}

func validateCreate(input *CreateRepairInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	input.DeviceBrand = strings.TrimSpace(input.DeviceBrand)
	input.DeviceModel = strings.TrimSpace(input.DeviceModel)
	input.Issue = strings.TrimSpace(input.Issue)
	if input.DeviceBrand == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "device brand required")
	}
	if input.DeviceModel == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "device model required")
	}
	if input.Issue == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "issue description required")
	}
	if input.Cost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
	}
	return nil
}
