package stockledger

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/metrics"
)

// Service exposes the stock ledger to callers that are not already inside
// a transaction, such as the standalone movement endpoint.
type Service interface {
	Record(ctx context.Context, input ApplyInput) (*ApplyResult, error)
}

type service struct {
	client  *db.Client
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// NewService wires a stock ledger service.
func NewService(client *db.Client, logg *logger.Logger, m *metrics.CheckoutMetrics) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{client: client, logg: logg, metrics: m}, nil
}

func (s *service) Record(ctx context.Context, input ApplyInput) (*ApplyResult, error) {
	var result *ApplyResult
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		applied, terr := Apply(ctx, tx, input)
		if terr != nil {
			return terr
		}
		result = applied
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Clamped {
		s.metrics.IncStockClamp()
		fields := map[string]any{
			"inventory_item_id": input.InventoryItemID.String(),
			"movement_type":     input.MovementType.String(),
			"quantity":          input.Quantity,
			"previous_stock":    result.Movement.PreviousStock,
		}
		s.logg.Warn(s.logg.WithFields(ctx, fields), "stock movement clamped at zero")
	}

	return result, nil
}
