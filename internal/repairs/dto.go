package repairs

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// CreateRepairInput captures the fields accepted on ticket intake.
type CreateRepairInput struct {
	CustomerID  uuid.UUID       `json:"customer_id" validate:"required"`
	DeviceBrand string          `json:"device_brand" validate:"required,max=60"`
	DeviceModel string          `json:"device_model" validate:"required,max=80"`
	Issue       string          `json:"issue" validate:"required,max=500"`
	Cost        decimal.Decimal `json:"cost"`
}

// UpdateStatusInput carries a requested status transition.
type UpdateStatusInput struct {
	Status enums.RepairStatus `json:"status" validate:"required"`
}

// ListFilters narrows the repair list.
type ListFilters struct {
	Status        *enums.RepairStatus
	PaymentStatus *enums.PaymentStatus
	Query         string
	Limit         int
}
