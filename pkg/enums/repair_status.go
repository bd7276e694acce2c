package enums

import "fmt"

// RepairStatus tracks a repair ticket through the workshop.
type RepairStatus string

const (
	RepairStatusReceived   RepairStatus = "received"
	RepairStatusDiagnosing RepairStatus = "diagnosing"
	RepairStatusInProgress RepairStatus = "in_progress"
	RepairStatusComplete   RepairStatus = "complete"
	RepairStatusDelivered  RepairStatus = "delivered"
	RepairStatusCancelled  RepairStatus = "cancelled"
)

var validRepairStatuses = []RepairStatus{
	RepairStatusReceived,
	RepairStatusDiagnosing,
	RepairStatusInProgress,
	RepairStatusComplete,
	RepairStatusDelivered,
	RepairStatusCancelled,
}

// String implements fmt.Stringer.
func (r RepairStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RepairStatus.
func (r RepairStatus) IsValid() bool {
	for _, candidate := range validRepairStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the target status is a legal next step.
// Delivered and cancelled tickets are terminal.
func (r RepairStatus) CanTransitionTo(target RepairStatus) bool {
	if !target.IsValid() {
		return false
	}
	switch r {
	case RepairStatusDelivered, RepairStatusCancelled:
		return false
	case RepairStatusComplete:
		return target == RepairStatusDelivered || target == RepairStatusCancelled || target == RepairStatusInProgress
	default:
		return target != r
	}
}

// ParseRepairStatus converts raw input into a RepairStatus.
func ParseRepairStatus(value string) (RepairStatus, error) {
	for _, candidate := range validRepairStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair status %q", value)
}
