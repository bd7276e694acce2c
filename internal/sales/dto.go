package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// ListFilters narrows the sale history.
type ListFilters struct {
	Query         string
	PaymentMethod *enums.PaymentMethod
	DateFrom      *time.Time
	DateTo        *time.Time
}

// SaleList is one page of sale history. NextCursor is empty on the
// last page.
type SaleList struct {
	Items      []models.Sale `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// DailySummary aggregates one shop's sales for one day.
type DailySummary struct {
	Date          string          `json:"date"`
	SaleCount     int64           `json:"sale_count"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
}
