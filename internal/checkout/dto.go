package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
)

// LineItemInput is one requested sale line. Reference semantics depend on
// the item type: device and repair lines point at the concrete entity,
// inventory lines at the stock-bearing item.
type LineItemInput struct {
	ItemType        enums.ItemType  `json:"item_type" validate:"required"`
	ItemReferenceID *uuid.UUID      `json:"item_reference_id,omitempty"`
	Description     string          `json:"description" validate:"max=200"`
	Quantity        int             `json:"quantity" validate:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
}

// CheckoutInput captures one checkout request. Header totals are
// caller-computed and reconciled against the server-side recomputation;
// the tax amount is trusted as provided.
type CheckoutInput struct {
	CustomerID     uuid.UUID           `json:"customer_id" validate:"required"`
	Items          []LineItemInput     `json:"items"`
	SubTotal       decimal.Decimal     `json:"sub_total"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method" validate:"required"`
	Notes          *string             `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Result identifies the committed sale.
type Result struct {
	SaleID        uuid.UUID `json:"sale_id"`
	InvoiceNumber string    `json:"invoice_number"`
}
