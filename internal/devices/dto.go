package devices

import "github.com/shopspring/decimal"

// CreateDeviceInput captures the fields accepted on device intake.
type CreateDeviceInput struct {
	Brand            string          `json:"brand" validate:"required,max=60"`
	Model            string          `json:"model" validate:"required,max=80"`
	Category         string          `json:"category" validate:"max=60"`
	SerialNumber     string          `json:"serial_number" validate:"max=60"`
	BuyingPrice      decimal.Decimal `json:"buying_price"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	AvailableForSale bool            `json:"available_for_sale"`
}

// ListFilters narrows the device list.
type ListFilters struct {
	Query         string
	Category      string
	AvailableOnly bool
	Limit         int
}
