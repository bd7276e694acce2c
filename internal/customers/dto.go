package customers

// CreateCustomerInput captures the fields accepted on customer creation.
type CreateCustomerInput struct {
	FirstName string  `json:"first_name" validate:"required,max=60"`
	LastName  string  `json:"last_name" validate:"max=60"`
	Phone     string  `json:"phone" validate:"max=30"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Notes     *string `json:"notes" validate:"omitempty,max=1000"`
}

// ListFilters narrows the customer list.
type ListFilters struct {
	Query string
	Limit int
}
