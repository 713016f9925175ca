package dto

import "time"

// CreateCustomerRequest body de POST /api/customers.
type CreateCustomerRequest struct {
	Name      string `json:"name" validate:"max=200"`
	CUIT      string `json:"cuit" validate:"max=20"`
	VATStatus string `json:"vat_status" validate:"max=100"`
	// Active nil equivale a true.
	Active *bool `json:"active"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CUIT      string    `json:"cuit"`
	VATStatus string    `json:"vat_status"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerFilter búsqueda por nombre o CUIT.
type CustomerFilter struct {
	Search string `query:"search"`
}
