package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the top of the commercial hierarchy: divisions, shipping
// addresses and offers all hang off a customer.
type Customer struct {
	UUID        uuid.UUID `json:"uuid"`
	CompanyName string    `json:"company_name"`
	VATNumber   string    `json:"vat_number"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	ZipCode     string    `json:"zip_code"`
	Province    string    `json:"province"`
	Country     string    `json:"country"`
	Removed     bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CustomerDivision struct {
	UUID         uuid.UUID `json:"uuid"`
	CustomerUUID uuid.UUID `json:"customer_uuid"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Removed      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CustomerShippingAddress struct {
	UUID         uuid.UUID  `json:"uuid"`
	CustomerUUID uuid.UUID  `json:"customer_uuid"`
	DivisionUUID *uuid.UUID `json:"division_uuid,omitempty"`
	Label        string     `json:"label"`
	Street       string     `json:"street"`
	City         string     `json:"city"`
	ZipCode      string     `json:"zip_code"`
	Province     string     `json:"province"`
	Country      string     `json:"country"`
	Removed      bool       `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
