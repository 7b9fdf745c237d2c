package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a production-floor actor. It authenticates at the portal by
// matriculation number + password or by its scannable EAN code.
type Employee struct {
	UUID                uuid.UUID `json:"uuid"`
	MatriculationNumber string    `json:"matriculation_number"`
	EANCode             string    `json:"ean_code"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	PasswordHash        string    `json:"-"`
	Active              bool      `json:"active"`
	Removed             bool      `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
