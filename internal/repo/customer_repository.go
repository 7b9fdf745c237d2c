package repo

import (
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// CustomerRepository defines the data operations for customers. Delete is a
// soft delete; every read only sees active (non-removed) rows.
type CustomerRepository interface {
	Create(customer models.Customer) (models.Customer, error)
	GetByUUID(id uuid.UUID) (models.Customer, error)
	Update(customer models.Customer) (models.Customer, error)
	Delete(id uuid.UUID) error
	Filter(f CustomerFilter) ([]models.Customer, int, error)
	GetForSelect() ([]SelectOption, error)
	GetFormOptions() (FormOptions, error)
}
