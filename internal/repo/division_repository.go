package repo

import (
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// DivisionRepository manages customer divisions. GetByCustomer is memoized
// per parent customer UUID.
type DivisionRepository interface {
	Create(division models.CustomerDivision) (models.CustomerDivision, error)
	GetByUUID(id uuid.UUID) (models.CustomerDivision, error)
	GetByCustomer(customerUUID uuid.UUID) ([]models.CustomerDivision, error)
	Update(division models.CustomerDivision) (models.CustomerDivision, error)
	Delete(id uuid.UUID) error
}
