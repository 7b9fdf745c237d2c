package repo

import (
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// EmployeeRepository resolves production-floor employees for the portal:
// by matriculation number for credential login, by EAN code for scans.
type EmployeeRepository interface {
	Create(employee models.Employee) (models.Employee, error)
	GetByUUID(id uuid.UUID) (models.Employee, error)
	GetByMatriculation(number string) (models.Employee, error)
	GetByEANCode(code string) (models.Employee, error)
	Filter(f EmployeeFilter) ([]models.Employee, int, error)
	Update(employee models.Employee) (models.Employee, error)
	Delete(id uuid.UUID) error
}
