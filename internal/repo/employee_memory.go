package repo

import (
	"sort"
	"strings"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type InMemoryEmployeeRepository struct {
	employees []models.Employee
}

func NewInMemoryEmployeeRepository() *InMemoryEmployeeRepository {
	return &InMemoryEmployeeRepository{}
}

func (r *InMemoryEmployeeRepository) Create(e models.Employee) (models.Employee, error) {
	for _, existing := range r.employees {
		if !existing.Removed && (existing.MatriculationNumber == e.MatriculationNumber || existing.EANCode == e.EANCode) {
			return models.Employee{}, ErrDuplicatedValueUnique
		}
	}
	e.UUID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	r.employees = append(r.employees, e)
	return e, nil
}

func (r *InMemoryEmployeeRepository) GetByUUID(id uuid.UUID) (models.Employee, error) {
	for _, e := range r.employees {
		if e.UUID == id && !e.Removed {
			return e, nil
		}
	}
	return models.Employee{}, ErrEmployeeNotFound
}

func (r *InMemoryEmployeeRepository) GetByMatriculation(number string) (models.Employee, error) {
	for _, e := range r.employees {
		if e.MatriculationNumber == number && !e.Removed {
			return e, nil
		}
	}
	return models.Employee{}, ErrEmployeeNotFound
}

func (r *InMemoryEmployeeRepository) GetByEANCode(code string) (models.Employee, error) {
	for _, e := range r.employees {
		if e.EANCode == code && !e.Removed {
			return e, nil
		}
	}
	return models.Employee{}, ErrEmployeeNotFound
}

func (r *InMemoryEmployeeRepository) Filter(f EmployeeFilter) ([]models.Employee, int, error) {
	var filtered []models.Employee
	for _, e := range r.employees {
		if e.Removed {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(e.MatriculationNumber), needle) &&
				!strings.Contains(strings.ToLower(e.FirstName), needle) &&
				!strings.Contains(strings.ToLower(e.LastName), needle) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].LastName != filtered[j].LastName {
			return filtered[i].LastName < filtered[j].LastName
		}
		return filtered[i].FirstName < filtered[j].FirstName
	})

	return paginate(filtered, f.Offset, f.Limit), len(filtered), nil
}

func (r *InMemoryEmployeeRepository) Update(e models.Employee) (models.Employee, error) {
	for i, existing := range r.employees {
		if existing.UUID == e.UUID && !existing.Removed {
			e.CreatedAt = existing.CreatedAt
			e.UpdatedAt = time.Now().UTC()
			r.employees[i] = e
			return e, nil
		}
	}
	return models.Employee{}, ErrEmployeeNotFound
}

func (r *InMemoryEmployeeRepository) Delete(id uuid.UUID) error {
	for i, e := range r.employees {
		if e.UUID == id && !e.Removed {
			r.employees[i].Removed = true
			return nil
		}
	}
	return ErrEmployeeNotFound
}

func (r *InMemoryEmployeeRepository) Clear() {
	r.employees = nil
}
