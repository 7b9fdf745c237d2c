package repo

import (
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type InMemoryDivisionRepository struct {
	divisions []models.CustomerDivision
}

func NewInMemoryDivisionRepository() *InMemoryDivisionRepository {
	return &InMemoryDivisionRepository{}
}

func (r *InMemoryDivisionRepository) Create(d models.CustomerDivision) (models.CustomerDivision, error) {
	d.UUID = uuid.New()
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	r.divisions = append(r.divisions, d)
	return d, nil
}

func (r *InMemoryDivisionRepository) GetByUUID(id uuid.UUID) (models.CustomerDivision, error) {
	for _, d := range r.divisions {
		if d.UUID == id && !d.Removed {
			return d, nil
		}
	}
	return models.CustomerDivision{}, ErrDivisionNotFound
}

func (r *InMemoryDivisionRepository) GetByCustomer(customerUUID uuid.UUID) ([]models.CustomerDivision, error) {
	var out []models.CustomerDivision
	for _, d := range r.divisions {
		if d.CustomerUUID == customerUUID && !d.Removed {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *InMemoryDivisionRepository) Update(d models.CustomerDivision) (models.CustomerDivision, error) {
	for i, existing := range r.divisions {
		if existing.UUID == d.UUID && !existing.Removed {
			d.CreatedAt = existing.CreatedAt
			d.UpdatedAt = time.Now().UTC()
			r.divisions[i] = d
			return d, nil
		}
	}
	return models.CustomerDivision{}, ErrDivisionNotFound
}

func (r *InMemoryDivisionRepository) Delete(id uuid.UUID) error {
	for i, d := range r.divisions {
		if d.UUID == id && !d.Removed {
			r.divisions[i].Removed = true
			return nil
		}
	}
	return ErrDivisionNotFound
}

func (r *InMemoryDivisionRepository) Clear() {
	r.divisions = nil
}
