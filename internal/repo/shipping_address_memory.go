package repo

import (
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type InMemoryShippingAddressRepository struct {
	addresses []models.CustomerShippingAddress
}

func NewInMemoryShippingAddressRepository() *InMemoryShippingAddressRepository {
	return &InMemoryShippingAddressRepository{}
}

func (r *InMemoryShippingAddressRepository) Create(a models.CustomerShippingAddress) (models.CustomerShippingAddress, error) {
	a.UUID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.addresses = append(r.addresses, a)
	return a, nil
}

func (r *InMemoryShippingAddressRepository) GetByUUID(id uuid.UUID) (models.CustomerShippingAddress, error) {
	for _, a := range r.addresses {
		if a.UUID == id && !a.Removed {
			return a, nil
		}
	}
	return models.CustomerShippingAddress{}, ErrShippingAddressNotFound
}

func (r *InMemoryShippingAddressRepository) GetByCustomer(customerUUID uuid.UUID) ([]models.CustomerShippingAddress, error) {
	var out []models.CustomerShippingAddress
	for _, a := range r.addresses {
		if a.CustomerUUID == customerUUID && !a.Removed {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *InMemoryShippingAddressRepository) Update(a models.CustomerShippingAddress) (models.CustomerShippingAddress, error) {
	for i, existing := range r.addresses {
		if existing.UUID == a.UUID && !existing.Removed {
			a.CreatedAt = existing.CreatedAt
			a.UpdatedAt = time.Now().UTC()
			r.addresses[i] = a
			return a, nil
		}
	}
	return models.CustomerShippingAddress{}, ErrShippingAddressNotFound
}

func (r *InMemoryShippingAddressRepository) Delete(id uuid.UUID) error {
	for i, a := range r.addresses {
		if a.UUID == id && !a.Removed {
			r.addresses[i].Removed = true
			return nil
		}
	}
	return ErrShippingAddressNotFound
}

func (r *InMemoryShippingAddressRepository) Clear() {
	r.addresses = nil
}
