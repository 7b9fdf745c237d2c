package repo

import (
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

type ShippingAddressRepository interface {
	Create(address models.CustomerShippingAddress) (models.CustomerShippingAddress, error)
	GetByUUID(id uuid.UUID) (models.CustomerShippingAddress, error)
	GetByCustomer(customerUUID uuid.UUID) ([]models.CustomerShippingAddress, error)
	Update(address models.CustomerShippingAddress) (models.CustomerShippingAddress, error)
	Delete(id uuid.UUID) error
}
