package repo

import (
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// OfferRepository manages offers. Fulfill marks the offer fulfilled and
// launches one production order per active article of the offer, in a single
// transaction.
type OfferRepository interface {
	Create(offer models.Offer) (models.Offer, error)
	GetByUUID(id uuid.UUID) (models.Offer, error)
	Update(offer models.Offer) (models.Offer, error)
	Delete(id uuid.UUID) error
	Filter(f OfferFilter) ([]models.Offer, int, error)
	GetForSelect() ([]SelectOption, error)
	Fulfill(id uuid.UUID) ([]models.Order, error)
}
