package repo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// InMemoryOfferRepository is the test double for OfferRepository. Fulfill
// needs the article and order stores to launch orders.
type InMemoryOfferRepository struct {
	offers   []models.Offer
	articles *InMemoryArticleRepository
	orders   *InMemoryOrderRepository
}

func NewInMemoryOfferRepository(articles *InMemoryArticleRepository, orders *InMemoryOrderRepository) *InMemoryOfferRepository {
	return &InMemoryOfferRepository{articles: articles, orders: orders}
}

func (r *InMemoryOfferRepository) Create(o models.Offer) (models.Offer, error) {
	o.UUID = uuid.New()
	if o.Status == "" {
		o.Status = models.OfferDraft
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	r.offers = append(r.offers, o)
	return o, nil
}

func (r *InMemoryOfferRepository) GetByUUID(id uuid.UUID) (models.Offer, error) {
	for _, o := range r.offers {
		if o.UUID == id && !o.Removed {
			return o, nil
		}
	}
	return models.Offer{}, ErrOfferNotFound
}

func (r *InMemoryOfferRepository) Update(o models.Offer) (models.Offer, error) {
	for i, existing := range r.offers {
		if existing.UUID == o.UUID && !existing.Removed {
			o.CreatedAt = existing.CreatedAt
			o.UpdatedAt = time.Now().UTC()
			r.offers[i] = o
			return o, nil
		}
	}
	return models.Offer{}, ErrOfferNotFound
}

func (r *InMemoryOfferRepository) Delete(id uuid.UUID) error {
	for i, o := range r.offers {
		if o.UUID == id && !o.Removed {
			r.offers[i].Removed = true
			return nil
		}
	}
	return ErrOfferNotFound
}

func (r *InMemoryOfferRepository) Filter(f OfferFilter) ([]models.Offer, int, error) {
	var filtered []models.Offer
	for _, o := range r.offers {
		if o.Removed {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(o.Number), needle) &&
				!strings.Contains(strings.ToLower(o.Description), needle) {
				continue
			}
		}
		if f.CustomerUUID != nil && o.CustomerUUID != *f.CustomerUUID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		filtered = append(filtered, o)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if f.Sort == "offer_date" {
			return filtered[i].OfferDate.Before(filtered[j].OfferDate)
		}
		return filtered[j].OfferDate.Before(filtered[i].OfferDate)
	})

	return paginate(filtered, f.Offset, f.Limit), len(filtered), nil
}

func (r *InMemoryOfferRepository) GetForSelect() ([]SelectOption, error) {
	var options []SelectOption
	for _, o := range r.offers {
		if !o.Removed {
			options = append(options, SelectOption{UUID: o.UUID, Label: o.Number})
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options, nil
}

func (r *InMemoryOfferRepository) Fulfill(id uuid.UUID) ([]models.Order, error) {
	var offer *models.Offer
	for i := range r.offers {
		if r.offers[i].UUID == id && !r.offers[i].Removed {
			offer = &r.offers[i]
			break
		}
	}
	if offer == nil {
		return nil, ErrOfferNotFound
	}
	if offer.Status == models.OfferFulfilled {
		return nil, ErrOfferAlreadyFulfilled
	}

	offer.Status = models.OfferFulfilled
	offer.UpdatedAt = time.Now().UTC()

	var orders []models.Order
	if r.articles != nil && r.orders != nil {
		articles, _ := r.articles.GetByOffer(id)
		for i, a := range articles {
			order, err := r.orders.Create(models.Order{
				ArticleUUID:      a.UUID,
				ProductionNumber: fmt.Sprintf("%s/%d", offer.Number, i+1),
				Quantity:         a.Quantity,
				Status:           models.OrderLaunched,
				DeliveryDate:     a.DeliveryDate,
			})
			if err != nil {
				return nil, err
			}
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (r *InMemoryOfferRepository) Clear() {
	r.offers = nil
}

func (r *InMemoryOfferRepository) all() []models.Offer {
	return r.offers
}
