package repo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// InMemoryOrderRepository mirrors the Postgres implementation for tests.
// The mutex stands in for the row lock the SQL implementation takes.
type InMemoryOrderRepository struct {
	mu       sync.Mutex
	orders   []models.Order
	articles *InMemoryArticleRepository
	offers   *InMemoryOfferRepository
}

func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{}
}

// LinkCatalog enables customer scoping in Filter, which walks
// order -> article -> offer.
func (r *InMemoryOrderRepository) LinkCatalog(articles *InMemoryArticleRepository, offers *InMemoryOfferRepository) {
	r.articles = articles
	r.offers = offers
}

func (r *InMemoryOrderRepository) Create(o models.Order) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.UUID = uuid.New()
	if o.Status == 0 {
		o.Status = models.OrderLaunched
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryOrderRepository) GetByUUID(id uuid.UUID) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

func (r *InMemoryOrderRepository) getLocked(id uuid.UUID) (models.Order, error) {
	for _, o := range r.orders {
		if o.UUID == id && !o.Removed {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) GetByProductionNumber(number string) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ProductionNumber == number && !o.Removed {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) Update(o models.Order) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.orders {
		if existing.UUID == o.UUID && !existing.Removed {
			o.CreatedAt = existing.CreatedAt
			o.UpdatedAt = time.Now().UTC()
			r.orders[i] = o
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.UUID == id && !o.Removed {
			r.orders[i].Removed = true
			return nil
		}
	}
	return ErrOrderNotFound
}

func (r *InMemoryOrderRepository) customerOf(o models.Order) (uuid.UUID, bool) {
	if r.articles == nil || r.offers == nil {
		return uuid.UUID{}, false
	}
	article, err := r.articles.GetByUUID(o.ArticleUUID)
	if err != nil {
		return uuid.UUID{}, false
	}
	offer, err := r.offers.GetByUUID(article.OfferUUID)
	if err != nil {
		return uuid.UUID{}, false
	}
	return offer.CustomerUUID, true
}

func (r *InMemoryOrderRepository) matches(o models.Order, f OrderFilter) bool {
	if o.Removed {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(o.ProductionNumber), strings.ToLower(f.Search)) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && o.CreatedAt.After(*f.To) {
		return false
	}
	if f.CustomerUUID != nil {
		customer, ok := r.customerOf(o)
		if !ok || customer != *f.CustomerUUID {
			return false
		}
	}
	return true
}

func (r *InMemoryOrderRepository) Filter(f OrderFilter) ([]models.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Order
	for _, o := range r.orders {
		if r.matches(o, f) {
			filtered = append(filtered, o)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if f.Sort == "delivery_date" {
			return filtered[i].DeliveryDate.Before(filtered[j].DeliveryDate)
		}
		return filtered[j].CreatedAt.Before(filtered[i].CreatedAt)
	})

	return paginate(filtered, f.Offset, f.Limit), len(filtered), nil
}

func (r *InMemoryOrderRepository) AddWorkedQuantity(id uuid.UUID, delta int) (models.Order, int, error) {
	if delta <= 0 {
		return models.Order{}, 0, fmt.Errorf("delta must be positive, got %d", delta)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.UUID != id || o.Removed {
			continue
		}
		if o.Status == models.OrderSuspended {
			return models.Order{}, 0, ErrOrderSuspended
		}
		if o.Status.Terminal() {
			return models.Order{}, 0, ErrOrderTerminal
		}

		applied := delta
		if remaining := o.RemainingQuantity(); applied > remaining {
			applied = remaining
		}

		now := time.Now().UTC()
		o.WorkedQuantity += applied
		o.UpdatedAt = now
		switch {
		case o.WorkedQuantity >= o.Quantity:
			o.Status = models.OrderCompleted
			o.CompletedAt = &now
		case o.Status == models.OrderLaunched:
			o.Status = models.OrderInProgress
		}

		r.orders[i] = o
		return o, applied, nil
	}
	return models.Order{}, 0, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) Suspend(id uuid.UUID) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.UUID != id || o.Removed {
			continue
		}
		if o.Status == models.OrderSuspended {
			return models.Order{}, ErrOrderSuspended
		}
		if o.Status.Terminal() {
			return models.Order{}, ErrOrderTerminal
		}
		o.Status = models.OrderSuspended
		o.UpdatedAt = time.Now().UTC()
		r.orders[i] = o
		return o, nil
	}
	return models.Order{}, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) ConfirmAutocontrollo(id uuid.UUID) (models.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.UUID != id || o.Removed {
			continue
		}
		if o.Autocontrollo {
			return o, true, nil
		}
		o.Autocontrollo = true
		o.UpdatedAt = time.Now().UTC()
		r.orders[i] = o
		return o, false, nil
	}
	return models.Order{}, false, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) Clear() {
	r.mu.Lock()
	r.orders = nil
	r.mu.Unlock()
}

func (r *InMemoryOrderRepository) all() []models.Order {
	return r.orders
}

// Seed inserts an order as-is, keeping the provided UUID and timestamps.
// Tests use it to build fixed datasets.
func (r *InMemoryOrderRepository) Seed(o models.Order) models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.UUID == (uuid.UUID{}) {
		o.UUID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	r.orders = append(r.orders, o)
	return o
}
