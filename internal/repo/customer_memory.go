package repo

import (
	"sort"
	"strings"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// InMemoryCustomerRepository is an in-memory implementation of
// CustomerRepository used in tests.
type InMemoryCustomerRepository struct {
	customers []models.Customer
	divisions *InMemoryDivisionRepository
	addresses *InMemoryShippingAddressRepository
}

func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{}
}

// LinkChildren lets GetFormOptions see the division and shipping-address
// stores; both may stay nil when a test only needs customers.
func (r *InMemoryCustomerRepository) LinkChildren(divisions *InMemoryDivisionRepository, addresses *InMemoryShippingAddressRepository) {
	r.divisions = divisions
	r.addresses = addresses
}

func (r *InMemoryCustomerRepository) Create(c models.Customer) (models.Customer, error) {
	c.UUID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.customers = append(r.customers, c)
	return c, nil
}

func (r *InMemoryCustomerRepository) GetByUUID(id uuid.UUID) (models.Customer, error) {
	for _, c := range r.customers {
		if c.UUID == id && !c.Removed {
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Update(c models.Customer) (models.Customer, error) {
	for i, existing := range r.customers {
		if existing.UUID == c.UUID && !existing.Removed {
			c.CreatedAt = existing.CreatedAt
			c.UpdatedAt = time.Now().UTC()
			r.customers[i] = c
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Delete(id uuid.UUID) error {
	for i, c := range r.customers {
		if c.UUID == id && !c.Removed {
			r.customers[i].Removed = true
			return nil
		}
	}
	return ErrCustomerNotFound
}

func matchesCustomerFilter(c models.Customer, f CustomerFilter) bool {
	if c.Removed {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(c.CompanyName), needle) ||
		strings.Contains(strings.ToLower(c.VATNumber), needle) ||
		strings.Contains(strings.ToLower(c.Email), needle)
}

func (r *InMemoryCustomerRepository) Filter(f CustomerFilter) ([]models.Customer, int, error) {
	var filtered []models.Customer
	for _, c := range r.customers {
		if matchesCustomerFilter(c, f) {
			filtered = append(filtered, c)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		switch f.Sort {
		case "created_at":
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		case "-created_at":
			return filtered[j].CreatedAt.Before(filtered[i].CreatedAt)
		case "-company_name":
			return filtered[j].CompanyName < filtered[i].CompanyName
		default:
			return filtered[i].CompanyName < filtered[j].CompanyName
		}
	})

	return paginate(filtered, f.Offset, f.Limit), len(filtered), nil
}

func (r *InMemoryCustomerRepository) GetForSelect() ([]SelectOption, error) {
	var options []SelectOption
	for _, c := range r.customers {
		if !c.Removed {
			options = append(options, SelectOption{UUID: c.UUID, Label: c.CompanyName})
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options, nil
}

func (r *InMemoryCustomerRepository) GetFormOptions() (FormOptions, error) {
	opts := FormOptions{}

	customers, err := r.GetForSelect()
	if err != nil {
		return FormOptions{}, err
	}
	opts.Customers = customers

	if r.divisions != nil {
		for _, d := range r.divisions.divisions {
			if !d.Removed {
				opts.Divisions = append(opts.Divisions, d)
			}
		}
	}
	if r.addresses != nil {
		for _, a := range r.addresses.addresses {
			if !a.Removed {
				opts.ShippingAddresses = append(opts.ShippingAddresses, a)
			}
		}
	}
	return opts, nil
}

func (r *InMemoryCustomerRepository) Clear() {
	r.customers = nil
}

func (r *InMemoryCustomerRepository) all() []models.Customer {
	return r.customers
}
