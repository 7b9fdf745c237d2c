package repo

import (
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// SelectOption is a uuid/label pair for dropdowns and filter widgets.
type SelectOption struct {
	UUID  uuid.UUID `json:"uuid"`
	Label string    `json:"label"`
}

// FormOptions bundles the lookup lists the customer forms need; it is the
// unit of caching under cache.KeyCustomerFormOptions.
type FormOptions struct {
	Customers         []SelectOption                   `json:"customers"`
	Divisions         []models.CustomerDivision        `json:"divisions"`
	ShippingAddresses []models.CustomerShippingAddress `json:"shipping_addresses"`
}

type CustomerFilter struct {
	Search string
	Sort   string
	Offset *int
	Limit  *int
}

type OfferFilter struct {
	Search       string
	CustomerUUID *uuid.UUID
	Status       *models.OfferStatus
	Sort         string
	Offset       *int
	Limit        *int
}

type ArticleFilter struct {
	Search    string
	OfferUUID *uuid.UUID
	Sort      string
	Offset    *int
	Limit     *int
}

type OrderFilter struct {
	Search       string
	Statuses     []models.OrderStatus
	CustomerUUID *uuid.UUID
	From         *time.Time
	To           *time.Time
	Sort         string
	Offset       *int
	Limit        *int
}

type EmployeeFilter struct {
	Search string
	Offset *int
	Limit  *int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func paginate[T any](rows []T, offset, limit *int) []T {
	if offset != nil && *offset > len(rows) {
		return []T{}
	}

	start := 0
	if offset != nil {
		start = clamp(*offset, 0, len(rows))
	}

	end := len(rows)
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, len(rows))
	}

	return rows[start:end]
}
