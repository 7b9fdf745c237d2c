package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus int

const (
	OrderLaunched   OrderStatus = 2
	OrderInProgress OrderStatus = 3
	OrderSuspended  OrderStatus = 4
	OrderCompleted  OrderStatus = 5
	OrderEvaded     OrderStatus = 6
)

// OrderStatuses returns the full status enumeration in display order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderLaunched, OrderInProgress, OrderSuspended, OrderCompleted, OrderEvaded}
}

func (s OrderStatus) Label() string {
	switch s {
	case OrderLaunched:
		return "launched"
	case OrderInProgress:
		return "in_progress"
	case OrderSuspended:
		return "suspended"
	case OrderCompleted:
		return "completed"
	case OrderEvaded:
		return "evaded"
	}
	return "unknown"
}

// Terminal reports whether the status is outside the production portal's
// reach.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderEvaded
}

// Order is a production order against an article.
type Order struct {
	UUID             uuid.UUID   `json:"uuid"`
	ArticleUUID      uuid.UUID   `json:"article_uuid"`
	ProductionNumber string      `json:"production_number"`
	Quantity         int         `json:"quantity"`
	WorkedQuantity   int         `json:"worked_quantity"`
	Status           OrderStatus `json:"status"`
	Autocontrollo    bool        `json:"autocontrollo"`
	DeliveryDate     time.Time   `json:"delivery_date"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	Removed          bool        `json:"-"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// RemainingQuantity is always quantity - worked_quantity; the increment
// actions keep it from going negative.
func (o Order) RemainingQuantity() int {
	return o.Quantity - o.WorkedQuantity
}
