package repo

import (
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

// OrderRepository manages production orders.
//
// AddWorkedQuantity applies a positive increment under a row lock so two
// portal sessions working the same order cannot lose an update. The applied
// delta is clamped so worked_quantity never exceeds quantity; reaching
// quantity completes the order. It returns the updated order and the delta
// actually applied, or ErrOrderSuspended / ErrOrderTerminal when the order
// cannot be worked.
//
// ConfirmAutocontrollo is an idempotent no-op on an already confirmed order;
// the bool result reports whether the flag was already set.
type OrderRepository interface {
	Create(order models.Order) (models.Order, error)
	GetByUUID(id uuid.UUID) (models.Order, error)
	GetByProductionNumber(number string) (models.Order, error)
	Update(order models.Order) (models.Order, error)
	Delete(id uuid.UUID) error
	Filter(f OrderFilter) ([]models.Order, int, error)
	AddWorkedQuantity(id uuid.UUID, delta int) (models.Order, int, error)
	Suspend(id uuid.UUID) (models.Order, error)
	ConfirmAutocontrollo(id uuid.UUID) (models.Order, bool, error)
}
