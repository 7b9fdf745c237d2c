package repo

import "errors"

var (
	ErrCustomerNotFound        = errors.New("customer not found")
	ErrDivisionNotFound        = errors.New("customer division not found")
	ErrShippingAddressNotFound = errors.New("shipping address not found")
	ErrOfferNotFound           = errors.New("offer not found")
	ErrArticleNotFound         = errors.New("article not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrEmployeeNotFound        = errors.New("employee not found")

	// Business-rule violations surfaced by the order mutations.
	ErrOrderSuspended       = errors.New("order is suspended")
	ErrOrderTerminal        = errors.New("order is completed or evaded")
	ErrOfferAlreadyFulfilled = errors.New("offer already fulfilled")

	ErrDuplicatedValueUnique = errors.New("duplicated value for unique column")
)
