package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Article is a catalog item produced under an offer. Quantity is the
// contracted amount; the packaging plan (pieces per package, packages per
// pallet) determines the pallet increment used by the production portal.
type Article struct {
	UUID              uuid.UUID       `json:"uuid"`
	OfferUUID         uuid.UUID       `json:"offer_uuid"`
	Code              string          `json:"code"`
	EANCode           string          `json:"ean_code"`
	Description       string          `json:"description"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Quantity          int             `json:"quantity"`
	PiecesPerPackage  int             `json:"pieces_per_package"`
	PackagesPerPallet int             `json:"packages_per_pallet"`
	DeliveryDate      time.Time       `json:"delivery_date"`
	Removed           bool            `json:"-"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PalletIncrement is the number of pieces a full pallet adds to an order's
// worked quantity.
func (a Article) PalletIncrement() int {
	inc := a.PiecesPerPackage * a.PackagesPerPallet
	if inc <= 0 {
		return 1
	}
	return inc
}
