package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	OfferDraft     OfferStatus = "draft"
	OfferSent      OfferStatus = "sent"
	OfferAccepted  OfferStatus = "accepted"
	OfferFulfilled OfferStatus = "fulfilled"
	OfferRejected  OfferStatus = "rejected"
)

// Offer is a commercial proposal; fulfilling it launches a production
// order for each of its articles.
type Offer struct {
	UUID         uuid.UUID       `json:"uuid"`
	CustomerUUID uuid.UUID       `json:"customer_uuid"`
	DivisionUUID *uuid.UUID      `json:"division_uuid,omitempty"`
	Number       string          `json:"number"`
	Description  string          `json:"description"`
	Status       OfferStatus     `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	OfferDate    time.Time       `json:"offer_date"`
	Removed      bool            `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
