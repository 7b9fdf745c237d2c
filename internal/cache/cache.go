package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL bounds how stale a memoized lookup list can get even if an
// invalidation call is missed.
const DefaultTTL = 10 * time.Minute

// Store is a key/value cache for reference data. Values are JSON-encoded;
// Get reports whether the key was present.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Fixed keys for the memoized lookup lists.
const (
	KeyCustomersSelect         = "select:customers"
	KeyOffersSelect            = "select:offers"
	KeyArticlesSelect          = "select:articles"
	KeyCustomerFormOptions     = "form-options:customers"
	keyDivisionsByCustomer     = "divisions:customer:%s"
	keyAddressesByCustomer     = "shipping-addresses:customer:%s"
	keyRevokedToken            = "portal:revoked:%s"
)

func KeyDivisionsByCustomer(customerUUID uuid.UUID) string {
	return fmt.Sprintf(keyDivisionsByCustomer, customerUUID)
}

func KeyAddressesByCustomer(customerUUID uuid.UUID) string {
	return fmt.Sprintf(keyAddressesByCustomer, customerUUID)
}

func KeyRevokedToken(tokenID string) string {
	return fmt.Sprintf(keyRevokedToken, tokenID)
}
