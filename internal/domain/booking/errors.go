package booking

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors surfaced by cart and reservation operations. All of them are
// detected before any mutation commits; only a code collision is retried.
var (
	// ErrCartNotFound is returned when the referenced cart does not exist.
	ErrCartNotFound = errors.New("cart not found")

	// ErrItemNotFound is returned when an item does not belong to the given cart.
	ErrItemNotFound = errors.New("cart item not found")

	// ErrReservationNotFound is returned when no reservation matches the lookup.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrPackageNotFound is returned when the referenced package does not exist.
	ErrPackageNotFound = errors.New("package not found")

	// ErrCartNotOpen is returned for mutations on a PAID or already-EXPIRED cart.
	ErrCartNotOpen = errors.New("cart is not open")

	// ErrCartExpired is returned when the lazy expiry check trips. By the time
	// the caller sees this error the EXPIRED transition and the cascade
	// cancellation of pending reservations have already been persisted: the
	// storage layer commits the surrounding transaction for this error.
	ErrCartExpired = errors.New("cart has expired")

	// ErrCartEmpty is returned when payment is attempted on a cart with no items.
	ErrCartEmpty = errors.New("cart has no items")

	// ErrCurrencyMismatch is returned when an added package's currency differs
	// from the currency of the items already in the cart. Mixed-currency carts
	// are disallowed; there is no defined way to total them.
	ErrCurrencyMismatch = errors.New("package currency differs from cart currency")

	// ErrCodeCollision is reported by the store when a reservation insert hits
	// the public code unique index. The service regenerates the code and
	// retries once before giving up.
	ErrCodeCollision = errors.New("public code already issued")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}
