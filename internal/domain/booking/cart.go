package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartStatus is the lifecycle state of a cart. Transitions only move
// OPEN -> EXPIRED or OPEN -> PAID; both are terminal.
type CartStatus string

const (
	CartOpen    CartStatus = "OPEN"
	CartExpired CartStatus = "EXPIRED"
	CartPaid    CartStatus = "PAID"
)

// Cart is a customer's in-progress or settled order. Contact fields double as
// defaults for reservations created through the cart.
type Cart struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
	Status      CartStatus `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EffectiveStatus returns the status the cart must be treated as at the given
// instant. A stored OPEN status whose expiry deadline has passed reads as
// EXPIRED even though the row has not been updated yet; callers performing
// mutations persist the transition before acting.
func EffectiveStatus(c *Cart, now time.Time) CartStatus {
	if c.Status == CartOpen && now.After(c.ExpiresAt) {
		return CartExpired
	}
	return c.Status
}

// CartItem is one booked package occurrence within a cart. The unit price and
// currency are copied from the package at add-time so later catalog price
// changes never affect an open cart. Every item owns exactly one reservation.
type CartItem struct {
	ID            string          `json:"id"`
	CartID        string          `json:"cart_id"`
	PackageID     string          `json:"package_id"`
	ReservationID string          `json:"reservation_id"`
	TravelDate    *time.Time      `json:"travel_date,omitempty"`
	Adults        int             `json:"adults"`
	Children      int             `json:"children"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LineTotal is unit_price x (adults + children).
func (i *CartItem) LineTotal() decimal.Decimal {
	party := decimal.NewFromInt(int64(i.Adults + i.Children))
	return i.UnitPrice.Mul(party)
}

// Payment is the settlement record for a paid cart. The provider is always
// the simulation and the status always APPROVED; there is no gateway.
type Payment struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cart_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Provider  string          `json:"provider"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}

const (
	PaymentProviderSimulated = "SIMULATED"
	PaymentStatusApproved    = "APPROVED"
)
