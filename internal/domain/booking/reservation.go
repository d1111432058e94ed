package booking

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a booking. The wire values keep
// the Spanish labels the site has always exposed to its frontend.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDIENTE"
	ReservationContacted ReservationStatus = "CONTACTADO"
	ReservationConfirmed ReservationStatus = "CONFIRMADO"
	ReservationCancelled ReservationStatus = "CANCELADO"
)

// Valid reports whether s is one of the known reservation statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationContacted, ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// Reservation is the canonical booking record for one party's trip. It can be
// created directly (public booking form) or alongside a cart item. The public
// code lets an unauthenticated customer look the reservation up later; it is
// generated once and never changes.
type Reservation struct {
	ID          string            `json:"id"`
	PackageID   string            `json:"package_id"`
	FullName    string            `json:"full_name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone,omitempty"`
	Nationality string            `json:"nationality,omitempty"`
	TravelDate  *time.Time        `json:"travel_date,omitempty"`
	Adults      int               `json:"adults"`
	Children    int               `json:"children"`
	Notes       string            `json:"notes,omitempty"`
	Status      ReservationStatus `json:"status"`
	TotalAmount *decimal.Decimal  `json:"total_amount,omitempty"`
	Currency    string            `json:"currency"`
	PublicCode  string            `json:"public_code"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// publicCodeBytes yields a 16-character hex code, the same shape the site has
// always printed on booking confirmations.
const publicCodeBytes = 8

// NewPublicCode generates a random reservation lookup code. Uniqueness is
// additionally enforced by the database constraint; at 64 bits of entropy a
// collision is not a practical concern.
func NewPublicCode() (string, error) {
	var buf [publicCodeBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	return hex.EncodeToString(buf[:]), nil
}
