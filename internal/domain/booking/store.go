package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PackageInfo is the slice of the catalog a cart operation needs: current
// price and currency, captured into the cart item at add-time.
type PackageInfo struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Currency string
}

// PackageSource resolves packages for pricing. Implemented by the catalog
// repository; returns ErrPackageNotFound for unknown IDs.
type PackageSource interface {
	PackageInfo(ctx context.Context, id string) (*PackageInfo, error)
}

// CartTx exposes the records reachable from one cart inside a transaction
// that holds the cart's row lock. All writes are part of that transaction and
// apply atomically or not at all.
type CartTx interface {
	// Cart returns the locked cart row as read at transaction start.
	Cart() *Cart

	Items(ctx context.Context) ([]CartItem, error)
	Item(ctx context.Context, itemID string) (*CartItem, error)
	InsertItem(ctx context.Context, item *CartItem) error
	DeleteItem(ctx context.Context, itemID string) error

	Reservation(ctx context.Context, id string) (*Reservation, error)
	InsertReservation(ctx context.Context, r *Reservation) error
	SetReservationStatus(ctx context.Context, id string, status ReservationStatus) error
	// ConfirmReservation sets status CONFIRMADO and fixes the total.
	ConfirmReservation(ctx context.Context, id string, total decimal.Decimal, currency string) error
	// CancelPendingReservations cancels every still-PENDING reservation
	// attached to this cart's items.
	CancelPendingReservations(ctx context.Context) error

	SetCartStatus(ctx context.Context, status CartStatus) error
	InsertPayment(ctx context.Context, p *Payment) error
}

// Store is the persistence boundary for carts, reservations and payments.
type Store interface {
	CreateCart(ctx context.Context, c *Cart) error
	// LatestCartByEmail returns the most recently created cart for the email,
	// matched case-insensitively, or ErrCartNotFound.
	LatestCartByEmail(ctx context.Context, email string) (*Cart, error)
	CartItems(ctx context.Context, cartID string) ([]CartItem, error)

	// WithCart runs fn inside a transaction holding the row lock of the given
	// cart (SELECT ... FOR UPDATE), so the check-status -> check-expiry ->
	// mutate sequence is atomic with respect to concurrent mutations of the
	// same cart. It returns ErrCartNotFound when the cart does not exist.
	//
	// The transaction commits when fn returns nil, and also when fn returns
	// ErrCartExpired: the lazy expiry transition must survive even though the
	// operation itself fails. Any other error rolls back.
	WithCart(ctx context.Context, cartID string, fn func(ctx context.Context, tx CartTx) error) error

	// Direct reservation path and admin management.
	CreateReservation(ctx context.Context, r *Reservation) error
	ReservationsByEmail(ctx context.Context, email, phoneFilter string) ([]Reservation, error)
	ReservationByPublicCode(ctx context.Context, code string) (*Reservation, error)
	ListReservations(ctx context.Context, status ReservationStatus) ([]Reservation, error)
	GetReservation(ctx context.Context, id string) (*Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, status ReservationStatus) error
	DeleteReservation(ctx context.Context, id string) error
	// PublicCodes streams every issued public code; used to warm the lookup
	// code filter at startup.
	PublicCodes(ctx context.Context) ([]string, error)

	// Reservation statistics for the admin dashboard.
	CountReservations(ctx context.Context) (int64, error)
	ReservationStatusCounts(ctx context.Context) (map[ReservationStatus]int64, error)
	// ConfirmedRevenue sums total_amount over CONFIRMADO and CONTACTADO
	// reservations.
	ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error)
}

// clock is the injected time source; tests replace it.
type clock func() time.Time
