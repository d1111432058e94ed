package booking

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCartTTL is how long a new cart stays OPEN before the lazy expiry
// check treats it as EXPIRED.
const DefaultCartTTL = 48 * time.Hour

// Config holds the service's tunables.
type Config struct {
	// CartTTL is the expiry window applied to new carts. Zero means
	// DefaultCartTTL.
	CartTTL time.Duration
}

// Service owns the cart -> item -> reservation -> payment sequence and its
// status transitions, plus the direct reservation path.
type Service struct {
	store    Store
	packages PackageSource
	codes    *CodeFilter
	cartTTL  time.Duration

	now     clock
	newCode func() (string, error)
}

// NewService creates the booking service. The code filter may be nil; lookup
// by public code then always hits the store.
func NewService(store Store, packages PackageSource, codes *CodeFilter, cfg Config) *Service {
	ttl := cfg.CartTTL
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &Service{
		store:    store,
		packages: packages,
		codes:    codes,
		cartTTL:  ttl,
		now:      time.Now,
		newCode:  NewPublicCode,
	}
}

// CreateCartInput holds the contact details for a new cart.
type CreateCartInput struct {
	Email       string
	Phone       string
	Nationality string
}

// CreateCart opens an empty cart with expiry = now + TTL.
func (s *Service) CreateCart(ctx context.Context, in CreateCartInput) (*Cart, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, missingField("email")
	}

	now := s.now()
	cart := &Cart{
		ID:          uuid.New().String(),
		Email:       strings.ToLower(email),
		Phone:       strings.TrimSpace(in.Phone),
		Nationality: strings.TrimSpace(in.Nationality),
		Status:      CartOpen,
		ExpiresAt:   now.Add(s.cartTTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateCart(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return cart, nil
}

// LookupCart returns the most recently created cart for the email together
// with its items. The cart is expiry-checked first: a stale OPEN cart is
// transitioned to EXPIRED (cascading cancellation of pending reservations)
// before being returned. Reading never fails with a state error; the caller
// sees the settled status.
func (s *Service) LookupCart(ctx context.Context, email string) (*Cart, []CartItem, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil, missingField("email")
	}

	cart, err := s.store.LatestCartByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, nil, err
	}

	if cart.Status == CartOpen && EffectiveStatus(cart, s.now()) == CartExpired {
		err := s.store.WithCart(ctx, cart.ID, func(ctx context.Context, tx CartTx) error {
			return s.requireOpen(ctx, tx)
		})
		if err != nil && !errors.Is(err, ErrCartExpired) {
			return nil, nil, errors.Wrap(err, "expire cart")
		}
		cart.Status = CartExpired
	}

	items, err := s.store.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load cart items")
	}
	return cart, items, nil
}

// AddItemInput holds the request to book a package into a cart. Contact
// fields left empty fall back to the cart's stored contact details.
type AddItemInput struct {
	CartID      string
	PackageID   string
	FullName    string
	Email       string
	Phone       string
	Nationality string
	TravelDate  *time.Time
	Adults      int
	Children    int
	Notes       string
}

// AddItem books a package into an OPEN cart: one new PENDING reservation and
// one new cart item referencing it, created atomically. The item's unit price
// and currency are copied from the package's current values.
func (s *Service) AddItem(ctx context.Context, in AddItemInput) (*CartItem, *Reservation, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, nil, missingField("full_name")
	}
	if in.Adults == 0 {
		in.Adults = 1
	}
	if in.Adults < 0 || in.Children < 0 {
		return nil, nil, &ValidationError{Field: "adults", Reason: "party counts must not be negative"}
	}

	// Package pricing is immutable for the cart's purposes, so the lookup can
	// happen before the cart lock is taken.
	pkg, err := s.packages.PackageInfo(ctx, in.PackageID)
	if err != nil {
		return nil, nil, err
	}

	// A fresh code can collide with one issued earlier; the unique index
	// reports it and one retry with a new code resolves it.
	for attempt := 0; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, nil, errors.Wrap(err, "generate public code")
		}

		var (
			item *CartItem
			res  *Reservation
		)
		err = s.store.WithCart(ctx, in.CartID, func(ctx context.Context, tx CartTx) error {
			if err := s.requireOpen(ctx, tx); err != nil {
				return err
			}

			existing, err := tx.Items(ctx)
			if err != nil {
				return errors.Wrap(err, "load items")
			}
			for i := range existing {
				if existing[i].Currency != pkg.Currency {
					return ErrCurrencyMismatch
				}
			}

			cart := tx.Cart()
			now := s.now()
			res = &Reservation{
				ID:          uuid.New().String(),
				PackageID:   pkg.ID,
				FullName:    strings.TrimSpace(in.FullName),
				Email:       fallback(in.Email, cart.Email),
				Phone:       fallback(in.Phone, cart.Phone),
				Nationality: fallback(in.Nationality, cart.Nationality),
				TravelDate:  in.TravelDate,
				Adults:      in.Adults,
				Children:    in.Children,
				Notes:       strings.TrimSpace(in.Notes),
				Status:      ReservationPending,
				Currency:    pkg.Currency,
				PublicCode:  code,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.InsertReservation(ctx, res); err != nil {
				return errors.Wrap(err, "insert reservation")
			}

			item = &CartItem{
				ID:            uuid.New().String(),
				CartID:        cart.ID,
				PackageID:     pkg.ID,
				ReservationID: res.ID,
				TravelDate:    in.TravelDate,
				Adults:        in.Adults,
				Children:      in.Children,
				UnitPrice:     pkg.Price,
				Currency:      pkg.Currency,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.InsertItem(ctx, item); err != nil {
				return errors.Wrap(err, "insert cart item")
			}
			return nil
		})
		if errors.Is(err, ErrCodeCollision) && attempt == 0 {
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		if s.codes != nil {
			s.codes.Add(code)
		}
		return item, res, nil
	}
}

// RemoveItem deletes an item from an OPEN cart. The item's reservation is
// cancelled first if it is still PENDING; an already settled reservation
// keeps its status (audit history is preserved, only the item row goes away).
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) error {
	return s.store.WithCart(ctx, cartID, func(ctx context.Context, tx CartTx) error {
		if err := s.requireOpen(ctx, tx); err != nil {
			return err
		}

		item, err := tx.Item(ctx, itemID)
		if err != nil {
			return err
		}

		res, err := tx.Reservation(ctx, item.ReservationID)
		if err != nil {
			return errors.Wrap(err, "load reservation")
		}
		if res.Status == ReservationPending {
			if err := tx.SetReservationStatus(ctx, res.ID, ReservationCancelled); err != nil {
				return errors.Wrap(err, "cancel reservation")
			}
		}

		if err := tx.DeleteItem(ctx, item.ID); err != nil {
			return errors.Wrap(err, "delete cart item")
		}
		return nil
	})
}

// PaymentResult is what the payment simulation reports back.
type PaymentResult struct {
	CartID    string          `json:"cart_id"`
	Status    CartStatus      `json:"status"`
	Reference string          `json:"payment_reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// Pay runs the payment simulation on an OPEN, non-empty cart: a Payment
// record is written, the cart transitions to PAID, and every still-PENDING
// reservation under it is CONFIRMED with its line total fixed. The
// simulation always approves; there is no retry path.
func (s *Service) Pay(ctx context.Context, cartID string) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.store.WithCart(ctx, cartID, func(ctx context.Context, tx CartTx) error {
		if err := s.requireOpen(ctx, tx); err != nil {
			return err
		}

		items, err := tx.Items(ctx)
		if err != nil {
			return errors.Wrap(err, "load items")
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		total := decimal.Zero
		for i := range items {
			total = total.Add(items[i].LineTotal())
		}
		total = total.Round(2)

		payment := &Payment{
			ID:        uuid.New().String(),
			CartID:    cartID,
			Amount:    total,
			Currency:  items[0].Currency,
			Provider:  PaymentProviderSimulated,
			Status:    PaymentStatusApproved,
			Reference: uuid.New().String(),
			CreatedAt: s.now(),
		}
		if err := tx.InsertPayment(ctx, payment); err != nil {
			return errors.Wrap(err, "insert payment")
		}
		if err := tx.SetCartStatus(ctx, CartPaid); err != nil {
			return errors.Wrap(err, "mark cart paid")
		}

		for i := range items {
			res, err := tx.Reservation(ctx, items[i].ReservationID)
			if err != nil {
				return errors.Wrap(err, "load reservation")
			}
			if res.Status != ReservationPending {
				continue
			}
			lineTotal := items[i].LineTotal().Round(2)
			if err := tx.ConfirmReservation(ctx, res.ID, lineTotal, items[i].Currency); err != nil {
				return errors.Wrap(err, "confirm reservation")
			}
		}

		result = &PaymentResult{
			CartID:    cartID,
			Status:    CartPaid,
			Reference: payment.Reference,
			Amount:    payment.Amount,
			Currency:  payment.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// requireOpen enforces the lazy expiry check at the start of every mutating
// operation. When it finds a stale OPEN cart it persists the EXPIRED
// transition and cancels the cart's pending reservations, then returns
// ErrCartExpired; the store commits the transaction for that error, so the
// forced transition survives while the operation itself fails.
func (s *Service) requireOpen(ctx context.Context, tx CartTx) error {
	cart := tx.Cart()
	switch EffectiveStatus(cart, s.now()) {
	case CartOpen:
		return nil
	case CartPaid:
		return ErrCartNotOpen
	default: // CartExpired
		if cart.Status == CartOpen {
			if err := tx.SetCartStatus(ctx, CartExpired); err != nil {
				return errors.Wrap(err, "mark cart expired")
			}
			if err := tx.CancelPendingReservations(ctx); err != nil {
				return errors.Wrap(err, "cancel pending reservations")
			}
			return ErrCartExpired
		}
		return ErrCartNotOpen
	}
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
