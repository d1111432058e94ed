package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
)

const (
	createCartSQL = `INSERT INTO carts (id, email, phone, nationality, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	latestCartByEmailSQL = `SELECT id, email, phone, nationality, status, expires_at, created_at, updated_at
		FROM carts WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at DESC LIMIT 1`

	lockCartSQL = `SELECT id, email, phone, nationality, status, expires_at, created_at, updated_at
		FROM carts WHERE id = $1 FOR UPDATE`

	cartItemsSQL = `SELECT id, cart_id, package_id, reservation_id, travel_date,
		adults, children, unit_price, currency, created_at, updated_at
		FROM cart_items WHERE cart_id = $1 ORDER BY created_at`

	cartItemSQL = `SELECT id, cart_id, package_id, reservation_id, travel_date,
		adults, children, unit_price, currency, created_at, updated_at
		FROM cart_items WHERE id = $1 AND cart_id = $2`

	insertCartItemSQL = `INSERT INTO cart_items (id, cart_id, package_id, reservation_id,
		travel_date, adults, children, unit_price, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

	setCartStatusSQL = `UPDATE carts SET status = $2, updated_at = NOW() WHERE id = $1`

	insertPaymentSQL = `INSERT INTO payments (id, cart_id, amount, currency, provider, status, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	reservationColumns = `id, package_id, full_name, email, phone, nationality, travel_date,
		adults, children, notes, status, total_amount, currency, public_code, created_at, updated_at`

	insertReservationSQL = `INSERT INTO reservations (id, package_id, full_name, email, phone,
		nationality, travel_date, adults, children, notes, status, total_amount, currency,
		public_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	setReservationStatusSQL = `UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`

	confirmReservationSQL = `UPDATE reservations
		SET status = $2, total_amount = $3, currency = $4, updated_at = NOW() WHERE id = $1`

	cancelPendingByCartSQL = `UPDATE reservations SET status = $2, updated_at = NOW()
		WHERE status = $3 AND id IN (SELECT reservation_id FROM cart_items WHERE cart_id = $1)`

	deleteReservationSQL = `DELETE FROM reservations WHERE id = $1`

	publicCodesSQL = `SELECT public_code FROM reservations`

	countReservationsSQL = `SELECT COUNT(*) FROM reservations`

	reservationStatusCountsSQL = `SELECT status, COUNT(*) FROM reservations GROUP BY status`

	confirmedRevenueSQL = `SELECT COALESCE(SUM(total_amount), 0) FROM reservations
		WHERE status IN ($1, $2) AND total_amount IS NOT NULL`
)

var _ booking.Store = (*BookingStore)(nil)

// BookingStore implements booking.Store backed by PostgreSQL. Cart mutations
// run inside WithCart transactions holding the cart's row lock.
type BookingStore struct {
	pool *pgxpool.Pool
}

// NewBookingStore returns a BookingStore that uses the given pool.
func NewBookingStore(pool *pgxpool.Pool) *BookingStore {
	return &BookingStore{pool: pool}
}

func (s *BookingStore) CreateCart(ctx context.Context, c *booking.Cart) error {
	_, err := s.pool.Exec(ctx, createCartSQL,
		c.ID, c.Email, c.Phone, c.Nationality, c.Status, c.ExpiresAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating cart %q: %w", c.ID, err)
	}
	return nil
}

// LatestCartByEmail returns the most recently created cart for the email.
func (s *BookingStore) LatestCartByEmail(ctx context.Context, email string) (*booking.Cart, error) {
	rows, err := s.pool.Query(ctx, latestCartByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("finding cart by email: %w", err)
	}
	cart, err := pgx.CollectExactlyOneRow(rows, scanCart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrCartNotFound
		}
		return nil, fmt.Errorf("finding cart by email: %w", err)
	}
	return &cart, nil
}

func (s *BookingStore) CartItems(ctx context.Context, cartID string) ([]booking.CartItem, error) {
	rows, err := s.pool.Query(ctx, cartItemsSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	return items, nil
}

// WithCart locks the cart row and runs fn inside the transaction. The
// transaction commits when fn returns nil or booking.ErrCartExpired, so a
// lazily detected expiry is persisted even though the operation fails.
func (s *BookingStore) WithCart(ctx context.Context, cartID string, fn func(ctx context.Context, tx booking.CartTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning cart transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	rows, err := tx.Query(ctx, lockCartSQL, cartID)
	if err != nil {
		return fmt.Errorf("locking cart %q: %w", cartID, err)
	}
	cart, err := pgx.CollectExactlyOneRow(rows, scanCart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.ErrCartNotFound
		}
		return fmt.Errorf("locking cart %q: %w", cartID, err)
	}

	fnErr := fn(ctx, &cartTx{tx: tx, cart: &cart})
	if fnErr == nil || errors.Is(fnErr, booking.ErrCartExpired) {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("committing cart transaction: %w", err)
		}
	}
	return fnErr
}

func (s *BookingStore) CreateReservation(ctx context.Context, r *booking.Reservation) error {
	return insertReservation(ctx, s.pool, r)
}

// ReservationsByEmail matches the email case-insensitively and, when phone is
// non-empty, narrows to reservations whose phone contains it.
func (s *BookingStore) ReservationsByEmail(ctx context.Context, email, phoneFilter string) ([]booking.Reservation, error) {
	sql := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE LOWER(email) = LOWER($1) AND ($2 = '' OR phone LIKE '%' || $2 || '%')
		ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, sql, email, phoneFilter)
	if err != nil {
		return nil, fmt.Errorf("listing reservations by email: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanReservation)
	if err != nil {
		return nil, fmt.Errorf("listing reservations by email: %w", err)
	}
	return list, nil
}

func (s *BookingStore) ReservationByPublicCode(ctx context.Context, code string) (*booking.Reservation, error) {
	sql := `SELECT ` + reservationColumns + ` FROM reservations WHERE public_code = $1`
	rows, err := s.pool.Query(ctx, sql, code)
	if err != nil {
		return nil, fmt.Errorf("finding reservation by code: %w", err)
	}
	res, err := pgx.CollectExactlyOneRow(rows, scanReservation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, fmt.Errorf("finding reservation by code: %w", err)
	}
	return &res, nil
}

func (s *BookingStore) ListReservations(ctx context.Context, status booking.ReservationStatus) ([]booking.Reservation, error) {
	sql := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, sql, string(status))
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanReservation)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	return list, nil
}

func (s *BookingStore) GetReservation(ctx context.Context, id string) (*booking.Reservation, error) {
	sql := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	rows, err := s.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("finding reservation %q: %w", id, err)
	}
	res, err := pgx.CollectExactlyOneRow(rows, scanReservation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, fmt.Errorf("finding reservation %q: %w", id, err)
	}
	return &res, nil
}

func (s *BookingStore) UpdateReservationStatus(ctx context.Context, id string, status booking.ReservationStatus) error {
	tag, err := s.pool.Exec(ctx, setReservationStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating reservation %q status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrReservationNotFound
	}
	return nil
}

func (s *BookingStore) DeleteReservation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, deleteReservationSQL, id)
	if err != nil {
		return fmt.Errorf("deleting reservation %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrReservationNotFound
	}
	return nil
}

// PublicCodes streams every issued code for warming the lookup filter.
func (s *BookingStore) PublicCodes(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, publicCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing public codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing public codes: %w", err)
	}
	return codes, nil
}

func (s *BookingStore) CountReservations(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, countReservationsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting reservations: %w", err)
	}
	return n, nil
}

func (s *BookingStore) ReservationStatusCounts(ctx context.Context) (map[booking.ReservationStatus]int64, error) {
	rows, err := s.pool.Query(ctx, reservationStatusCountsSQL)
	if err != nil {
		return nil, fmt.Errorf("counting reservations by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[booking.ReservationStatus]int64)
	for rows.Next() {
		var status booking.ReservationStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("counting reservations by status: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting reservations by status: %w", err)
	}
	return counts, nil
}

func (s *BookingStore) ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.pool.QueryRow(ctx, confirmedRevenueSQL,
		booking.ReservationConfirmed, booking.ReservationContacted,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing confirmed revenue: %w", err)
	}
	return sum, nil
}

// cartTx implements booking.CartTx over an open pgx transaction holding the
// cart's row lock.
type cartTx struct {
	tx   pgx.Tx
	cart *booking.Cart
}

func (t *cartTx) Cart() *booking.Cart { return t.cart }

func (t *cartTx) Items(ctx context.Context) ([]booking.CartItem, error) {
	rows, err := t.tx.Query(ctx, cartItemsSQL, t.cart.ID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	return items, nil
}

func (t *cartTx) Item(ctx context.Context, itemID string) (*booking.CartItem, error) {
	rows, err := t.tx.Query(ctx, cartItemSQL, itemID, t.cart.ID)
	if err != nil {
		return nil, fmt.Errorf("finding cart item %q: %w", itemID, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, scanCartItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrItemNotFound
		}
		return nil, fmt.Errorf("finding cart item %q: %w", itemID, err)
	}
	return &item, nil
}

func (t *cartTx) InsertItem(ctx context.Context, item *booking.CartItem) error {
	_, err := t.tx.Exec(ctx, insertCartItemSQL,
		item.ID, item.CartID, item.PackageID, item.ReservationID, item.TravelDate,
		item.Adults, item.Children, item.UnitPrice, item.Currency, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting cart item: %w", err)
	}
	return nil
}

func (t *cartTx) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := t.tx.Exec(ctx, deleteCartItemSQL, itemID, t.cart.ID)
	if err != nil {
		return fmt.Errorf("deleting cart item %q: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrItemNotFound
	}
	return nil
}

func (t *cartTx) Reservation(ctx context.Context, id string) (*booking.Reservation, error) {
	sql := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	rows, err := t.tx.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("finding reservation %q: %w", id, err)
	}
	res, err := pgx.CollectExactlyOneRow(rows, scanReservation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, fmt.Errorf("finding reservation %q: %w", id, err)
	}
	return &res, nil
}

func (t *cartTx) InsertReservation(ctx context.Context, r *booking.Reservation) error {
	return insertReservation(ctx, t.tx, r)
}

func (t *cartTx) SetReservationStatus(ctx context.Context, id string, status booking.ReservationStatus) error {
	if _, err := t.tx.Exec(ctx, setReservationStatusSQL, id, status); err != nil {
		return fmt.Errorf("updating reservation %q status: %w", id, err)
	}
	return nil
}

func (t *cartTx) ConfirmReservation(ctx context.Context, id string, total decimal.Decimal, currency string) error {
	_, err := t.tx.Exec(ctx, confirmReservationSQL, id, booking.ReservationConfirmed, total, currency)
	if err != nil {
		return fmt.Errorf("confirming reservation %q: %w", id, err)
	}
	return nil
}

func (t *cartTx) CancelPendingReservations(ctx context.Context) error {
	_, err := t.tx.Exec(ctx, cancelPendingByCartSQL,
		t.cart.ID, booking.ReservationCancelled, booking.ReservationPending,
	)
	if err != nil {
		return fmt.Errorf("cancelling pending reservations for cart %q: %w", t.cart.ID, err)
	}
	return nil
}

func (t *cartTx) SetCartStatus(ctx context.Context, status booking.CartStatus) error {
	if _, err := t.tx.Exec(ctx, setCartStatusSQL, t.cart.ID, status); err != nil {
		return fmt.Errorf("updating cart %q status: %w", t.cart.ID, err)
	}
	t.cart.Status = status
	return nil
}

func (t *cartTx) InsertPayment(ctx context.Context, p *booking.Payment) error {
	_, err := t.tx.Exec(ctx, insertPaymentSQL,
		p.ID, p.CartID, p.Amount, p.Currency, p.Provider, p.Status, p.Reference, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

// executor is satisfied by both *pgxpool.Pool and pgx.Tx.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertReservation(ctx context.Context, db executor, r *booking.Reservation) error {
	_, err := db.Exec(ctx, insertReservationSQL,
		r.ID, r.PackageID, r.FullName, r.Email, r.Phone, r.Nationality, r.TravelDate,
		r.Adults, r.Children, r.Notes, r.Status, r.TotalAmount, r.Currency,
		r.PublicCode, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation &&
			strings.Contains(pgErr.ConstraintName, "public_code") {
			return booking.ErrCodeCollision
		}
		return fmt.Errorf("inserting reservation %q: %w", r.ID, err)
	}
	return nil
}

func scanCart(row pgx.CollectableRow) (booking.Cart, error) {
	var c booking.Cart
	err := row.Scan(&c.ID, &c.Email, &c.Phone, &c.Nationality, &c.Status,
		&c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanCartItem(row pgx.CollectableRow) (booking.CartItem, error) {
	var i booking.CartItem
	err := row.Scan(&i.ID, &i.CartID, &i.PackageID, &i.ReservationID, &i.TravelDate,
		&i.Adults, &i.Children, &i.UnitPrice, &i.Currency, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func scanReservation(row pgx.CollectableRow) (booking.Reservation, error) {
	var r booking.Reservation
	err := row.Scan(&r.ID, &r.PackageID, &r.FullName, &r.Email, &r.Phone, &r.Nationality,
		&r.TravelDate, &r.Adults, &r.Children, &r.Notes, &r.Status, &r.TotalAmount,
		&r.Currency, &r.PublicCode, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}
