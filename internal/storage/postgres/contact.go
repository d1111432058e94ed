package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/contact"
)

const (
	createMessageSQL = `INSERT INTO contact_messages (id, full_name, email, phone, subject,
		body, is_read, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	listMessagesSQL = `SELECT id, full_name, email, phone, subject, body, is_read, created_at
		FROM contact_messages ORDER BY created_at DESC`

	markMessageReadSQL = `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`

	deleteMessageSQL = `DELETE FROM contact_messages WHERE id = $1`

	subscribeSQL = `INSERT INTO newsletter_subscribers (id, email, created_at)
		VALUES ($1, $2, $3)`

	listSubscribersSQL = `SELECT id, email, created_at
		FROM newsletter_subscribers ORDER BY created_at DESC`
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

var _ contact.Repository = (*ContactRepository)(nil)

// ContactRepository implements contact.Repository backed by PostgreSQL.
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a ContactRepository that uses the given pool.
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) CreateMessage(ctx context.Context, m *contact.Message) error {
	_, err := r.pool.Exec(ctx, createMessageSQL,
		m.ID, m.FullName, m.Email, m.Phone, m.Subject, m.Body, m.IsRead, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) ListMessages(ctx context.Context) ([]contact.Message, error) {
	rows, err := r.pool.Query(ctx, listMessagesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[contact.Message])
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	return list, nil
}

func (r *ContactRepository) MarkMessageRead(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, markMessageReadSQL, id)
	if err != nil {
		return fmt.Errorf("marking message %q read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) DeleteMessage(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteMessageSQL, id)
	if err != nil {
		return fmt.Errorf("deleting message %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

// Subscribe relies on the unique index over email to reject duplicates.
func (r *ContactRepository) Subscribe(ctx context.Context, s *contact.Subscriber) error {
	_, err := r.pool.Exec(ctx, subscribeSQL, s.ID, s.Email, s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return contact.ErrAlreadySubscribed
		}
		return fmt.Errorf("subscribing %q: %w", s.Email, err)
	}
	return nil
}

func (r *ContactRepository) ListSubscribers(ctx context.Context) ([]contact.Subscriber, error) {
	rows, err := r.pool.Query(ctx, listSubscribersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[contact.Subscriber])
	if err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}
	return list, nil
}
