// Package contact stores inbound contact messages and newsletter signups.
package contact

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("contact message not found")
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

// ValidationError reports a bad form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Message is one submission of the contact form.
type Message struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Subject   string    `json:"subject,omitempty" db:"subject"`
	Body      string    `json:"body" db:"body"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Subscriber is one newsletter signup.
type Subscriber struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Repository persists messages and subscribers. Subscribe returns
// ErrAlreadySubscribed when the email is already on the list.
type Repository interface {
	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context) ([]Message, error)
	MarkMessageRead(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error

	Subscribe(ctx context.Context, s *Subscriber) error
	ListSubscribers(ctx context.Context) ([]Subscriber, error)
}

// Service validates and records contact form traffic.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SubmitMessage validates and stores a contact form submission.
func (s *Service) SubmitMessage(ctx context.Context, m *Message) error {
	m.FullName = strings.TrimSpace(m.FullName)
	m.Body = strings.TrimSpace(m.Body)
	if m.FullName == "" {
		return &ValidationError{Field: "full_name", Reason: "is required"}
	}
	if m.Body == "" {
		return &ValidationError{Field: "body", Reason: "is required"}
	}
	email, err := normalizeEmail(m.Email)
	if err != nil {
		return err
	}
	m.Email = email
	m.ID = uuid.NewString()
	m.IsRead = false
	m.CreatedAt = s.now().UTC()
	return s.repo.CreateMessage(ctx, m)
}

// Subscribe adds an email to the newsletter list.
func (s *Service) Subscribe(ctx context.Context, email string) (*Subscriber, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	sub := &Subscriber{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Subscribe(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) Messages(ctx context.Context) ([]Message, error) {
	return s.repo.ListMessages(ctx)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkMessageRead(ctx, id)
}

func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	return s.repo.DeleteMessage(ctx, id)
}

func (s *Service) Subscribers(ctx context.Context) ([]Subscriber, error) {
	return s.repo.ListSubscribers(ctx)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", &ValidationError{Field: "email", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return email, nil
}
