package booking

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ReservationInput holds the public direct-booking form.
type ReservationInput struct {
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

// CreateReservation handles the direct booking path: no cart, one PENDING
// reservation with a fresh public code and the package's currency.
func (s *Service) CreateReservation(ctx context.Context, in ReservationInput) (*Reservation, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, missingField("full_name")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, missingField("email")
	}
	if in.Adults == 0 {
		in.Adults = 1
	}
	if in.Adults < 0 || in.Children < 0 {
		return nil, &ValidationError{Field: "adults", Reason: "party counts must not be negative"}
	}

	pkg, err := s.packages.PackageInfo(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &Reservation{
		ID:          uuid.New().String(),
		PackageID:   pkg.ID,
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		Nationality: strings.TrimSpace(in.Nationality),
		TravelDate:  in.TravelDate,
		Adults:      in.Adults,
		Children:    in.Children,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      ReservationPending,
		Currency:    pkg.Currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// One retry with a fresh code covers the rare unique-index collision.
	for attempt := 0; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, errors.Wrap(err, "generate public code")
		}
		res.PublicCode = code

		err = s.store.CreateReservation(ctx, res)
		if err == nil {
			break
		}
		if errors.Is(err, ErrCodeCollision) && attempt == 0 {
			continue
		}
		return nil, errors.Wrap(err, "create reservation")
	}

	if s.codes != nil {
		s.codes.Add(res.PublicCode)
	}
	return res, nil
}

// MyReservations is the public self-lookup: every reservation for the email
// (case-insensitive), optionally narrowed by a phone substring.
func (s *Service) MyReservations(ctx context.Context, email, phone string) ([]Reservation, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, missingField("email")
	}
	return s.store.ReservationsByEmail(ctx, strings.ToLower(email), strings.TrimSpace(phone))
}

// ReservationByCode resolves a reservation from its public code. The code
// filter screens out codes that were never issued before the store is asked,
// keeping junk lookups away from the database.
func (s *Service) ReservationByCode(ctx context.Context, code string) (*Reservation, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, missingField("code")
	}
	if s.codes != nil && !s.codes.MayContain(code) {
		return nil, ErrReservationNotFound
	}
	return s.store.ReservationByPublicCode(ctx, code)
}

// Reservations lists reservations for the admin, newest first, optionally
// filtered by status.
func (s *Service) Reservations(ctx context.Context, status ReservationStatus) ([]Reservation, error) {
	if status != "" && !status.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.store.ListReservations(ctx, status)
}

// Reservation returns one reservation by ID.
func (s *Service) Reservation(ctx context.Context, id string) (*Reservation, error) {
	return s.store.GetReservation(ctx, id)
}

// SetReservationStatus is the admin status override (mark contacted,
// confirmed, cancelled).
func (s *Service) SetReservationStatus(ctx context.Context, id string, status ReservationStatus) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.store.UpdateReservationStatus(ctx, id, status)
}

// DeleteReservation removes a reservation entirely (admin only).
func (s *Service) DeleteReservation(ctx context.Context, id string) error {
	return s.store.DeleteReservation(ctx, id)
}
