// Package analytics records page visits and assembles the admin dashboard.
package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
)

// ErrPathRequired rejects page view submissions without a path.
var ErrPathRequired = errors.New("path is required")

// PageView is one recorded visit. Country is not captured at track time; it
// is filled in by offline enrichment when available.
type PageView struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	IP        string    `json:"ip,omitempty" db:"ip"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	Country   string    `json:"country,omitempty" db:"country"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MonthCount is the visit count for one calendar month.
type MonthCount struct {
	Month string `json:"month" db:"month"`
	Count int64  `json:"count" db:"count"`
}

// Dashboard is the aggregate the admin panel renders.
type Dashboard struct {
	TotalViews           int64                               `json:"total_views"`
	MonthlyViews         []MonthCount                        `json:"monthly_views"`
	TotalReservations    int64                               `json:"total_reservations"`
	ReservationsByStatus map[booking.ReservationStatus]int64 `json:"reservations_by_status"`
	ConfirmedRevenue     decimal.Decimal                     `json:"confirmed_revenue"`
	ConversionRate       decimal.Decimal                     `json:"conversion_rate"`
}

// Repository persists page views.
type Repository interface {
	Track(ctx context.Context, v *PageView) error
	TotalViews(ctx context.Context) (int64, error)
	// MonthlyViews returns per-month counts for the last n months,
	// oldest first.
	MonthlyViews(ctx context.Context, months int) ([]MonthCount, error)
}

// BookingStats is the slice of the booking store the dashboard needs.
type BookingStats interface {
	CountReservations(ctx context.Context) (int64, error)
	ReservationStatusCounts(ctx context.Context) (map[booking.ReservationStatus]int64, error)
	ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error)
}

// Service composes visit tracking with booking aggregates.
type Service struct {
	views   Repository
	booking BookingStats
	now     func() time.Time
}

func NewService(views Repository, booking BookingStats) *Service {
	return &Service{views: views, booking: booking, now: time.Now}
}

// Track records a single page view. Path is required and normalized to a
// leading slash.
func (s *Service) Track(ctx context.Context, path, ip, userAgent string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrPathRequired
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.views.Track(ctx, &PageView{
		Path:      path,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: s.now().UTC(),
	})
}

// Dashboard builds the admin aggregate. Conversion rate is total reservations
// over total tracked page views, as a percentage rounded to two decimals,
// zero when nothing has been tracked yet.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.views.TotalViews(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "total views")
	}
	monthly, err := s.views.MonthlyViews(ctx, 12)
	if err != nil {
		return nil, errors.Wrap(err, "monthly views")
	}
	reservations, err := s.booking.CountReservations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count reservations")
	}
	byStatus, err := s.booking.ReservationStatusCounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "status counts")
	}
	revenue, err := s.booking.ConfirmedRevenue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "confirmed revenue")
	}

	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(reservations).
			Div(decimal.NewFromInt(total)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return &Dashboard{
		TotalViews:           total,
		MonthlyViews:         monthly,
		TotalReservations:    reservations,
		ReservationsByStatus: byStatus,
		ConfirmedRevenue:     revenue,
		ConversionRate:       rate,
	}, nil
}
