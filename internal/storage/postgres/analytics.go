package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/analytics"
)

const (
	trackPageViewSQL = `INSERT INTO page_views (id, path, ip, user_agent, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	totalViewsSQL = `SELECT COUNT(*) FROM page_views`

	monthlyViewsSQL = `SELECT TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month,
		COUNT(*) AS count
		FROM page_views
		WHERE created_at >= DATE_TRUNC('month', NOW()) - ($1 - 1) * INTERVAL '1 month'
		GROUP BY 1 ORDER BY 1`
)

var _ analytics.Repository = (*AnalyticsRepository)(nil)

// AnalyticsRepository implements analytics.Repository backed by PostgreSQL.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository returns an AnalyticsRepository that uses the given pool.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) Track(ctx context.Context, v *analytics.PageView) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, trackPageViewSQL,
		v.ID, v.Path, v.IP, v.UserAgent, v.Country, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording page view: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) TotalViews(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, totalViewsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting page views: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepository) MonthlyViews(ctx context.Context, months int) ([]analytics.MonthCount, error) {
	rows, err := r.pool.Query(ctx, monthlyViewsSQL, months)
	if err != nil {
		return nil, fmt.Errorf("counting monthly page views: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[analytics.MonthCount])
	if err != nil {
		return nil, fmt.Errorf("counting monthly page views: %w", err)
	}
	return list, nil
}
