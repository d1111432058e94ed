// Command visits-export streams page views to a gzip-compressed NDJSON file
// for offline analysis. Rows are read and encoded concurrently so exports of
// large tables keep the connection busy while compressing.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/analytics"
	"github.com/Carlonchito1001/dorado-travel/internal/storage/postgres"
)

const exportSQL = `SELECT id, path, COALESCE(ip, ''), COALESCE(user_agent, ''), COALESCE(country, ''), created_at
FROM page_views
WHERE created_at >= $1 AND created_at < $2
ORDER BY created_at`

func main() {
	var (
		databaseURL string
		output      string
		since       string
		until       string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&output, "output", "page_views.ndjson.gz", "output file path")
	flag.StringVar(&since, "since", "", "export views from this date (YYYY-MM-DD, default 30 days ago)")
	flag.StringVar(&until, "until", "", "export views before this date (YYYY-MM-DD, default now)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	from, to, err := parseRange(since, until)
	if err != nil {
		slog.Error("invalid date range", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	n, err := run(ctx, databaseURL, output, from, to)
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("export completed",
		slog.String("output", output),
		slog.Int64("rows", n),
		slog.Duration("took", time.Since(start)),
	)
}

func parseRange(since, until string) (time.Time, time.Time, error) {
	from := time.Now().UTC().AddDate(0, 0, -30)
	to := time.Now().UTC()

	var err error
	if since != "" {
		if from, err = time.Parse("2006-01-02", since); err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(err, "parse --since")
		}
	}
	if until != "" {
		if to, err = time.Parse("2006-01-02", until); err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(err, "parse --until")
		}
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errors.New("--until must be after --since")
	}
	return from, to, nil
}

func run(ctx context.Context, databaseURL, output string, from, to time.Time) (int64, error) {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return 0, errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	f, err := os.Create(output)
	if err != nil {
		return 0, errors.Wrap(err, "create output file")
	}
	defer f.Close()

	gz := pgzip.NewWriter(f)

	views := make(chan analytics.PageView, 1024)
	var written int64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(views)

		rows, err := pool.Query(ctx, exportSQL, from, to)
		if err != nil {
			return errors.Wrap(err, "query page views")
		}
		defer rows.Close()

		for rows.Next() {
			var v analytics.PageView
			if err := rows.Scan(&v.ID, &v.Path, &v.IP, &v.UserAgent, &v.Country, &v.CreatedAt); err != nil {
				return errors.Wrap(err, "scan page view")
			}
			select {
			case views <- v:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return errors.Wrap(rows.Err(), "read page views")
	})
	g.Go(func() error {
		var enc jx.Encoder
		for v := range views {
			enc.Reset()
			encodeView(&enc, v)
			if _, err := gz.Write(append(enc.Bytes(), '\n')); err != nil {
				return errors.Wrap(err, "write row")
			}
			written++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := gz.Close(); err != nil {
		return 0, errors.Wrap(err, "flush gzip stream")
	}
	return written, f.Close()
}

func encodeView(enc *jx.Encoder, v analytics.PageView) {
	enc.Obj(func(enc *jx.Encoder) {
		enc.Field("id", func(enc *jx.Encoder) { enc.Str(v.ID) })
		enc.Field("path", func(enc *jx.Encoder) { enc.Str(v.Path) })
		if v.IP != "" {
			enc.Field("ip", func(enc *jx.Encoder) { enc.Str(v.IP) })
		}
		if v.UserAgent != "" {
			enc.Field("user_agent", func(enc *jx.Encoder) { enc.Str(v.UserAgent) })
		}
		if v.Country != "" {
			enc.Field("country", func(enc *jx.Encoder) { enc.Str(v.Country) })
		}
		enc.Field("created_at", func(enc *jx.Encoder) { enc.Str(v.CreatedAt.Format(time.RFC3339)) })
	})
}
