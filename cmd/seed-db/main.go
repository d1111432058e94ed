// Command seed-db applies migrations and loads the initial site content,
// catalog and admin API key. Seeding is idempotent: populated tables are
// left alone.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/auth"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/catalog"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/content"
	"github.com/Carlonchito1001/dorado-travel/internal/storage/postgres"
)

// contentSeed mirrors db/seed/content.json.
type contentSeed struct {
	SiteInfo       content.SiteInfo        `json:"site_info"`
	HeroSlides     []content.HeroSlide     `json:"hero_slides"`
	Services       []content.Service       `json:"services"`
	AboutBlocks    []content.AboutBlock    `json:"about_blocks"`
	ValueItems     []content.ValueItem     `json:"value_items"`
	TeamMembers    []content.TeamMember    `json:"team_members"`
	Certifications []content.Certification `json:"certifications"`
	KPIs           []content.KPI           `json:"kpis"`
	Faqs           []content.Faq           `json:"faqs"`
	Testimonials   []content.Testimonial   `json:"testimonials"`
}

// catalogSeed mirrors db/seed/catalog.json. Packages reference categories by
// name.
type catalogSeed struct {
	Categories []string `json:"categories"`
	Packages   []struct {
		catalog.Package
		CategoryName string `json:"category_name"`
	} `json:"packages"`
}

func main() {
	var (
		databaseURL string
		contentFile string
		catalogFile string
		apiKey      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&contentFile, "content-file", "db/seed/content.json", "path to content seed JSON")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog seed JSON")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or DORADO_SEED_API_KEY env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("DORADO_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or DORADO_SEED_API_KEY")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, contentFile, catalogFile, apiKey); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, contentFile, catalogFile, apiKey string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedContent(ctx, pool, contentFile); err != nil {
		return errors.Wrap(err, "seed content")
	}
	if err := seedCatalog(ctx, pool, catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	if err := seedAPIKey(ctx, pool, apiKey); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedContent(ctx context.Context, pool *pgxpool.Pool, path string) error {
	slog.Info("reading content seed", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read content seed")
	}
	var seed contentSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse content seed")
	}

	repo := postgres.NewContentRepository(pool)
	now := time.Now().UTC()

	if err := seedSiteInfo(ctx, pool, seed.SiteInfo, now); err != nil {
		return err
	}

	if err := seedList(ctx, pool, "hero_slides", seed.HeroSlides, func(s *content.HeroSlide) error {
		s.ID, s.CreatedAt, s.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateHeroSlide(ctx, s)
	}); err != nil {
		return err
	}
	if err := seedList(ctx, pool, "services", seed.Services, func(s *content.Service) error {
		s.ID, s.CreatedAt, s.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateService(ctx, s)
	}); err != nil {
		return err
	}
	if err := seedList(ctx, pool, "about_blocks", seed.AboutBlocks, func(b *content.AboutBlock) error {
		b.ID, b.CreatedAt, b.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateAboutBlock(ctx, b)
	}); err != nil {
		return err
	}
	if err := seedList(ctx, pool, "value_items", seed.ValueItems, func(v *content.ValueItem) error {
		v.ID, v.CreatedAt, v.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateValueItem(ctx, v)
	}); err != nil {
		return err
	}
	if err := seedList(ctx, pool, "team_members", seed.TeamMembers, func(m *content.TeamMember) error {
		m.ID, m.CreatedAt, m.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateTeamMember(ctx, m)
	}); err != nil {
		return err
	}
	if err := seedList(ctx, pool, "certifications", seed.Certifications, func(c *content.Certification) error {
		c.ID, c.CreatedAt, c.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateCertification(ctx, c)
	}); err != nil {
		return err
	}
	if err := seedList(ctx, pool, "kpis", seed.KPIs, func(k *content.KPI) error {
		k.ID, k.CreatedAt, k.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateKPI(ctx, k)
	}); err != nil {
		return err
	}
	if err := seedList(ctx, pool, "faqs", seed.Faqs, func(f *content.Faq) error {
		f.ID, f.CreatedAt, f.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateFaq(ctx, f)
	}); err != nil {
		return err
	}
	return seedList(ctx, pool, "testimonials", seed.Testimonials, func(tm *content.Testimonial) error {
		tm.ID, tm.CreatedAt, tm.UpdatedAt = uuid.NewString(), now, now
		return repo.CreateTestimonial(ctx, tm)
	})
}

func seedSiteInfo(ctx context.Context, pool *pgxpool.Pool, info content.SiteInfo, now time.Time) error {
	empty, err := tableEmpty(ctx, pool, "site_info")
	if err != nil {
		return err
	}
	if !empty {
		slog.Info("site_info already populated, skipping")
		return nil
	}

	_, err = pool.Exec(ctx, `INSERT INTO site_info (id, brand_name, hero_title, hero_subtitle,
		contact_email, contact_phone, contact_address, whatsapp_phone, schedule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.NewString(), info.BrandName, info.HeroTitle, info.HeroSubtitle,
		info.ContactEmail, info.ContactPhone, info.ContactAddress,
		info.WhatsappPhone, info.Schedule, now, now,
	)
	if err != nil {
		return errors.Wrap(err, "insert site info")
	}
	slog.Info("seeded site_info", slog.String("brand", info.BrandName))
	return nil
}

// seedList inserts rows only when the table is still empty.
func seedList[T any](ctx context.Context, pool *pgxpool.Pool, table string, items []T, insert func(*T) error) error {
	empty, err := tableEmpty(ctx, pool, table)
	if err != nil {
		return err
	}
	if !empty {
		slog.Info("table already populated, skipping", slog.String("table", table))
		return nil
	}
	for i := range items {
		if err := insert(&items[i]); err != nil {
			return errors.Wrapf(err, "seed %s", table)
		}
	}
	slog.Info("seeded table", slog.String("table", table), slog.Int("rows", len(items)))
	return nil
}

func tableEmpty(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var n int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return false, errors.Wrapf(err, "count %s", table)
	}
	return n == 0, nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, path string) error {
	empty, err := tableEmpty(ctx, pool, "categories")
	if err != nil {
		return err
	}
	if !empty {
		slog.Info("catalog already populated, skipping")
		return nil
	}

	slog.Info("reading catalog seed", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read catalog seed")
	}
	var seed catalogSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse catalog seed")
	}

	repo := postgres.NewCatalogRepository(pool)
	now := time.Now().UTC()

	categoryIDs := make(map[string]string, len(seed.Categories))
	for _, name := range seed.Categories {
		cat := catalog.Category{
			ID:        uuid.NewString(),
			Name:      name,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.CreateCategory(ctx, &cat); err != nil {
			return errors.Wrapf(err, "seed category %q", name)
		}
		categoryIDs[name] = cat.ID
	}
	slog.Info("seeded categories", slog.Int("count", len(seed.Categories)))

	for i := range seed.Packages {
		pkg := seed.Packages[i].Package
		catID, ok := categoryIDs[seed.Packages[i].CategoryName]
		if !ok {
			return errors.Errorf("package %q references unknown category %q",
				pkg.Title, seed.Packages[i].CategoryName)
		}
		pkg.ID = uuid.NewString()
		pkg.CategoryID = catID
		pkg.CreatedAt, pkg.UpdatedAt = now, now
		for j := range pkg.Photos {
			pkg.Photos[j].ID = uuid.NewString()
			pkg.Photos[j].PackageID = pkg.ID
		}
		for j := range pkg.Includes {
			pkg.Includes[j].ID = uuid.NewString()
			pkg.Includes[j].PackageID = pkg.ID
		}
		for j := range pkg.Itinerary {
			pkg.Itinerary[j].ID = uuid.NewString()
			pkg.Itinerary[j].PackageID = pkg.ID
		}
		if err := repo.CreatePackage(ctx, &pkg); err != nil {
			return errors.Wrapf(err, "seed package %q", pkg.Title)
		}
		slog.Info("seeded package", slog.String("slug", pkg.Slug))
	}

	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey string) error {
	slog.Info("seeding admin API key")

	_, err := pool.Exec(ctx, `INSERT INTO api_keys (id, key_hash, name, active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (key_hash) DO NOTHING`,
		uuid.NewString(), auth.HashKey(apiKey), "Admin key",
	)
	if err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}
	return nil
}
