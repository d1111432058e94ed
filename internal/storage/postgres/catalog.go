package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/catalog"
)

const (
	listCategoriesSQL = `SELECT id, name, is_active, created_at, updated_at
		FROM categories ORDER BY name`

	createCategorySQL = `INSERT INTO categories (id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	updateCategorySQL = `UPDATE categories SET name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $1`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`

	countCategoryPackagesSQL = `SELECT COUNT(*) FROM packages WHERE category_id = $1`

	packageColumns = `id, category_id, title, slug, short_description, description, cover,
		price_from, currency, duration_days, difficulty, max_group, activities_count,
		is_popular, is_featured, is_active, created_at, updated_at`

	createPackageSQL = `INSERT INTO packages (id, category_id, title, slug, short_description,
		description, cover, price_from, currency, duration_days, difficulty, max_group,
		activities_count, is_popular, is_featured, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	updatePackageSQL = `UPDATE packages SET category_id = $2, title = $3, slug = $4,
		short_description = $5, description = $6, cover = $7, price_from = $8, currency = $9,
		duration_days = $10, difficulty = $11, max_group = $12, activities_count = $13,
		is_popular = $14, is_featured = $15, is_active = $16, updated_at = NOW()
		WHERE id = $1`

	deletePackageSQL = `DELETE FROM packages WHERE id = $1`

	packagePhotosSQL = `SELECT id, package_id, image, sort_order
		FROM package_photos WHERE package_id = $1 ORDER BY sort_order`

	packageIncludesSQL = `SELECT id, package_id, text, sort_order
		FROM package_includes WHERE package_id = $1 ORDER BY sort_order`

	packageItinerarySQL = `SELECT id, package_id, day, title, detail, sort_order
		FROM package_itinerary WHERE package_id = $1 ORDER BY sort_order`

	insertPhotoSQL = `INSERT INTO package_photos (id, package_id, image, sort_order)
		VALUES ($1, $2, $3, $4)`

	insertIncludeSQL = `INSERT INTO package_includes (id, package_id, text, sort_order)
		VALUES ($1, $2, $3, $4)`

	insertItineraryDaySQL = `INSERT INTO package_itinerary (id, package_id, day, title, detail, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`

	packageInfoSQL = `SELECT id, title, price_from, currency
		FROM packages WHERE id = $1 AND is_active = TRUE`
)

var (
	_ catalog.Repository    = (*CatalogRepository)(nil)
	_ booking.PackageSource = (*CatalogRepository)(nil)
)

// CatalogRepository implements catalog.Repository backed by PostgreSQL. It
// also serves as the booking package source, pricing cart items from the
// same tables.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanCategory)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return list, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *catalog.Category) error {
	_, err := r.pool.Exec(ctx, createCategorySQL,
		c.ID, c.Name, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", c.ID, err)
	}
	return nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	tag, err := r.pool.Exec(ctx, updateCategorySQL, c.ID, c.Name, c.IsActive)
	if err != nil {
		return fmt.Errorf("updating category %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory refuses to delete a category that still has packages.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	var n int64
	if err := r.pool.QueryRow(ctx, countCategoryPackagesSQL, id).Scan(&n); err != nil {
		return fmt.Errorf("checking category %q usage: %w", id, err)
	}
	if n > 0 {
		return catalog.ErrCategoryInUse
	}
	tag, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("deleting category %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

// ListPackages applies the filter in SQL. Nested collections are not loaded
// for listings; detail endpoints load them via GetPackage.
func (r *CatalogRepository) ListPackages(ctx context.Context, f catalog.Filter) ([]catalog.Package, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategoryID != "" {
		where = append(where, "category_id = "+arg(f.CategoryID))
	}
	if f.Difficulty != "" {
		where = append(where, "difficulty = "+arg(string(f.Difficulty)))
	}
	if f.IsPopular != nil {
		where = append(where, "is_popular = "+arg(*f.IsPopular))
	}
	if f.IsFeatured != nil {
		where = append(where, "is_featured = "+arg(*f.IsFeatured))
	}
	if f.IsActive != nil {
		where = append(where, "is_active = "+arg(*f.IsActive))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(title ILIKE "+p+" OR short_description ILIKE "+p+" OR description ILIKE "+p+")")
	}

	sql := `SELECT ` + packageColumns + ` FROM packages`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY " + orderClause(f)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanPackage)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	return list, nil
}

// orderClause maps the filter's ordering to a fixed set of columns; anything
// unknown falls back to created_at so user input never reaches the SQL text.
func orderClause(f catalog.Filter) string {
	col := "created_at"
	switch f.OrderBy {
	case "price_from", "duration_days", "created_at":
		col = f.OrderBy
	}
	if f.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func (r *CatalogRepository) GetPackage(ctx context.Context, id string) (*catalog.Package, error) {
	return r.getPackage(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id)
}

func (r *CatalogRepository) GetPackageBySlug(ctx context.Context, slug string) (*catalog.Package, error) {
	return r.getPackage(ctx, `SELECT `+packageColumns+` FROM packages WHERE slug = $1`, slug)
}

func (r *CatalogRepository) getPackage(ctx context.Context, sql, key string) (*catalog.Package, error) {
	rows, err := r.pool.Query(ctx, sql, key)
	if err != nil {
		return nil, fmt.Errorf("finding package %q: %w", key, err)
	}
	pkg, err := pgx.CollectExactlyOneRow(rows, scanPackage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("finding package %q: %w", key, err)
	}
	if err := r.loadNested(ctx, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *CatalogRepository) loadNested(ctx context.Context, p *catalog.Package) error {
	rows, err := r.pool.Query(ctx, packagePhotosSQL, p.ID)
	if err != nil {
		return fmt.Errorf("loading package photos: %w", err)
	}
	if p.Photos, err = pgx.CollectRows(rows, pgx.RowToStructByPos[catalog.Photo]); err != nil {
		return fmt.Errorf("loading package photos: %w", err)
	}

	rows, err = r.pool.Query(ctx, packageIncludesSQL, p.ID)
	if err != nil {
		return fmt.Errorf("loading package includes: %w", err)
	}
	if p.Includes, err = pgx.CollectRows(rows, pgx.RowToStructByPos[catalog.Include]); err != nil {
		return fmt.Errorf("loading package includes: %w", err)
	}

	rows, err = r.pool.Query(ctx, packageItinerarySQL, p.ID)
	if err != nil {
		return fmt.Errorf("loading package itinerary: %w", err)
	}
	if p.Itinerary, err = pgx.CollectRows(rows, pgx.RowToStructByPos[catalog.ItineraryDay]); err != nil {
		return fmt.Errorf("loading package itinerary: %w", err)
	}
	return nil
}

func (r *CatalogRepository) CreatePackage(ctx context.Context, p *catalog.Package) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning package transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, createPackageSQL,
		p.ID, p.CategoryID, p.Title, p.Slug, p.ShortDescription, p.Description, p.Cover,
		p.PriceFrom, p.Currency, p.DurationDays, p.Difficulty, p.MaxGroup, p.ActivitiesCount,
		p.IsPopular, p.IsFeatured, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating package %q: %w", p.ID, err)
	}
	if err := insertNested(ctx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing package %q: %w", p.ID, err)
	}
	return nil
}

// UpdatePackage rewrites the package row and replaces its nested rows in one
// transaction.
func (r *CatalogRepository) UpdatePackage(ctx context.Context, p *catalog.Package) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning package transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx, updatePackageSQL,
		p.ID, p.CategoryID, p.Title, p.Slug, p.ShortDescription, p.Description, p.Cover,
		p.PriceFrom, p.Currency, p.DurationDays, p.Difficulty, p.MaxGroup, p.ActivitiesCount,
		p.IsPopular, p.IsFeatured, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("updating package %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}

	for _, table := range []string{"package_photos", "package_includes", "package_itinerary"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE package_id = $1", p.ID); err != nil {
			return fmt.Errorf("clearing %s for package %q: %w", table, p.ID, err)
		}
	}
	if err := insertNested(ctx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing package %q: %w", p.ID, err)
	}
	return nil
}

func (r *CatalogRepository) DeletePackage(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deletePackageSQL, id)
	if err != nil {
		return fmt.Errorf("deleting package %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// PackageInfo resolves an active package for cart pricing. Inactive or
// unknown packages both read as not found so they cannot be booked.
func (r *CatalogRepository) PackageInfo(ctx context.Context, id string) (*booking.PackageInfo, error) {
	var info booking.PackageInfo
	err := r.pool.QueryRow(ctx, packageInfoSQL, id).
		Scan(&info.ID, &info.Title, &info.Price, &info.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrPackageNotFound
		}
		return nil, fmt.Errorf("pricing package %q: %w", id, err)
	}
	return &info, nil
}

func insertNested(ctx context.Context, tx pgx.Tx, p *catalog.Package) error {
	batch := &pgx.Batch{}
	for _, ph := range p.Photos {
		batch.Queue(insertPhotoSQL, ph.ID, p.ID, ph.Image, ph.SortOrder)
	}
	for _, inc := range p.Includes {
		batch.Queue(insertIncludeSQL, inc.ID, p.ID, inc.Text, inc.SortOrder)
	}
	for _, day := range p.Itinerary {
		batch.Queue(insertItineraryDaySQL, day.ID, p.ID, day.Day, day.Title, day.Detail, day.SortOrder)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("writing nested rows for package %q: %w", p.ID, err)
	}
	return nil
}

func scanCategory(row pgx.CollectableRow) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanPackage(row pgx.CollectableRow) (catalog.Package, error) {
	var p catalog.Package
	err := row.Scan(&p.ID, &p.CategoryID, &p.Title, &p.Slug, &p.ShortDescription,
		&p.Description, &p.Cover, &p.PriceFrom, &p.Currency, &p.DurationDays,
		&p.Difficulty, &p.MaxGroup, &p.ActivitiesCount, &p.IsPopular, &p.IsFeatured,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
