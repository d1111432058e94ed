// Package catalog holds the tour package catalog: categories, packages and
// their nested photos, includes and itinerary days.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog lookups.
var (
	ErrNotFound         = errors.New("package not found")
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryInUse is returned when deleting a category that still has
	// packages attached.
	ErrCategoryInUse = errors.New("category has packages")
)

// Difficulty grades a trek. The values are the site's original Spanish labels.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "FACIL"
	DifficultyModerate Difficulty = "MODERADA"
	DifficultyHard     Difficulty = "DIFICIL"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	}
	return false
}

// Category groups packages.
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Package is a catalog item. PriceFrom is the advertised starting price;
// carts copy it at add-time, so editing it never changes open carts.
type Package struct {
	ID               string          `json:"id" db:"id"`
	CategoryID       string          `json:"category_id" db:"category_id"`
	Category         *Category       `json:"category,omitempty" db:"-"`
	Title            string          `json:"title" db:"title"`
	Slug             string          `json:"slug" db:"slug"`
	ShortDescription string          `json:"short_description" db:"short_description"`
	Description      string          `json:"description,omitempty" db:"description"`
	Cover            string          `json:"cover,omitempty" db:"cover"`
	PriceFrom        decimal.Decimal `json:"price_from" db:"price_from"`
	Currency         string          `json:"currency" db:"currency"`
	DurationDays     int             `json:"duration_days" db:"duration_days"`
	Difficulty       Difficulty      `json:"difficulty" db:"difficulty"`
	MaxGroup         *int            `json:"max_group,omitempty" db:"max_group"`
	ActivitiesCount  *int            `json:"activities_count,omitempty" db:"activities_count"`
	IsPopular        bool            `json:"is_popular" db:"is_popular"`
	IsFeatured       bool            `json:"is_featured" db:"is_featured"`
	IsActive         bool            `json:"is_active" db:"is_active"`
	Photos           []Photo         `json:"photos" db:"-"`
	Includes         []Include       `json:"includes" db:"-"`
	Itinerary        []ItineraryDay  `json:"itinerary" db:"-"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// Photo is one gallery image of a package.
type Photo struct {
	ID        string `json:"id" db:"id"`
	PackageID string `json:"package_id" db:"package_id"`
	Image     string `json:"image" db:"image"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

// Include is one "what's included" bullet.
type Include struct {
	ID        string `json:"id" db:"id"`
	PackageID string `json:"package_id" db:"package_id"`
	Text      string `json:"text" db:"text"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

// ItineraryDay is one day of a package's day-by-day plan.
type ItineraryDay struct {
	ID        string `json:"id" db:"id"`
	PackageID string `json:"package_id" db:"package_id"`
	Day       int    `json:"day" db:"day"`
	Title     string `json:"title" db:"title"`
	Detail    string `json:"detail" db:"detail"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

// Filter narrows and orders package listings, mirroring the public catalog
// page: category, difficulty and flag filters, free-text search over title
// and descriptions, ordering by price, creation date or duration.
type Filter struct {
	CategoryID string
	Difficulty Difficulty
	IsPopular  *bool
	IsFeatured *bool
	IsActive   *bool
	Search     string
	// OrderBy is one of price_from, created_at, duration_days; empty means
	// created_at. Descending when Desc is set.
	OrderBy string
	Desc    bool
}

// Repository defines persistence for the catalog.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListPackages(ctx context.Context, f Filter) ([]Package, error)
	GetPackage(ctx context.Context, id string) (*Package, error)
	GetPackageBySlug(ctx context.Context, slug string) (*Package, error)
	CreatePackage(ctx context.Context, p *Package) error
	// UpdatePackage rewrites the package row and replaces its nested photos,
	// includes and itinerary in one transaction.
	UpdatePackage(ctx context.Context, p *Package) error
	DeletePackage(ctx context.Context, id string) error
}
