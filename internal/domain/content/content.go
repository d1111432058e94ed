// Package content holds the marketing content of the site: everything the
// public pages render that is not the package catalog. All of it is
// public-read, admin-write.
package content

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned for lookups of absent content records.
var ErrNotFound = errors.New("content not found")

// SiteInfo is the singleton site configuration block.
type SiteInfo struct {
	ID             string    `json:"id" db:"id"`
	BrandName      string    `json:"brand_name" db:"brand_name"`
	HeroTitle      string    `json:"hero_title" db:"hero_title"`
	HeroSubtitle   string    `json:"hero_subtitle" db:"hero_subtitle"`
	ContactEmail   string    `json:"contact_email" db:"contact_email"`
	ContactPhone   string    `json:"contact_phone" db:"contact_phone"`
	ContactAddress string    `json:"contact_address" db:"contact_address"`
	WhatsappPhone  string    `json:"whatsapp_phone,omitempty" db:"whatsapp_phone"`
	Schedule       string    `json:"schedule,omitempty" db:"schedule"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// HeroSlide is one slide of the landing page carousel.
type HeroSlide struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Subtitle  string    `json:"subtitle,omitempty" db:"subtitle"`
	Image     string    `json:"image" db:"image"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Service is one offered service card (guided walks, transport, ...).
type Service struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon,omitempty" db:"icon"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AboutBlock is a keyed institutional text block (MISION, VISION, ...).
type AboutBlock struct {
	ID        string    `json:"id" db:"id"`
	Key       string    `json:"key" db:"key"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Icon      string    `json:"icon,omitempty" db:"icon"`
	Image     string    `json:"image,omitempty" db:"image"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValueItem is one company value card.
type ValueItem struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon,omitempty" db:"icon"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TeamMember is a staff profile.
type TeamMember struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      string    `json:"role" db:"role"`
	Bio       string    `json:"bio,omitempty" db:"bio"`
	Avatar    string    `json:"avatar,omitempty" db:"avatar"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Certification is an award or accreditation.
type Certification struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Issuer    string    `json:"issuer,omitempty" db:"issuer"`
	Year      *int      `json:"year,omitempty" db:"year"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// KPI is a keyed headline figure ("10+ years", "98% satisfaction").
type KPI struct {
	ID        string    `json:"id" db:"id"`
	Key       string    `json:"key" db:"key"`
	Label     string    `json:"label" db:"label"`
	Value     string    `json:"value" db:"value"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Faq is one question/answer pair.
type Faq struct {
	ID        string    `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Testimonial is a customer review, listed newest first.
type Testimonial struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Location  string    `json:"location,omitempty" db:"location"`
	Comment   string    `json:"comment" db:"comment"`
	Rating    int       `json:"rating" db:"rating"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Repository persists all content entities. Ordered listings return rows by
// sort_order then creation, except testimonials which are newest first.
type Repository interface {
	GetSiteInfo(ctx context.Context) (*SiteInfo, error)
	UpdateSiteInfo(ctx context.Context, s *SiteInfo) error

	ListHeroSlides(ctx context.Context) ([]HeroSlide, error)
	CreateHeroSlide(ctx context.Context, s *HeroSlide) error
	UpdateHeroSlide(ctx context.Context, s *HeroSlide) error
	DeleteHeroSlide(ctx context.Context, id string) error

	ListServices(ctx context.Context) ([]Service, error)
	CreateService(ctx context.Context, s *Service) error
	UpdateService(ctx context.Context, s *Service) error
	DeleteService(ctx context.Context, id string) error

	ListAboutBlocks(ctx context.Context) ([]AboutBlock, error)
	CreateAboutBlock(ctx context.Context, b *AboutBlock) error
	UpdateAboutBlock(ctx context.Context, b *AboutBlock) error
	DeleteAboutBlock(ctx context.Context, id string) error

	ListValueItems(ctx context.Context) ([]ValueItem, error)
	CreateValueItem(ctx context.Context, v *ValueItem) error
	UpdateValueItem(ctx context.Context, v *ValueItem) error
	DeleteValueItem(ctx context.Context, id string) error

	ListTeamMembers(ctx context.Context) ([]TeamMember, error)
	CreateTeamMember(ctx context.Context, m *TeamMember) error
	UpdateTeamMember(ctx context.Context, m *TeamMember) error
	DeleteTeamMember(ctx context.Context, id string) error

	ListCertifications(ctx context.Context) ([]Certification, error)
	CreateCertification(ctx context.Context, c *Certification) error
	UpdateCertification(ctx context.Context, c *Certification) error
	DeleteCertification(ctx context.Context, id string) error

	ListKPIs(ctx context.Context) ([]KPI, error)
	CreateKPI(ctx context.Context, k *KPI) error
	UpdateKPI(ctx context.Context, k *KPI) error
	DeleteKPI(ctx context.Context, id string) error

	ListFaqs(ctx context.Context) ([]Faq, error)
	CreateFaq(ctx context.Context, f *Faq) error
	UpdateFaq(ctx context.Context, f *Faq) error
	DeleteFaq(ctx context.Context, id string) error

	ListTestimonials(ctx context.Context) ([]Testimonial, error)
	CreateTestimonial(ctx context.Context, tm *Testimonial) error
	UpdateTestimonial(ctx context.Context, tm *Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error
}
