package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/content"
)

var _ content.Repository = (*ContentRepository)(nil)

// ContentRepository implements content.Repository backed by PostgreSQL.
// Column lists follow the field order of the content structs so rows scan
// positionally.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository returns a ContentRepository that uses the given pool.
func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

const (
	getSiteInfoSQL = `SELECT id, brand_name, hero_title, hero_subtitle, contact_email,
		contact_phone, contact_address, whatsapp_phone, schedule, created_at, updated_at
		FROM site_info LIMIT 1`

	updateSiteInfoSQL = `UPDATE site_info SET brand_name = $2, hero_title = $3,
		hero_subtitle = $4, contact_email = $5, contact_phone = $6, contact_address = $7,
		whatsapp_phone = $8, schedule = $9, updated_at = NOW()
		WHERE id = $1`
)

func (r *ContentRepository) GetSiteInfo(ctx context.Context) (*content.SiteInfo, error) {
	rows, err := r.pool.Query(ctx, getSiteInfoSQL)
	if err != nil {
		return nil, fmt.Errorf("loading site info: %w", err)
	}
	info, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[content.SiteInfo])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.ErrNotFound
		}
		return nil, fmt.Errorf("loading site info: %w", err)
	}
	return &info, nil
}

func (r *ContentRepository) UpdateSiteInfo(ctx context.Context, s *content.SiteInfo) error {
	tag, err := r.pool.Exec(ctx, updateSiteInfoSQL,
		s.ID, s.BrandName, s.HeroTitle, s.HeroSubtitle, s.ContactEmail,
		s.ContactPhone, s.ContactAddress, s.WhatsappPhone, s.Schedule,
	)
	if err != nil {
		return fmt.Errorf("updating site info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrNotFound
	}
	return nil
}

// listOrdered runs a parameterless listing query and scans rows positionally.
func listOrdered[T any](ctx context.Context, pool *pgxpool.Pool, sql, what string) ([]T, error) {
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[T])
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}
	return list, nil
}

func (r *ContentRepository) execWrite(ctx context.Context, sql, what string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrNotFound
	}
	return nil
}

const (
	listHeroSlidesSQL = `SELECT id, title, subtitle, image, sort_order, is_active,
		created_at, updated_at FROM hero_slides ORDER BY sort_order, created_at`

	createHeroSlideSQL = `INSERT INTO hero_slides (id, title, subtitle, image, sort_order,
		is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateHeroSlideSQL = `UPDATE hero_slides SET title = $2, subtitle = $3, image = $4,
		sort_order = $5, is_active = $6, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListHeroSlides(ctx context.Context) ([]content.HeroSlide, error) {
	return listOrdered[content.HeroSlide](ctx, r.pool, listHeroSlidesSQL, "hero slides")
}

func (r *ContentRepository) CreateHeroSlide(ctx context.Context, s *content.HeroSlide) error {
	_, err := r.pool.Exec(ctx, createHeroSlideSQL,
		s.ID, s.Title, s.Subtitle, s.Image, s.SortOrder, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating hero slide: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateHeroSlide(ctx context.Context, s *content.HeroSlide) error {
	return r.execWrite(ctx, updateHeroSlideSQL, "updating hero slide",
		s.ID, s.Title, s.Subtitle, s.Image, s.SortOrder, s.IsActive)
}

func (r *ContentRepository) DeleteHeroSlide(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM hero_slides WHERE id = $1`, "deleting hero slide", id)
}

const (
	listServicesSQL = `SELECT id, title, description, icon, sort_order, is_active,
		created_at, updated_at FROM services ORDER BY sort_order, created_at`

	createServiceSQL = `INSERT INTO services (id, title, description, icon, sort_order,
		is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateServiceSQL = `UPDATE services SET title = $2, description = $3, icon = $4,
		sort_order = $5, is_active = $6, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListServices(ctx context.Context) ([]content.Service, error) {
	return listOrdered[content.Service](ctx, r.pool, listServicesSQL, "services")
}

func (r *ContentRepository) CreateService(ctx context.Context, s *content.Service) error {
	_, err := r.pool.Exec(ctx, createServiceSQL,
		s.ID, s.Title, s.Description, s.Icon, s.SortOrder, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateService(ctx context.Context, s *content.Service) error {
	return r.execWrite(ctx, updateServiceSQL, "updating service",
		s.ID, s.Title, s.Description, s.Icon, s.SortOrder, s.IsActive)
}

func (r *ContentRepository) DeleteService(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM services WHERE id = $1`, "deleting service", id)
}

const (
	listAboutBlocksSQL = `SELECT id, key, title, body, icon, image, sort_order, is_active,
		created_at, updated_at FROM about_blocks ORDER BY sort_order, created_at`

	createAboutBlockSQL = `INSERT INTO about_blocks (id, key, title, body, icon, image,
		sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	updateAboutBlockSQL = `UPDATE about_blocks SET key = $2, title = $3, body = $4, icon = $5,
		image = $6, sort_order = $7, is_active = $8, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListAboutBlocks(ctx context.Context) ([]content.AboutBlock, error) {
	return listOrdered[content.AboutBlock](ctx, r.pool, listAboutBlocksSQL, "about blocks")
}

func (r *ContentRepository) CreateAboutBlock(ctx context.Context, b *content.AboutBlock) error {
	_, err := r.pool.Exec(ctx, createAboutBlockSQL,
		b.ID, b.Key, b.Title, b.Body, b.Icon, b.Image, b.SortOrder, b.IsActive,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating about block: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateAboutBlock(ctx context.Context, b *content.AboutBlock) error {
	return r.execWrite(ctx, updateAboutBlockSQL, "updating about block",
		b.ID, b.Key, b.Title, b.Body, b.Icon, b.Image, b.SortOrder, b.IsActive)
}

func (r *ContentRepository) DeleteAboutBlock(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM about_blocks WHERE id = $1`, "deleting about block", id)
}

const (
	listValueItemsSQL = `SELECT id, title, description, icon, sort_order, is_active,
		created_at, updated_at FROM value_items ORDER BY sort_order, created_at`

	createValueItemSQL = `INSERT INTO value_items (id, title, description, icon, sort_order,
		is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateValueItemSQL = `UPDATE value_items SET title = $2, description = $3, icon = $4,
		sort_order = $5, is_active = $6, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListValueItems(ctx context.Context) ([]content.ValueItem, error) {
	return listOrdered[content.ValueItem](ctx, r.pool, listValueItemsSQL, "value items")
}

func (r *ContentRepository) CreateValueItem(ctx context.Context, v *content.ValueItem) error {
	_, err := r.pool.Exec(ctx, createValueItemSQL,
		v.ID, v.Title, v.Description, v.Icon, v.SortOrder, v.IsActive, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating value item: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateValueItem(ctx context.Context, v *content.ValueItem) error {
	return r.execWrite(ctx, updateValueItemSQL, "updating value item",
		v.ID, v.Title, v.Description, v.Icon, v.SortOrder, v.IsActive)
}

func (r *ContentRepository) DeleteValueItem(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM value_items WHERE id = $1`, "deleting value item", id)
}

const (
	listTeamMembersSQL = `SELECT id, full_name, role, bio, avatar, sort_order, is_active,
		created_at, updated_at FROM team_members ORDER BY sort_order, created_at`

	createTeamMemberSQL = `INSERT INTO team_members (id, full_name, role, bio, avatar,
		sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	updateTeamMemberSQL = `UPDATE team_members SET full_name = $2, role = $3, bio = $4,
		avatar = $5, sort_order = $6, is_active = $7, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListTeamMembers(ctx context.Context) ([]content.TeamMember, error) {
	return listOrdered[content.TeamMember](ctx, r.pool, listTeamMembersSQL, "team members")
}

func (r *ContentRepository) CreateTeamMember(ctx context.Context, m *content.TeamMember) error {
	_, err := r.pool.Exec(ctx, createTeamMemberSQL,
		m.ID, m.FullName, m.Role, m.Bio, m.Avatar, m.SortOrder, m.IsActive,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating team member: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateTeamMember(ctx context.Context, m *content.TeamMember) error {
	return r.execWrite(ctx, updateTeamMemberSQL, "updating team member",
		m.ID, m.FullName, m.Role, m.Bio, m.Avatar, m.SortOrder, m.IsActive)
}

func (r *ContentRepository) DeleteTeamMember(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM team_members WHERE id = $1`, "deleting team member", id)
}

const (
	listCertificationsSQL = `SELECT id, title, issuer, year, sort_order, is_active,
		created_at, updated_at FROM certifications ORDER BY sort_order, created_at`

	createCertificationSQL = `INSERT INTO certifications (id, title, issuer, year,
		sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateCertificationSQL = `UPDATE certifications SET title = $2, issuer = $3, year = $4,
		sort_order = $5, is_active = $6, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListCertifications(ctx context.Context) ([]content.Certification, error) {
	return listOrdered[content.Certification](ctx, r.pool, listCertificationsSQL, "certifications")
}

func (r *ContentRepository) CreateCertification(ctx context.Context, c *content.Certification) error {
	_, err := r.pool.Exec(ctx, createCertificationSQL,
		c.ID, c.Title, c.Issuer, c.Year, c.SortOrder, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating certification: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateCertification(ctx context.Context, c *content.Certification) error {
	return r.execWrite(ctx, updateCertificationSQL, "updating certification",
		c.ID, c.Title, c.Issuer, c.Year, c.SortOrder, c.IsActive)
}

func (r *ContentRepository) DeleteCertification(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM certifications WHERE id = $1`, "deleting certification", id)
}

const (
	listKPIsSQL = `SELECT id, key, label, value, sort_order, is_active,
		created_at, updated_at FROM kpis ORDER BY sort_order, created_at`

	createKPISQL = `INSERT INTO kpis (id, key, label, value, sort_order, is_active,
		created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateKPISQL = `UPDATE kpis SET key = $2, label = $3, value = $4, sort_order = $5,
		is_active = $6, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListKPIs(ctx context.Context) ([]content.KPI, error) {
	return listOrdered[content.KPI](ctx, r.pool, listKPIsSQL, "kpis")
}

func (r *ContentRepository) CreateKPI(ctx context.Context, k *content.KPI) error {
	_, err := r.pool.Exec(ctx, createKPISQL,
		k.ID, k.Key, k.Label, k.Value, k.SortOrder, k.IsActive, k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating kpi: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateKPI(ctx context.Context, k *content.KPI) error {
	return r.execWrite(ctx, updateKPISQL, "updating kpi",
		k.ID, k.Key, k.Label, k.Value, k.SortOrder, k.IsActive)
}

func (r *ContentRepository) DeleteKPI(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM kpis WHERE id = $1`, "deleting kpi", id)
}

const (
	listFaqsSQL = `SELECT id, question, answer, sort_order, is_active,
		created_at, updated_at FROM faqs ORDER BY sort_order, created_at`

	createFaqSQL = `INSERT INTO faqs (id, question, answer, sort_order, is_active,
		created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateFaqSQL = `UPDATE faqs SET question = $2, answer = $3, sort_order = $4,
		is_active = $5, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListFaqs(ctx context.Context) ([]content.Faq, error) {
	return listOrdered[content.Faq](ctx, r.pool, listFaqsSQL, "faqs")
}

func (r *ContentRepository) CreateFaq(ctx context.Context, f *content.Faq) error {
	_, err := r.pool.Exec(ctx, createFaqSQL,
		f.ID, f.Question, f.Answer, f.SortOrder, f.IsActive, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating faq: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateFaq(ctx context.Context, f *content.Faq) error {
	return r.execWrite(ctx, updateFaqSQL, "updating faq",
		f.ID, f.Question, f.Answer, f.SortOrder, f.IsActive)
}

func (r *ContentRepository) DeleteFaq(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM faqs WHERE id = $1`, "deleting faq", id)
}

const (
	listTestimonialsSQL = `SELECT id, full_name, location, comment, rating, is_active,
		created_at, updated_at FROM testimonials ORDER BY created_at DESC`

	createTestimonialSQL = `INSERT INTO testimonials (id, full_name, location, comment,
		rating, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateTestimonialSQL = `UPDATE testimonials SET full_name = $2, location = $3,
		comment = $4, rating = $5, is_active = $6, updated_at = NOW() WHERE id = $1`
)

func (r *ContentRepository) ListTestimonials(ctx context.Context) ([]content.Testimonial, error) {
	return listOrdered[content.Testimonial](ctx, r.pool, listTestimonialsSQL, "testimonials")
}

func (r *ContentRepository) CreateTestimonial(ctx context.Context, tm *content.Testimonial) error {
	_, err := r.pool.Exec(ctx, createTestimonialSQL,
		tm.ID, tm.FullName, tm.Location, tm.Comment, tm.Rating, tm.IsActive,
		tm.CreatedAt, tm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating testimonial: %w", err)
	}
	return nil
}

func (r *ContentRepository) UpdateTestimonial(ctx context.Context, tm *content.Testimonial) error {
	return r.execWrite(ctx, updateTestimonialSQL, "updating testimonial",
		tm.ID, tm.FullName, tm.Location, tm.Comment, tm.Rating, tm.IsActive)
}

func (r *ContentRepository) DeleteTestimonial(ctx context.Context, id string) error {
	return r.execWrite(ctx, `DELETE FROM testimonials WHERE id = $1`, "deleting testimonial", id)
}
