package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/content"
)

func (h *Handler) registerContentRoutes(g *gin.RouterGroup) {
	g.GET("/content/site-info", h.getSiteInfo)
	g.GET("/content/hero-slides", listHandler(h, h.content.ListHeroSlides))
	g.GET("/content/services", listHandler(h, h.content.ListServices))
	g.GET("/content/about", listHandler(h, h.content.ListAboutBlocks))
	g.GET("/content/values", listHandler(h, h.content.ListValueItems))
	g.GET("/content/team", listHandler(h, h.content.ListTeamMembers))
	g.GET("/content/certifications", listHandler(h, h.content.ListCertifications))
	g.GET("/content/kpis", listHandler(h, h.content.ListKPIs))
	g.GET("/content/faqs", listHandler(h, h.content.ListFaqs))
	g.GET("/content/testimonials", listHandler(h, h.content.ListTestimonials))
}

func (h *Handler) registerAdminContentRoutes(g *gin.RouterGroup) {
	g.PUT("/content/site-info", h.updateSiteInfo)

	registerCRUD(g, h, "/content/hero-slides",
		h.content.CreateHeroSlide, h.content.UpdateHeroSlide, h.content.DeleteHeroSlide,
		func(s *content.HeroSlide, id string, now time.Time) {
			s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/services",
		h.content.CreateService, h.content.UpdateService, h.content.DeleteService,
		func(s *content.Service, id string, now time.Time) {
			s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/about",
		h.content.CreateAboutBlock, h.content.UpdateAboutBlock, h.content.DeleteAboutBlock,
		func(b *content.AboutBlock, id string, now time.Time) {
			b.ID, b.CreatedAt, b.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/values",
		h.content.CreateValueItem, h.content.UpdateValueItem, h.content.DeleteValueItem,
		func(v *content.ValueItem, id string, now time.Time) {
			v.ID, v.CreatedAt, v.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/team",
		h.content.CreateTeamMember, h.content.UpdateTeamMember, h.content.DeleteTeamMember,
		func(m *content.TeamMember, id string, now time.Time) {
			m.ID, m.CreatedAt, m.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/certifications",
		h.content.CreateCertification, h.content.UpdateCertification, h.content.DeleteCertification,
		func(cert *content.Certification, id string, now time.Time) {
			cert.ID, cert.CreatedAt, cert.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/kpis",
		h.content.CreateKPI, h.content.UpdateKPI, h.content.DeleteKPI,
		func(k *content.KPI, id string, now time.Time) {
			k.ID, k.CreatedAt, k.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/faqs",
		h.content.CreateFaq, h.content.UpdateFaq, h.content.DeleteFaq,
		func(f *content.Faq, id string, now time.Time) {
			f.ID, f.CreatedAt, f.UpdatedAt = id, now, now
		})
	registerCRUD(g, h, "/content/testimonials",
		h.content.CreateTestimonial, h.content.UpdateTestimonial, h.content.DeleteTestimonial,
		func(tm *content.Testimonial, id string, now time.Time) {
			tm.ID, tm.CreatedAt, tm.UpdatedAt = id, now, now
		})
}

func (h *Handler) getSiteInfo(c *gin.Context) {
	info, err := h.content.GetSiteInfo(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) updateSiteInfo(c *gin.Context) {
	var info content.SiteInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.content.UpdateSiteInfo(c.Request.Context(), &info); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// listHandler serves a content listing.
func listHandler[T any](h *Handler, list func(context.Context) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := list(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// registerCRUD mounts create, update and delete routes for one content
// entity. prep stamps identity and timestamps before a create; updates keep
// the path ID.
func registerCRUD[T any](
	g *gin.RouterGroup,
	h *Handler,
	path string,
	create func(context.Context, *T) error,
	update func(context.Context, *T) error,
	remove func(context.Context, string) error,
	prep func(*T, string, time.Time),
) {
	g.POST(path, func(c *gin.Context) {
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			h.badRequest(c, err)
			return
		}
		prep(&item, uuid.NewString(), time.Now().UTC())
		if err := create(c.Request.Context(), &item); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	})

	g.PUT(path+"/:id", func(c *gin.Context) {
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			h.badRequest(c, err)
			return
		}
		prep(&item, c.Param("id"), time.Now().UTC())
		if err := update(c.Request.Context(), &item); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	g.DELETE(path+"/:id", func(c *gin.Context) {
		if err := remove(c.Request.Context(), c.Param("id")); err != nil {
			h.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
