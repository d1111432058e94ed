// Package handler exposes the HTTP API: public marketing content, the
// package catalog, the cart and reservation flows, and the API-key guarded
// admin surface.
package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/analytics"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/auth"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/catalog"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/contact"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/content"
)

// Handler wires all domain services to gin routes.
type Handler struct {
	log       *zap.Logger
	booking   *booking.Service
	catalog   catalog.Repository
	content   content.Repository
	analytics *analytics.Service
	contact   *contact.Service
	apikeys   auth.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	log *zap.Logger,
	bookingSvc *booking.Service,
	catalogRepo catalog.Repository,
	contentRepo content.Repository,
	analyticsSvc *analytics.Service,
	contactSvc *contact.Service,
	apikeys auth.Repository,
) *Handler {
	return &Handler{
		log:       log,
		booking:   bookingSvc,
		catalog:   catalogRepo,
		content:   contentRepo,
		analytics: analyticsSvc,
		contact:   contactSvc,
		apikeys:   apikeys,
	}
}

// Register mounts every route under /api/v1 on the given engine.
func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	h.registerContentRoutes(v1)
	h.registerCatalogRoutes(v1)
	h.registerBookingRoutes(v1)
	h.registerReservationRoutes(v1)
	h.registerContactRoutes(v1)
	h.registerAnalyticsRoutes(v1)

	admin := v1.Group("/admin", h.RequireAdmin())
	h.registerAdminContentRoutes(admin)
	h.registerAdminCatalogRoutes(admin)
	h.registerAdminReservationRoutes(admin)
	h.registerAdminContactRoutes(admin)
	admin.GET("/dashboard", h.dashboard)
}
