package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerAnalyticsRoutes(g *gin.RouterGroup) {
	g.POST("/visits", h.trackVisit)
}

type trackVisitRequest struct {
	Path string `json:"path"`
}

func (h *Handler) trackVisit(c *gin.Context) {
	var req trackVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	err := h.analytics.Track(c.Request.Context(), req.Path, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
