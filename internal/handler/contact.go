package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/contact"
)

func (h *Handler) registerContactRoutes(g *gin.RouterGroup) {
	g.POST("/contact/messages", h.submitMessage)
	g.POST("/newsletter", h.subscribe)
}

func (h *Handler) registerAdminContactRoutes(g *gin.RouterGroup) {
	g.GET("/messages", h.listMessages)
	g.PATCH("/messages/:id/read", h.markMessageRead)
	g.DELETE("/messages/:id", h.deleteMessage)
	g.GET("/subscribers", h.listSubscribers)
}

func (h *Handler) submitMessage(c *gin.Context) {
	var msg contact.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.contact.SubmitMessage(c.Request.Context(), &msg); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	sub, err := h.contact.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) listMessages(c *gin.Context) {
	list, err := h.contact.Messages(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []contact.Message{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) markMessageRead(c *gin.Context) {
	if err := h.contact.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteMessage(c *gin.Context) {
	if err := h.contact.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSubscribers(c *gin.Context) {
	list, err := h.contact.Subscribers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []contact.Subscriber{}
	}
	c.JSON(http.StatusOK, list)
}
