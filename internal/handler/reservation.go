package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
)

func (h *Handler) registerReservationRoutes(g *gin.RouterGroup) {
	g.POST("/reservations", h.createReservation)
	g.GET("/reservations", h.myReservations)
	g.GET("/reservations/code/:code", h.reservationByCode)
}

func (h *Handler) registerAdminReservationRoutes(g *gin.RouterGroup) {
	g.GET("/reservations", h.listReservations)
	g.GET("/reservations/:id", h.getReservation)
	g.PATCH("/reservations/:id/status", h.setReservationStatus)
	g.DELETE("/reservations/:id", h.deleteReservation)
}

type createReservationRequest struct {
	PackageID   string     `json:"package_id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Nationality string     `json:"nationality"`
	TravelDate  *time.Time `json:"travel_date"`
	Adults      int        `json:"adults"`
	Children    int        `json:"children"`
	Notes       string     `json:"notes"`
}

func (h *Handler) createReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.booking.CreateReservation(c.Request.Context(), booking.ReservationInput{
		PackageID:   req.PackageID,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Nationality: req.Nationality,
		TravelDate:  req.TravelDate,
		Adults:      req.Adults,
		Children:    req.Children,
		Notes:       req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// myReservations is the public self-lookup by email, optionally narrowed by a
// phone substring.
func (h *Handler) myReservations(c *gin.Context) {
	list, err := h.booking.MyReservations(c.Request.Context(), c.Query("email"), c.Query("phone"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []booking.Reservation{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) reservationByCode(c *gin.Context) {
	res, err := h.booking.ReservationByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) listReservations(c *gin.Context) {
	status := booking.ReservationStatus(c.Query("status"))
	list, err := h.booking.Reservations(c.Request.Context(), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []booking.Reservation{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getReservation(c *gin.Context) {
	res, err := h.booking.Reservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type setStatusRequest struct {
	Status booking.ReservationStatus `json:"status"`
}

func (h *Handler) setReservationStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.booking.SetReservationStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteReservation(c *gin.Context) {
	if err := h.booking.DeleteReservation(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
