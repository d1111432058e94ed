package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
)

func (h *Handler) registerBookingRoutes(g *gin.RouterGroup) {
	g.POST("/carts", h.createCart)
	g.GET("/carts", h.lookupCart)
	g.POST("/carts/:id/items", h.addCartItem)
	g.DELETE("/carts/:id/items/:itemID", h.removeCartItem)
	g.POST("/carts/:id/pay", h.payCart)
}

type createCartRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
}

func (h *Handler) createCart(c *gin.Context) {
	var req createCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cart, err := h.booking.CreateCart(c.Request.Context(), booking.CreateCartInput{
		Email:       req.Email,
		Phone:       req.Phone,
		Nationality: req.Nationality,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

type cartResponse struct {
	*booking.Cart
	Items []booking.CartItem `json:"items"`
}

func (h *Handler) lookupCart(c *gin.Context) {
	cart, items, err := h.booking.LookupCart(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []booking.CartItem{}
	}
	c.JSON(http.StatusOK, cartResponse{Cart: cart, Items: items})
}

type addItemRequest struct {
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

type addItemResponse struct {
	Item        *booking.CartItem    `json:"item"`
	Reservation *booking.Reservation `json:"reservation"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	item, res, err := h.booking.AddItem(c.Request.Context(), booking.AddItemInput{
		CartID:      c.Param("id"),
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
	c.JSON(http.StatusCreated, addItemResponse{Item: item, Reservation: res})
}

func (h *Handler) removeCartItem(c *gin.Context) {
	err := h.booking.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) payCart(c *gin.Context) {
	result, err := h.booking.Pay(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
