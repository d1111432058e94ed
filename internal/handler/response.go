package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/analytics"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/catalog"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/contact"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/content"
)

// errorBody is the uniform error payload.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fail maps domain errors to HTTP statuses: validation problems are 400,
// missing records 404, state conflicts 409, everything else a logged 500.
func (h *Handler) fail(c *gin.Context, err error) {
	var bookingVal *booking.ValidationError
	var contactVal *contact.ValidationError
	if errors.As(err, &bookingVal) || errors.As(err, &contactVal) || errors.Is(err, analytics.ErrPathRequired) {
		h.reply(c, http.StatusBadRequest, err)
		return
	}

	switch {
	case errors.Is(err, booking.ErrCartNotFound),
		errors.Is(err, booking.ErrItemNotFound),
		errors.Is(err, booking.ErrReservationNotFound),
		errors.Is(err, booking.ErrPackageNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, content.ErrNotFound),
		errors.Is(err, contact.ErrNotFound):
		h.reply(c, http.StatusNotFound, err)

	case errors.Is(err, booking.ErrCartExpired),
		errors.Is(err, booking.ErrCartNotOpen),
		errors.Is(err, booking.ErrCartEmpty),
		errors.Is(err, booking.ErrCurrencyMismatch),
		errors.Is(err, catalog.ErrCategoryInUse),
		errors.Is(err, contact.ErrAlreadySubscribed):
		h.reply(c, http.StatusConflict, err)

	default:
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}

func (h *Handler) reply(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorBody{Code: status, Message: err.Error()})
}

// badRequest reports a malformed request body or query.
func (h *Handler) badRequest(c *gin.Context, err error) {
	h.reply(c, http.StatusBadRequest, err)
}
