package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/auth"
)

// apiKeyHeader carries the admin API key.
const apiKeyHeader = "X-API-Key"

// RequireAdmin authenticates admin requests by hashing the provided API key,
// looking it up, and re-comparing in constant time to guard against timing
// side-channels even when the lookup already succeeded.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if key == "" {
			unauthorized(c)
			return
		}

		info, err := h.apikeys.FindByHash(c.Request.Context(), auth.HashKey(key))
		if err != nil {
			unauthorized(c)
			return
		}
		if !auth.Verify(key, info.KeyHash) {
			unauthorized(c)
			return
		}

		c.Set("api_key_name", info.Name)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
	})
}
