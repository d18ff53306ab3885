package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Private writes a 200 OK JSON response that intermediaries must not store.
// Analysis results are derived from the caller's resume.
func Private(c *gin.Context, payload any) {
	c.Header("Cache-Control", "no-store")
	JSON(c, http.StatusOK, payload)
}
