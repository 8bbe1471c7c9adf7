package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error bodies carry a single client-facing message. Handlers pick the
// message per endpoint; internal error detail stays in the logs.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondOK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, payload)
}
