package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type NotFoundHandler struct{}

func NewNotFoundHandler() *NotFoundHandler {
	return &NotFoundHandler{}
}

// NotFound handles unknown routes; API paths get a JSON envelope
func (h *NotFoundHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.HTML(http.StatusNotFound, "404", gin.H{
		"Title":         "404 - Page Not Found",
		"RequestedPath": c.Request.URL.Path,
	})
}
