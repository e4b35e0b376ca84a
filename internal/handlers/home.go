package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/repodeck/repodeck/internal/middleware"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Index handles the landing page. Signed-in users go straight to
// the dashboard.
func (h *HomeHandler) Index(c *gin.Context) {
	session := middleware.GetSession(c)
	if session != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	data := gin.H{
		"Title": "Repodeck",
		"User":  session,
	}

	c.HTML(http.StatusOK, "index", data)
}
