package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/repodeck/repodeck/internal/dashboard"
	"github.com/repodeck/repodeck/internal/middleware"
	"github.com/repodeck/repodeck/internal/models"
	"github.com/repodeck/repodeck/internal/services"
)

type DashboardHandler struct {
	newGateway  GatewayFactory
	userService *services.UserService
}

func NewDashboardHandler(newGateway GatewayFactory, userService *services.UserService) *DashboardHandler {
	return &DashboardHandler{
		newGateway:  newGateway,
		userService: userService,
	}
}

// Dashboard renders the repository dashboard. The page is seeded with
// the plain repository list; health analysis runs on demand through the
// JSON API.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	session := middleware.GetSession(c)

	gateway := h.newGateway(session.AccessToken)
	repos, err := gateway.List(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusOK, "dashboard", gin.H{
			"Title": "Dashboard",
			"User":  session,
			"Error": "Failed to fetch repositories from GitHub",
		})
		return
	}

	settings, err := h.userService.GetSettings(session.UserID)
	if err != nil || settings == nil {
		settings = models.NewUserSettings(session.UserID)
	}

	seeded := make([]models.RepositoryWithHealth, len(repos))
	for i, repo := range repos {
		seeded[i] = models.RepositoryWithHealth{Repository: repo}
	}
	view := dashboard.New(seeded)

	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Title":        "Dashboard",
		"User":         session,
		"Repositories": view.Visible(),
		"Settings":     settings,
	})
}
