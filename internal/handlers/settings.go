package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/repodeck/repodeck/internal/middleware"
	"github.com/repodeck/repodeck/internal/models"
	"github.com/repodeck/repodeck/internal/services"
)

type SettingsHandler struct {
	userService *services.UserService
}

func NewSettingsHandler(userService *services.UserService) *SettingsHandler {
	return &SettingsHandler{
		userService: userService,
	}
}

// SettingsPage renders the settings page
func (h *SettingsHandler) SettingsPage(c *gin.Context) {
	session := middleware.GetSession(c)

	settings, err := h.userService.GetSettings(session.UserID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "settings", gin.H{
			"Title": "Settings",
			"User":  session,
			"Error": "Failed to load settings",
		})
		return
	}
	if settings == nil {
		// No row yet means the defaults apply
		settings = models.NewUserSettings(session.UserID)
	}

	c.HTML(http.StatusOK, "settings", gin.H{
		"Title":    "Settings",
		"User":     session,
		"Settings": settings,
	})
}

// GetSettings returns the user's settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	session := middleware.GetSession(c)

	settings, err := h.userService.GetSettings(session.UserID)
	if err != nil {
		respondError(c, err, "Failed to load settings")
		return
	}
	if settings == nil {
		settings = models.NewUserSettings(session.UserID)
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// UpdateSettings merges a partial settings update. Omitted fields stay
// unchanged.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	session := middleware.GetSession(c)

	var update models.UserSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}

	settings, err := h.userService.UpdateSettings(session.UserID, update)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}
