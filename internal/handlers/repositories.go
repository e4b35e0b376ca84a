package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/repodeck/repodeck/internal/middleware"
	"github.com/repodeck/repodeck/internal/models"
	"github.com/repodeck/repodeck/internal/services"
)

// RepositoryGateway is the provider-facing surface the handlers need.
// The production implementation is services.GitHubRepositoryService.
type RepositoryGateway interface {
	List(ctx context.Context) ([]models.Repository, error)
	Get(ctx context.Context, owner, name string) (*models.Repository, error)
	Delete(ctx context.Context, owner, name string) error
	ListWithHealth(ctx context.Context) ([]models.RepositoryWithHealth, error)
}

// GatewayFactory builds a gateway for the session's bearer token
type GatewayFactory func(token string) RepositoryGateway

type RepositoryHandler struct {
	newGateway    GatewayFactory
	healthService *services.HealthService
	bulkService   *services.BulkDeleteService
	userService   *services.UserService
	exportService *services.ExportService
}

func NewRepositoryHandler(
	newGateway GatewayFactory,
	healthService *services.HealthService,
	bulkService *services.BulkDeleteService,
	userService *services.UserService,
	exportService *services.ExportService,
) *RepositoryHandler {
	return &RepositoryHandler{
		newGateway:    newGateway,
		healthService: healthService,
		bulkService:   bulkService,
		userService:   userService,
		exportService: exportService,
	}
}

func (h *RepositoryHandler) gateway(c *gin.Context) RepositoryGateway {
	session := middleware.GetSession(c)
	return h.newGateway(session.AccessToken)
}

// List returns the user's repositories without health data
func (h *RepositoryHandler) List(c *gin.Context) {
	repos, err := h.gateway(c).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch repositories from GitHub")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": repos})
}

// ListWithHealth returns the user's repositories with health computed
// in batches
func (h *RepositoryHandler) ListWithHealth(c *gin.Context) {
	repos, err := h.gateway(c).ListWithHealth(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch repositories from GitHub")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": repos})
}

type analyzeRequest struct {
	Owner string `json:"owner" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

// Analyze computes health for a single repository
func (h *RepositoryHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner and name are required"})
		return
	}

	repo, err := h.gateway(c).Get(c.Request.Context(), req.Owner, req.Name)
	if err != nil {
		respondError(c, err, "Failed to analyze repository health")
		return
	}

	health := h.healthService.Analyze(*repo)
	c.JSON(http.StatusOK, gin.H{"data": health})
}

// Delete removes a single repository on the provider side
func (h *RepositoryHandler) Delete(c *gin.Context) {
	owner := c.Param("owner")
	name := c.Param("name")
	if owner == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner and name are required"})
		return
	}

	if err := h.gateway(c).Delete(c.Request.Context(), owner, name); err != nil {
		respondError(c, err, "Failed to delete repository")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": fmt.Sprintf("%s/%s", owner, name)}})
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// BulkDelete deletes the selected repositories concurrently and reports
// the aggregate outcome. Partial failure is a 200 with counts, not an
// error.
func (h *RepositoryHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one repository id is required"})
		return
	}

	session := middleware.GetSession(c)
	settings, err := h.userService.GetSettings(session.UserID)
	if err != nil {
		respondError(c, err, "Failed to load settings")
		return
	}

	gateway := h.gateway(c)
	repos, err := gateway.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch repositories from GitHub")
		return
	}

	result := h.bulkService.Delete(c.Request.Context(), gateway, settings, req.IDs, repos)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"result":  result,
		"summary": result.Summary(),
	}})
}

// Export streams the repository list as an xlsx workbook
func (h *RepositoryHandler) Export(c *gin.Context) {
	repos, err := h.gateway(c).ListWithHealth(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch repositories from GitHub")
		return
	}

	filename := fmt.Sprintf("repositories-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exportService.WriteXLSX(c.Writer, repos); err != nil {
		respondError(c, err, "Failed to export repositories")
		return
	}
}

// respondError maps service errors to the uniform error envelope. Raw
// upstream errors are logged by the gateway, never echoed here.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Please sign in with GitHub"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Repository not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
