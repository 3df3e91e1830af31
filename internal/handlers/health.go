package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/internal/services"
)

// HealthHandler provides the health check endpoint.
type HealthHandler struct {
	templateService *services.TemplateService
}

func NewHealthHandler(templateService *services.TemplateService) *HealthHandler {
	return &HealthHandler{templateService: templateService}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	var projectCount int64
	models.GetDB().Model(&models.Project{}).Count(&projectCount)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "sagile",
		"components": gin.H{
			"database":  dbStatus,
			"templates": len(h.templateService.List("")),
			"projects":  projectCount,
		},
	})
}
