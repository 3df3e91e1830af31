package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/services"
	"github.com/sagile-io/sagile/backend/pkg/response"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// List returns template summaries, optionally filtered by category
// GET /api/templates?category=
func (h *TemplateHandler) List(c *gin.Context) {
	response.Success(c, h.templateService.List(c.Query("category")))
}

// Get returns a full template definition
// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	def, err := h.templateService.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, def)
}

type previewRequest struct {
	Variables map[string]string `json:"variables"`
}

// Preview renders the template summary and files with preview defaults
// POST /api/templates/:id/preview
func (h *TemplateHandler) Preview(c *gin.Context) {
	var req previewRequest
	// An empty body previews with defaults only.
	_ = c.ShouldBindJSON(&req)

	preview, err := h.templateService.Preview(c.Param("id"), req.Variables)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, preview)
}

type createTemplateRequest struct {
	ID         string                 `json:"id" binding:"required"`
	Definition map[string]interface{} `json:"definition" binding:"required"`
}

// Create validates and registers a new template
// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	def, err := h.templateService.Create(req.ID, req.Definition)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, def)
}
