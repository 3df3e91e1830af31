package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/services"
	"github.com/sagile-io/sagile/backend/pkg/response"
)

type RepositoryHandler struct {
	repoService *services.RepositoryService
}

func NewRepositoryHandler(repoService *services.RepositoryService) *RepositoryHandler {
	return &RepositoryHandler{repoService: repoService}
}

// Create creates a repository under a project
// POST /api/repositories
func (h *RepositoryHandler) Create(c *gin.Context) {
	var req services.CreateRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	repo, err := h.repoService.Create(actorFrom(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, repo)
}

// ListByProject returns all repositories of a project
// GET /api/projects/:id/repositories
func (h *RepositoryHandler) ListByProject(c *gin.Context) {
	repos, err := h.repoService.ListByProject(actorFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repos)
}

// Get returns a repository by id
// GET /api/repositories/:id
func (h *RepositoryHandler) Get(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	repo, err := h.repoService.Get(actorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repo)
}

// Update applies a partial update
// PUT /api/repositories/:id
func (h *RepositoryHandler) Update(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	var req services.UpdateRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	repo, err := h.repoService.Update(actorFrom(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repo)
}

// Delete removes a repository
// DELETE /api/repositories/:id
func (h *RepositoryHandler) Delete(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	if err := h.repoService.Delete(actorFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type applyTemplateRequest struct {
	TemplateID string            `json:"template_id" binding:"required"`
	Variables  map[string]string `json:"variables"`
}

// ApplyTemplate materializes a template into the repository
// POST /api/repositories/:id/apply-template
func (h *RepositoryHandler) ApplyTemplate(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	repo, err := h.repoService.ApplyTemplate(actorFrom(c), id, req.TemplateID, req.Variables)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repo)
}

func repoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid repository id")
		return 0, false
	}
	return uint(id), true
}
