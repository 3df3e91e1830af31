package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/services"
	"github.com/sagile-io/sagile/backend/pkg/response"
)

// RepositoryFileHandler serves the embedded file store of a repository.
// File paths contain slashes, so they travel in the JSON body or the
// ?path= query parameter rather than the URL.
type RepositoryFileHandler struct {
	repoService *services.RepositoryService
}

func NewRepositoryFileHandler(repoService *services.RepositoryService) *RepositoryFileHandler {
	return &RepositoryFileHandler{repoService: repoService}
}

// List returns the repository's files, optionally filtered by type
// GET /api/repositories/:id/files?type=
func (h *RepositoryFileHandler) List(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	files, err := h.repoService.Files(actorFrom(c), id, c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, files)
}

// Get returns a single file by path
// GET /api/repositories/:id/file?path=
func (h *RepositoryFileHandler) Get(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	path := c.Query("path")
	if path == "" {
		response.BadRequest(c, "path query parameter required")
		return
	}

	file, err := h.repoService.File(actorFrom(c), id, path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, file)
}

// Upsert adds or updates a file
// POST /api/repositories/:id/files
func (h *RepositoryFileHandler) Upsert(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	var req services.UpsertFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	repo, err := h.repoService.UpsertFile(actorFrom(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repo)
}

type removeFileRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// Remove deletes a file record; a missing path still succeeds
// DELETE /api/repositories/:id/files
func (h *RepositoryFileHandler) Remove(c *gin.Context) {
	id, ok := repoID(c)
	if !ok {
		return
	}

	var req removeFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.repoService.RemoveFile(actorFrom(c), id, req.FilePath); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
