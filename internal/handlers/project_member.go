package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/services"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectMemberHandler struct {
	projectService *services.ProjectService
}

func NewProjectMemberHandler(db *gorm.DB) *ProjectMemberHandler {
	return &ProjectMemberHandler{projectService: services.NewProjectService(db)}
}

// List returns the project's active members
// GET /api/projects/:id/members
func (h *ProjectMemberHandler) List(c *gin.Context) {
	members, err := h.projectService.Members(actorFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// Get returns a single active member
// GET /api/projects/:id/members/:userId
func (h *ProjectMemberHandler) Get(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	member, err := h.projectService.Member(actorFrom(c), c.Param("id"), uint(userID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, member)
}

// Add adds or reactivates a member
// POST /api/projects/:id/members
func (h *ProjectMemberHandler) Add(c *gin.Context) {
	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.AddMember(actorFrom(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// UpdateRole changes a member's ledger role
// PUT /api/projects/:id/members/:userId
func (h *ProjectMemberHandler) UpdateRole(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req services.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.UpdateMemberRole(actorFrom(c), c.Param("id"), uint(userID), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Remove soft-deletes a member entry
// DELETE /api/projects/:id/members/:userId
func (h *ProjectMemberHandler) Remove(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.projectService.RemoveMember(actorFrom(c), c.Param("id"), uint(userID)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
