package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/middleware"
	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/internal/services"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{userService: services.NewUserService(db)}
}

// List returns all active users
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// Search matches users by username, email or name
// GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.Search(c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	response.Success(c, users)
}

// GetByID returns a user by id
// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Update applies a partial update. Profile fields may be edited by the user
// themselves; role and active-flag changes need a manager.
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	actor := actorFrom(c)
	if uint(id) != actor.ID && !actor.IsManager() {
		response.Forbidden(c, "cannot update another user")
		return
	}
	if (req.Role != nil || req.IsActive != nil) && !actor.IsManager() {
		response.Forbidden(c, "only managers can change roles or deactivate users")
		return
	}

	user, err := h.userService.Update(uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateProfile lets the current user edit their own profile
// PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.Role = nil
	req.IsActive = nil

	user, err := h.userService.Update(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
