package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/services"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	projects := services.NewProjectService(db)
	return &TaskHandler{taskService: services.NewTaskService(db, projects)}
}

// Create creates a task
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(actorFrom(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Get returns a task by external id
// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskService.Get(actorFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

// ListByProject returns a project's tasks, optionally filtered by status
// GET /api/projects/:id/tasks?status=
func (h *TaskHandler) ListByProject(c *gin.Context) {
	tasks, err := h.taskService.ListByProject(actorFrom(c), c.Param("id"), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

// MyTasks returns tasks assigned to or reported by the current user
// GET /api/tasks/my
func (h *TaskHandler) MyTasks(c *gin.Context) {
	tasks, err := h.taskService.MyTasks(actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

// Search matches tasks by title, description or id
// GET /api/tasks/search?q=
func (h *TaskHandler) Search(c *gin.Context) {
	tasks, err := h.taskService.Search(actorFrom(c), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

// Update applies a partial update
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(actorFrom(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

// Delete removes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskService.Delete(actorFrom(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// UpdateProgress records a progress change with derived status transitions
// PATCH /api/tasks/:id/progress
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateProgress(actorFrom(c), c.Param("id"), *req.Progress)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddComment appends a comment to the task
// POST /api/tasks/:id/comments
func (h *TaskHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.AddComment(actorFrom(c), c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

// AddCodeLink ties a code selection to the task
// POST /api/tasks/:id/code-links
func (h *TaskHandler) AddCodeLink(c *gin.Context) {
	var req services.AddCodeLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.AddCodeLink(actorFrom(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}
