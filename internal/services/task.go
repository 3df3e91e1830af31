package services

import (
	"errors"
	"time"

	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db       *gorm.DB
	projects *ProjectService
}

func NewTaskService(db *gorm.DB, projects *ProjectService) *TaskService {
	return &TaskService{db: db, projects: projects}
}

type CreateTaskRequest struct {
	SagileID       string     `json:"sagile_id" binding:"required"`
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	ProjectID      string     `json:"project_id" binding:"required"` // PROJ-*
	AssigneeID     *uint      `json:"assignee_id"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	TaskType       string     `json:"task_type"`
	EstimatedHours float64    `json:"estimated_hours"`
	DueDate        *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	AssigneeID     *uint      `json:"assignee_id"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	TaskType       *string    `json:"task_type"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	DueDate        *time.Time `json:"due_date"`
}

// Create validates the external id, the assignee, and project access of the
// acting user.
func (s *TaskService) Create(actor Actor, req *CreateTaskRequest) (*models.Task, error) {
	if !models.ValidTaskID(req.SagileID) {
		return nil, response.NewBadRequest("task id must start with " + models.TaskIDPrefix)
	}

	project, err := s.projects.Get(actor, req.ProjectID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, response.NewBadRequest("invalid task status: " + status)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, response.NewBadRequest("invalid priority: " + priority)
	}

	var count int64
	s.db.Model(&models.Task{}).Where("sagile_id = ?", req.SagileID).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("task id already exists: " + req.SagileID)
	}

	task := models.Task{
		SagileID:         req.SagileID,
		Title:            req.Title,
		Description:      req.Description,
		ProjectID:        project.ID,
		ProjectSagileID:  project.SagileID,
		ReporterID:       actor.ID,
		ReporterUsername: actor.Username,
		Status:           status,
		Priority:         priority,
		TaskType:         req.TaskType,
		EstimatedHours:   req.EstimatedHours,
		DueDate:          req.DueDate,
	}
	if task.TaskType == "" {
		task.TaskType = "task"
	}

	if req.AssigneeID != nil {
		var assignee models.User
		if err := s.db.First(&assignee, *req.AssigneeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("assignee not found")
			}
			return nil, err
		}
		task.AssigneeID = &assignee.ID
		task.AssigneeUsername = assignee.Username
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Get loads a task by external id, gated on project access.
func (s *TaskService) Get(actor Actor, sagileID string) (*models.Task, error) {
	task, err := s.find(sagileID)
	if err != nil {
		return nil, err
	}
	if err := s.checkProjectAccess(actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListByProject returns the project's tasks, optionally filtered by status.
func (s *TaskService) ListByProject(actor Actor, projectSagileID, status string) ([]models.Task, error) {
	project, err := s.projects.Get(actor, projectSagileID)
	if err != nil {
		return nil, err
	}
	q := s.db.Where("project_id = ?", project.ID)
	if status != "" {
		if !models.ValidTaskStatus(status) {
			return nil, response.NewBadRequest("invalid task status: " + status)
		}
		q = q.Where("status = ?", status)
	}
	var tasks []models.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// MyTasks returns tasks assigned to or reported by the actor.
func (s *TaskService) MyTasks(actor Actor) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.
		Where("assignee_id = ? OR reporter_id = ?", actor.ID, actor.ID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Search matches title, description, and external id by substring, capped
// at 10 visible results.
func (s *TaskService) Search(actor Actor, query string) ([]models.Task, error) {
	if query == "" {
		return nil, nil
	}
	like := "%" + query + "%"
	var tasks []models.Task
	if err := s.db.
		Where("title LIKE ? OR description LIKE ? OR sagile_id LIKE ?", like, like, like).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	out := make([]models.Task, 0, 10)
	for i := range tasks {
		if s.checkProjectAccess(actor, &tasks[i]) != nil {
			continue
		}
		out = append(out, tasks[i])
		if len(out) == 10 {
			break
		}
	}
	return out, nil
}

// Update applies a partial update. Assignee, reporter, and managers only.
func (s *TaskService) Update(actor Actor, sagileID string, req *UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Get(actor, sagileID)
	if err != nil {
		return nil, err
	}
	if !CanUpdateTask(actor, task) {
		return nil, response.NewForbidden("only the assignee, reporter or a manager can update this task")
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssigneeID != nil {
		var assignee models.User
		if err := s.db.First(&assignee, *req.AssigneeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("assignee not found")
			}
			return nil, err
		}
		task.AssigneeID = &assignee.ID
		task.AssigneeUsername = assignee.Username
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			return nil, response.NewBadRequest("invalid task status: " + *req.Status)
		}
		task.Status = *req.Status
		if *req.Status == models.TaskStatusDone && task.CompletedAt == nil {
			now := time.Now().UTC()
			task.CompletedAt = &now
		}
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			return nil, response.NewBadRequest("invalid priority: " + *req.Priority)
		}
		task.Priority = *req.Priority
	}
	if req.TaskType != nil {
		task.TaskType = *req.TaskType
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		task.ActualHours = *req.ActualHours
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task. Same rule as Update.
func (s *TaskService) Delete(actor Actor, sagileID string) error {
	task, err := s.Get(actor, sagileID)
	if err != nil {
		return err
	}
	if !CanUpdateTask(actor, task) {
		return response.NewForbidden("only the assignee, reporter or a manager can delete this task")
	}
	return s.db.Delete(task).Error
}

// UpdateProgress records a progress change with its derived status
// transitions. Assignee and managers only.
func (s *TaskService) UpdateProgress(actor Actor, sagileID string, progress int) (*models.Task, error) {
	if progress < 0 || progress > 100 {
		return nil, response.NewBadRequest("progress must be between 0 and 100")
	}

	task, err := s.Get(actor, sagileID)
	if err != nil {
		return nil, err
	}
	if !CanUpdateProgress(actor, task) {
		return nil, response.NewForbidden("only the assignee or a manager can update progress")
	}

	task.UpdateProgress(progress, actor.ID, actor.Username)
	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// AddComment appends a plain comment; any user with project access may
// comment.
func (s *TaskService) AddComment(actor Actor, sagileID, content string) (*models.Task, error) {
	if content == "" {
		return nil, response.NewBadRequest("comment content required")
	}
	task, err := s.Get(actor, sagileID)
	if err != nil {
		return nil, err
	}
	task.AddComment(actor.ID, actor.Username, content)
	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

type AddCodeLinkRequest struct {
	FilePath     string `json:"file_path" binding:"required"`
	FileName     string `json:"file_name" binding:"required"`
	SelectedText string `json:"selected_text"`
	StartLine    int    `json:"start_line" binding:"required"`
	EndLine      int    `json:"end_line" binding:"required"`
	StartColumn  *int   `json:"start_column"`
	EndColumn    *int   `json:"end_column"`
}

// AddCodeLink ties a code selection to the task.
func (s *TaskService) AddCodeLink(actor Actor, sagileID string, req *AddCodeLinkRequest) (*models.Task, error) {
	if req.EndLine < req.StartLine {
		return nil, response.NewBadRequest("end_line must not precede start_line")
	}
	task, err := s.Get(actor, sagileID)
	if err != nil {
		return nil, err
	}
	task.AddCodeLink(models.CodeLink{
		FilePath:          req.FilePath,
		FileName:          req.FileName,
		SelectedText:      req.SelectedText,
		StartLine:         req.StartLine,
		EndLine:           req.EndLine,
		StartColumn:       req.StartColumn,
		EndColumn:         req.EndColumn,
		CreatedBy:         actor.ID,
		CreatedByUsername: actor.Username,
	})
	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) find(sagileID string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("sagile_id = ?", sagileID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found: " + sagileID)
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) checkProjectAccess(actor Actor, task *models.Task) error {
	var project models.Project
	if err := s.db.First(&project, task.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found")
		}
		return err
	}
	if !CanAccessProject(actor, &project) {
		return response.NewForbidden("no access to this task")
	}
	return nil
}
