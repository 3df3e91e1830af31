package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusCodeReview = "code-review"
	TaskStatusTesting    = "testing"
	TaskStatusDone       = "done"
	TaskStatusBlocked    = "blocked"
)

// Task priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCodeReview,
		TaskStatusTesting, TaskStatusDone, TaskStatusBlocked:
		return true
	}
	return false
}

func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// TaskIDPrefix is the required prefix of a task external id.
const TaskIDPrefix = "TASK-"

// ValidTaskID reports whether id carries the TASK- prefix with a non-empty
// suffix.
func ValidTaskID(id string) bool {
	return strings.HasPrefix(id, TaskIDPrefix) && len(id) > len(TaskIDPrefix)
}

// CodeLink ties a task to a selected range of repository code.
type CodeLink struct {
	FilePath          string    `json:"file_path"`
	FileName          string    `json:"file_name"`
	SelectedText      string    `json:"selected_text"`
	StartLine         int       `json:"start_line"`
	EndLine           int       `json:"end_line"`
	StartColumn       *int      `json:"start_column"`
	EndColumn         *int      `json:"end_column"`
	CreatedBy         uint      `json:"created_by"`
	CreatedByUsername string    `json:"created_by_username"`
	CreatedAt         time.Time `json:"created_at"`
}

// LineRange formats the selection range for display.
func (l *CodeLink) LineRange() string {
	if l.StartLine == l.EndLine {
		return fmt.Sprintf("Line %d", l.StartLine)
	}
	return fmt.Sprintf("Lines %d-%d", l.StartLine, l.EndLine)
}

// TaskComment is a comment embedded in a task; progress updates are recorded
// as comments carrying the old and new values.
type TaskComment struct {
	AuthorID         uint      `json:"author_id"`
	AuthorUsername   string    `json:"author_username"`
	Content          string    `json:"content"`
	IsProgressUpdate bool      `json:"is_progress_update"`
	OldProgress      *int      `json:"old_progress"`
	NewProgress      *int      `json:"new_progress"`
	CreatedAt        time.Time `json:"created_at"`
}

// Task is a unit of project work with progress state and embedded comments
// and code links.
type Task struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	SagileID         string         `gorm:"uniqueIndex;size:20;not null" json:"sagile_id"` // TASK-*
	Title            string         `gorm:"size:200;not null" json:"title"`
	Description      string         `gorm:"size:2000" json:"description"`
	ProjectID        uint           `gorm:"index;not null" json:"project_id"`
	ProjectSagileID  string         `gorm:"size:20;index" json:"project_sagile_id"`
	AssigneeID       *uint          `gorm:"index" json:"assignee_id"`
	AssigneeUsername string         `gorm:"size:150" json:"assignee_username"`
	ReporterID       uint           `json:"reporter_id"`
	ReporterUsername string         `gorm:"size:150" json:"reporter_username"`
	Status           string         `gorm:"size:20;default:todo;index" json:"status"`
	Priority         string         `gorm:"size:10;default:medium" json:"priority"`
	TaskType         string         `gorm:"size:20;default:task" json:"task_type"`
	Progress         int            `gorm:"default:0" json:"progress"`
	EstimatedHours   float64        `json:"estimated_hours"`
	ActualHours      float64        `json:"actual_hours"`
	DueDate          *time.Time     `json:"due_date"`
	StartedAt        *time.Time     `json:"started_at"`
	CompletedAt      *time.Time     `json:"completed_at"`
	CodeLinks        []CodeLink     `gorm:"serializer:json" json:"code_links"`
	Comments         []TaskComment  `gorm:"serializer:json" json:"comments"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }

// AddComment appends a comment. Callers persist the task afterwards.
func (t *Task) AddComment(authorID uint, authorUsername, content string) {
	t.Comments = append(t.Comments, TaskComment{
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	})
}

// AddCodeLink appends a code link. Callers persist the task afterwards.
func (t *Task) AddCodeLink(link CodeLink) {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	t.CodeLinks = append(t.CodeLinks, link)
}

// UpdateProgress sets the new progress value, records it as a progress
// comment, and derives status: 100 forces done and stamps CompletedAt; any
// positive progress moves a todo task to in-progress, stamping StartedAt
// exactly once. Callers persist the task afterwards.
func (t *Task) UpdateProgress(newProgress int, updatedBy uint, updatedByUsername string) {
	old := t.Progress
	t.Progress = newProgress
	now := time.Now().UTC()

	t.Comments = append(t.Comments, TaskComment{
		AuthorID:         updatedBy,
		AuthorUsername:   updatedByUsername,
		Content:          fmt.Sprintf("Progress updated from %d%% to %d%%", old, newProgress),
		IsProgressUpdate: true,
		OldProgress:      &old,
		NewProgress:      &newProgress,
		CreatedAt:        now,
	})

	if newProgress == 100 && t.Status != TaskStatusDone {
		t.Status = TaskStatusDone
		t.CompletedAt = &now
	} else if newProgress > 0 && t.Status == TaskStatusTodo {
		t.Status = TaskStatusInProgress
		if t.StartedAt == nil {
			t.StartedAt = &now
		}
	}
}

// HasCodeLinks reports whether the task has any linked code.
func (t *Task) HasCodeLinks() bool {
	return len(t.CodeLinks) > 0
}
