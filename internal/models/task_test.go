package models

import (
	"strings"
	"testing"
	"time"
)

func TestUpdateProgress_StartsTodoTask(t *testing.T) {
	task := &Task{Status: TaskStatusTodo}
	task.UpdateProgress(25, 1, "alice")

	if task.Progress != 25 {
		t.Errorf("Progress = %d, expected 25", task.Progress)
	}
	if task.Status != TaskStatusInProgress {
		t.Errorf("Status = %q, expected %q", task.Status, TaskStatusInProgress)
	}
	if task.StartedAt == nil {
		t.Error("StartedAt should be stamped on first progress")
	}
	if task.CompletedAt != nil {
		t.Error("CompletedAt should not be set")
	}
}

func TestUpdateProgress_StartedAtStampedOnce(t *testing.T) {
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := &Task{Status: TaskStatusTodo, StartedAt: &started}
	task.UpdateProgress(10, 1, "alice")

	if !task.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, expected original %v to be kept", task.StartedAt, started)
	}
}

func TestUpdateProgress_HundredCompletesTask(t *testing.T) {
	task := &Task{Status: TaskStatusInProgress, Progress: 80}
	task.UpdateProgress(100, 1, "alice")

	if task.Status != TaskStatusDone {
		t.Errorf("Status = %q, expected %q", task.Status, TaskStatusDone)
	}
	if task.CompletedAt == nil {
		t.Error("CompletedAt should be stamped at 100%")
	}
}

func TestUpdateProgress_NonTodoStatusUnchanged(t *testing.T) {
	task := &Task{Status: TaskStatusCodeReview, Progress: 60}
	task.UpdateProgress(70, 1, "alice")

	if task.Status != TaskStatusCodeReview {
		t.Errorf("Status = %q, expected %q to be kept", task.Status, TaskStatusCodeReview)
	}
}

func TestUpdateProgress_RecordsComment(t *testing.T) {
	task := &Task{Status: TaskStatusTodo, Progress: 0}
	task.UpdateProgress(40, 7, "carol")

	if len(task.Comments) != 1 {
		t.Fatalf("len(Comments) = %d, expected 1", len(task.Comments))
	}
	c := task.Comments[0]
	if !c.IsProgressUpdate {
		t.Error("comment should be flagged as a progress update")
	}
	if c.AuthorID != 7 || c.AuthorUsername != "carol" {
		t.Errorf("author = %d %q", c.AuthorID, c.AuthorUsername)
	}
	if c.OldProgress == nil || *c.OldProgress != 0 {
		t.Errorf("OldProgress = %v, expected 0", c.OldProgress)
	}
	if c.NewProgress == nil || *c.NewProgress != 40 {
		t.Errorf("NewProgress = %v, expected 40", c.NewProgress)
	}
	if !strings.Contains(c.Content, "0% to 40%") {
		t.Errorf("Content = %q", c.Content)
	}
}

func TestAddComment(t *testing.T) {
	task := &Task{}
	task.AddComment(1, "alice", "looks good")

	if len(task.Comments) != 1 {
		t.Fatalf("len(Comments) = %d, expected 1", len(task.Comments))
	}
	c := task.Comments[0]
	if c.IsProgressUpdate {
		t.Error("plain comment should not be flagged as a progress update")
	}
	if c.Content != "looks good" {
		t.Errorf("Content = %q", c.Content)
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestAddCodeLink(t *testing.T) {
	task := &Task{}
	task.AddCodeLink(CodeLink{
		FilePath:  "src/main.go",
		FileName:  "main.go",
		StartLine: 10,
		EndLine:   20,
		CreatedBy: 1,
	})

	if !task.HasCodeLinks() {
		t.Fatal("HasCodeLinks should be true")
	}
	if task.CodeLinks[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped when unset")
	}
}

func TestCodeLinkLineRange(t *testing.T) {
	l := &CodeLink{StartLine: 5, EndLine: 5}
	if got := l.LineRange(); got != "Line 5" {
		t.Errorf("LineRange = %q", got)
	}
	l.EndLine = 9
	if got := l.LineRange(); got != "Lines 5-9" {
		t.Errorf("LineRange = %q", got)
	}
}

func TestValidTaskID(t *testing.T) {
	if !ValidTaskID("TASK-42") {
		t.Error("TASK-42 should be valid")
	}
	for _, id := range []string{"", "TASK-", "PROJ-1"} {
		if ValidTaskID(id) {
			t.Errorf("ValidTaskID(%q) = true, expected false", id)
		}
	}
}
