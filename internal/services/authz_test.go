package services

import (
	"testing"

	"github.com/sagile-io/sagile/backend/internal/models"
)

func memberProject(creatorID uint, memberIDs ...uint) *models.Project {
	p := &models.Project{CreatedBy: creatorID}
	for _, id := range memberIDs {
		p.AddMember(id, "user", models.RoleDeveloper)
	}
	return p
}

func TestCanAccessProject(t *testing.T) {
	p := memberProject(1, 2)

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"manager", Actor{ID: 99, Role: models.RoleProjectManager}, true},
		{"scrum master", Actor{ID: 99, Role: models.RoleScrumMaster}, true},
		{"active member", Actor{ID: 2, Role: models.RoleDeveloper}, true},
		{"non-member developer", Actor{ID: 3, Role: models.RoleDeveloper}, false},
		{"non-member tester", Actor{ID: 3, Role: models.RoleTester}, false},
	}
	for _, c := range cases {
		if got := CanAccessProject(c.actor, p); got != c.want {
			t.Errorf("%s: CanAccessProject = %v, expected %v", c.name, got, c.want)
		}
	}
}

func TestCanAccessProject_RemovedMember(t *testing.T) {
	p := memberProject(1, 2)
	p.RemoveMember(2)

	if CanAccessProject(Actor{ID: 2, Role: models.RoleDeveloper}, p) {
		t.Error("removed member should lose access")
	}
}

func TestCanModifyProject(t *testing.T) {
	p := memberProject(1, 2)

	if !CanModifyProject(Actor{ID: 1, Role: models.RoleDeveloper}, p) {
		t.Error("creator should be able to modify")
	}
	if !CanModifyProject(Actor{ID: 99, Role: models.RoleProjectManager}, p) {
		t.Error("manager should be able to modify")
	}
	if CanModifyProject(Actor{ID: 2, Role: models.RoleDeveloper}, p) {
		t.Error("ordinary member should not be able to modify")
	}
}

func TestCanManageMembers(t *testing.T) {
	if !CanManageMembers(Actor{Role: models.RoleScrumMaster}) {
		t.Error("scrum master should manage members")
	}
	if CanManageMembers(Actor{Role: models.RoleDeveloper}) {
		t.Error("developer should not manage members")
	}
}

func TestCanAddMember(t *testing.T) {
	p := memberProject(1, 2)

	if !CanAddMember(Actor{ID: 2, Role: models.RoleDeveloper}, p) {
		t.Error("existing member should be able to add members")
	}
	if CanAddMember(Actor{ID: 3, Role: models.RoleDeveloper}, p) {
		t.Error("outsider should not be able to add members")
	}
}

func TestCanDeleteRepository(t *testing.T) {
	r := &models.Repository{CreatedBy: 5}

	if !CanDeleteRepository(Actor{ID: 5, Role: models.RoleDeveloper}, r) {
		t.Error("repository creator should be able to delete")
	}
	if !CanDeleteRepository(Actor{ID: 1, Role: models.RoleProjectManager}, r) {
		t.Error("manager should be able to delete")
	}
	if CanDeleteRepository(Actor{ID: 6, Role: models.RoleDeveloper}, r) {
		t.Error("unrelated user should not be able to delete")
	}
}

func TestCanUpdateTask(t *testing.T) {
	assignee := uint(2)
	task := &models.Task{AssigneeID: &assignee, ReporterID: 3}

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"assignee", Actor{ID: 2, Role: models.RoleDeveloper}, true},
		{"reporter", Actor{ID: 3, Role: models.RoleDeveloper}, true},
		{"manager", Actor{ID: 99, Role: models.RoleProjectManager}, true},
		{"other", Actor{ID: 4, Role: models.RoleDeveloper}, false},
	}
	for _, c := range cases {
		if got := CanUpdateTask(c.actor, task); got != c.want {
			t.Errorf("%s: CanUpdateTask = %v, expected %v", c.name, got, c.want)
		}
	}
}

func TestCanUpdateTask_Unassigned(t *testing.T) {
	task := &models.Task{ReporterID: 3}

	if CanUpdateTask(Actor{ID: 2, Role: models.RoleDeveloper}, task) {
		t.Error("unassigned task should not match an arbitrary developer")
	}
	if !CanUpdateTask(Actor{ID: 3, Role: models.RoleDeveloper}, task) {
		t.Error("reporter should still be allowed")
	}
}

func TestCanUpdateProgress(t *testing.T) {
	assignee := uint(2)
	task := &models.Task{AssigneeID: &assignee, ReporterID: 3}

	if !CanUpdateProgress(Actor{ID: 2, Role: models.RoleDeveloper}, task) {
		t.Error("assignee should update progress")
	}
	if CanUpdateProgress(Actor{ID: 3, Role: models.RoleDeveloper}, task) {
		t.Error("reporter alone should not update progress")
	}
	if !CanUpdateProgress(Actor{ID: 99, Role: models.RoleScrumMaster}, task) {
		t.Error("manager should update progress")
	}
}
