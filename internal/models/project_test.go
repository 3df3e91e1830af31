package models

import (
	"testing"
	"time"
)

func TestAddMember_New(t *testing.T) {
	p := &Project{}
	p.AddMember(1, "alice", RoleDeveloper)

	if len(p.Members) != 1 {
		t.Fatalf("len(Members) = %d, expected 1", len(p.Members))
	}
	m := p.Members[0]
	if m.UserID != 1 || m.Username != "alice" || m.Role != RoleDeveloper {
		t.Errorf("unexpected member entry: %+v", m)
	}
	if !m.IsActive {
		t.Error("new member should be active")
	}
	if m.JoinedAt.IsZero() {
		t.Error("JoinedAt should be set")
	}
}

func TestAddMember_ReactivatesExistingEntry(t *testing.T) {
	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Project{
		Members: []Membership{
			{UserID: 1, Username: "alice", Role: RoleDeveloper, JoinedAt: joined, IsActive: false},
		},
	}

	p.AddMember(1, "alice-renamed", RoleTester)

	if len(p.Members) != 1 {
		t.Fatalf("len(Members) = %d, expected 1 (no duplicate entry)", len(p.Members))
	}
	m := p.Members[0]
	if !m.IsActive {
		t.Error("entry should be reactivated")
	}
	if m.Role != RoleTester {
		t.Errorf("Role = %q, expected %q", m.Role, RoleTester)
	}
	if m.Username != "alice" {
		t.Errorf("Username = %q, expected snapshot %q to be kept", m.Username, "alice")
	}
	if !m.JoinedAt.Equal(joined) {
		t.Errorf("JoinedAt = %v, expected original %v to be kept", m.JoinedAt, joined)
	}
}

func TestAddMember_ActiveMemberRoleOverwrite(t *testing.T) {
	p := &Project{}
	p.AddMember(1, "alice", RoleDeveloper)
	p.AddMember(1, "alice", RoleScrumMaster)

	if len(p.Members) != 1 {
		t.Fatalf("len(Members) = %d, expected 1", len(p.Members))
	}
	if p.Members[0].Role != RoleScrumMaster {
		t.Errorf("Role = %q, expected %q", p.Members[0].Role, RoleScrumMaster)
	}
}

func TestRemoveMember_SoftDelete(t *testing.T) {
	p := &Project{}
	p.AddMember(1, "alice", RoleDeveloper)
	p.RemoveMember(1)

	if len(p.Members) != 1 {
		t.Fatalf("len(Members) = %d, expected 1 (soft delete keeps the entry)", len(p.Members))
	}
	if p.Members[0].IsActive {
		t.Error("removed member should be inactive")
	}
	if p.IsMember(1) {
		t.Error("IsMember should be false after removal")
	}
}

func TestRemoveMember_MissingIsNoOp(t *testing.T) {
	p := &Project{}
	p.AddMember(1, "alice", RoleDeveloper)
	p.RemoveMember(42)

	if !p.IsMember(1) {
		t.Error("existing member should be unaffected")
	}
}

func TestMemberRole(t *testing.T) {
	p := &Project{}
	p.AddMember(1, "alice", RoleTester)

	role, ok := p.MemberRole(1)
	if !ok || role != RoleTester {
		t.Errorf("MemberRole(1) = (%q, %v), expected (%q, true)", role, ok, RoleTester)
	}
	if _, ok := p.MemberRole(2); ok {
		t.Error("MemberRole for a non-member should report ok=false")
	}

	p.RemoveMember(1)
	if _, ok := p.MemberRole(1); ok {
		t.Error("MemberRole for a removed member should report ok=false")
	}
}

func TestMemberCount_ActiveOnly(t *testing.T) {
	p := &Project{}
	p.AddMember(1, "alice", RoleDeveloper)
	p.AddMember(2, "bob", RoleDeveloper)
	p.AddMember(3, "carol", RoleTester)
	p.RemoveMember(2)

	if got := p.MemberCount(); got != 2 {
		t.Errorf("MemberCount = %d, expected 2", got)
	}
	if got := p.MemberCountDisplay(); got != "2 members" {
		t.Errorf("MemberCountDisplay = %q, expected %q", got, "2 members")
	}

	p.RemoveMember(3)
	if got := p.MemberCountDisplay(); got != "1 member" {
		t.Errorf("MemberCountDisplay = %q, expected %q", got, "1 member")
	}
}

func TestValidSagileID(t *testing.T) {
	valid := []string{"PROJ-1", "PROJ-ABC123"}
	invalid := []string{"", "PROJ-", "TASK-1", "proj-1"}

	for _, id := range valid {
		if !ValidSagileID(id) {
			t.Errorf("ValidSagileID(%q) = false, expected true", id)
		}
	}
	for _, id := range invalid {
		if ValidSagileID(id) {
			t.Errorf("ValidSagileID(%q) = true, expected false", id)
		}
	}
}

func TestRepositoryStatus(t *testing.T) {
	p := &Project{}
	if got := p.RepositoryStatus(); got != "No repository created" {
		t.Errorf("RepositoryStatus = %q", got)
	}
	p.HasRepository = true
	if got := p.RepositoryStatus(); got != "Repository exists" {
		t.Errorf("RepositoryStatus = %q", got)
	}
}

func TestValidProjectStatus(t *testing.T) {
	if !ValidProjectStatus(ProjectStatusActive) {
		t.Error("active should be a valid status")
	}
	if ValidProjectStatus("bogus") {
		t.Error("bogus should not be a valid status")
	}
}
