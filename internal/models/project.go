package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Project statuses.
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on-hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// ProjectIDPrefix is the required prefix of a project external id.
const ProjectIDPrefix = "PROJ-"

// Membership is a single entry of a project's membership ledger, embedded in
// the Project document. Entries are soft-deleted via IsActive and never
// physically removed, so join history survives removal.
type Membership struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"` // snapshot at join time, kept on reactivation
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	IsActive bool      `json:"is_active"`
}

// Project represents a SAgile project with its embedded membership ledger.
type Project struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	SagileID          string         `gorm:"uniqueIndex;size:20;not null" json:"sagile_id"` // PROJ-*
	Name              string         `gorm:"size:200;not null" json:"name"`
	Description       string         `gorm:"size:2000" json:"description"`
	Status            string         `gorm:"size:20;default:planning" json:"status"`
	Members           []Membership   `gorm:"serializer:json" json:"members"`
	StartDate         *time.Time     `json:"start_date"`
	EndDate           *time.Time     `json:"end_date"`
	CurrentSprint     string         `gorm:"size:50" json:"current_sprint"`
	HasRepository     bool           `gorm:"default:false" json:"has_repository"`
	CreatedBy         uint           `json:"created_by"`
	CreatedByUsername string         `gorm:"size:150" json:"created_by_username"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

// AddMember upserts a ledger entry keyed by user id. An existing entry is
// reactivated with the new role; its username snapshot and original
// joined-at are kept. Callers persist the project afterwards.
func (p *Project) AddMember(userID uint, username, role string) {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			p.Members[i].IsActive = true
			p.Members[i].Role = role
			return
		}
	}
	p.Members = append(p.Members, Membership{
		UserID:   userID,
		Username: username,
		Role:     role,
		JoinedAt: time.Now().UTC(),
		IsActive: true,
	})
}

// RemoveMember soft-deletes the matching entry. Removing a user who is not a
// member is a silent no-op.
func (p *Project) RemoveMember(userID uint) {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			p.Members[i].IsActive = false
			return
		}
	}
}

// MemberByID returns the active ledger entry for userID, or nil.
func (p *Project) MemberByID(userID uint) *Membership {
	for i := range p.Members {
		if p.Members[i].UserID == userID && p.Members[i].IsActive {
			return &p.Members[i]
		}
	}
	return nil
}

// IsMember reports whether userID has an active membership.
func (p *Project) IsMember(userID uint) bool {
	return p.MemberByID(userID) != nil
}

// MemberRole returns the role of an active member; ok is false for non-members.
func (p *Project) MemberRole(userID uint) (role string, ok bool) {
	if m := p.MemberByID(userID); m != nil {
		return m.Role, true
	}
	return "", false
}

// MemberCount counts active entries only.
func (p *Project) MemberCount() int {
	n := 0
	for i := range p.Members {
		if p.Members[i].IsActive {
			n++
		}
	}
	return n
}

// MemberCountDisplay formats the active member count for list views.
func (p *Project) MemberCountDisplay() string {
	n := p.MemberCount()
	if n == 1 {
		return "1 member"
	}
	return fmt.Sprintf("%d members", n)
}

// RepositoryStatus describes the repository link state for list views.
func (p *Project) RepositoryStatus() string {
	if p.HasRepository {
		return "Repository exists"
	}
	return "No repository created"
}

// ValidSagileID reports whether id carries the PROJ- prefix with a non-empty
// suffix.
func ValidSagileID(id string) bool {
	return strings.HasPrefix(id, ProjectIDPrefix) && len(id) > len(ProjectIDPrefix)
}
