package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. ManagerRoles bypass project membership checks everywhere.
const (
	RoleScrumMaster    = "scrum-master"
	RoleDeveloper      = "developer"
	RoleProjectManager = "project-manager"
	RoleTester         = "tester"
	RoleProductOwner   = "product-owner"
)

// ValidRole reports whether s is one of the closed set of user roles.
func ValidRole(s string) bool {
	switch s {
	case RoleScrumMaster, RoleDeveloper, RoleProjectManager, RoleTester, RoleProductOwner:
		return true
	}
	return false
}

// IsManagerRole reports whether the role grants global project access.
func IsManagerRole(role string) bool {
	return role == RoleProjectManager || role == RoleScrumMaster
}

// Authentication backends.
const (
	AuthTypeLocal = "local"
	AuthTypeLDAP  = "ldap"
)

// User represents a system user
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Password       string         `gorm:"size:255" json:"-"` // Hashed password, empty for LDAP users
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName      string         `gorm:"size:150" json:"first_name"`
	LastName       string         `gorm:"size:150" json:"last_name"`
	Role           string         `gorm:"size:20;default:developer" json:"role"`
	Avatar         string         `gorm:"size:500" json:"avatar"`
	Bio            string         `gorm:"size:1000" json:"bio"`
	GithubUsername string         `gorm:"size:100" json:"github_username"`
	AuthType       string         `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	LastLogin      *time.Time     `json:"last_login"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// FullName returns first and last name joined with a space.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Initials returns up to two uppercase letters for avatar display.
func (u *User) Initials() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return upperFirst(u.FirstName) + upperFirst(u.LastName)
	case u.FirstName != "":
		return upperFirst(u.FirstName)
	case len(u.Username) >= 2:
		return upperString(u.Username[:2])
	default:
		return upperString(u.Username)
	}
}

func upperFirst(s string) string {
	if s == "" {
		return ""
	}
	return upperString(s[:1])
}

func upperString(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}
