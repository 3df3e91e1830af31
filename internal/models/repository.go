package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Repository access levels.
const (
	AccessPrivate  = "private"
	AccessPublic   = "public"
	AccessInternal = "internal"
)

// Repository initialization modes.
const (
	RepoTypeFresh    = "fresh"
	RepoTypeUpload   = "upload"
	RepoTypeTemplate = "template"
)

// Repository file types.
const (
	FileTypeCode          = "code"
	FileTypeConfig        = "config"
	FileTypeDocumentation = "documentation"
	FileTypeTest          = "test"
	FileTypeAsset         = "asset"
	FileTypeOther         = "other"
)

func ValidAccessLevel(s string) bool {
	return s == AccessPrivate || s == AccessPublic || s == AccessInternal
}

func ValidRepoType(s string) bool {
	return s == RepoTypeFresh || s == RepoTypeUpload || s == RepoTypeTemplate
}

func ValidFileType(s string) bool {
	switch s {
	case FileTypeCode, FileTypeConfig, FileTypeDocumentation, FileTypeTest, FileTypeAsset, FileTypeOther:
		return true
	}
	return false
}

var repoNameRe = regexp.MustCompile(`^[a-z0-9-]{3,100}$`)

// ValidRepositoryName enforces lowercase alphanumerics and hyphens, at least
// three characters.
func ValidRepositoryName(name string) bool {
	return repoNameRe.MatchString(name)
}

// RepositoryFile is a file record embedded in the Repository document,
// keyed by FilePath within its repository.
type RepositoryFile struct {
	FilePath               string    `json:"file_path"`
	FileName               string    `json:"file_name"`
	FileType               string    `json:"file_type"`
	FileSize               int64     `json:"file_size"`
	Content                string    `json:"content"`
	LastModified           time.Time `json:"last_modified"`
	LastModifiedBy         uint      `json:"last_modified_by"`
	LastModifiedByUsername string    `json:"last_modified_by_username"`
	CreatedAt              time.Time `json:"created_at"`
}

// Extension returns the file name suffix after the last dot, or "".
func (f *RepositoryFile) Extension() string {
	if i := strings.LastIndex(f.FileName, "."); i >= 0 && i < len(f.FileName)-1 {
		return f.FileName[i+1:]
	}
	return ""
}

// Repository is a code repository linked 1:1 to a project, owning its
// embedded file list.
type Repository struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Name              string           `gorm:"size:100;not null;index:idx_repo_project_name,unique" json:"name"`
	Description       string           `gorm:"size:1000" json:"description"`
	ProjectID         uint             `gorm:"not null;index:idx_repo_project_name,unique" json:"project_id"`
	ProjectSagileID   string           `gorm:"size:20;index" json:"project_sagile_id"`
	AccessLevel       string           `gorm:"size:10;default:private" json:"access_level"`
	ProjectType       string           `gorm:"size:10;default:fresh" json:"project_type"`
	RootPath          string           `gorm:"size:500" json:"root_path"`
	IsInitialized     bool             `gorm:"default:false" json:"is_initialized"`
	Files             []RepositoryFile `gorm:"serializer:json" json:"files"`
	CreatedBy         uint             `json:"created_by"`
	CreatedByUsername string           `gorm:"size:150" json:"created_by_username"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Repository) TableName() string { return "repositories" }

// FullName returns the repository name qualified by its project external id.
func (r *Repository) FullName() string {
	return r.ProjectSagileID + "/" + r.Name
}

// UpsertFile updates the record matching path in place, or appends a new one.
// A nil content leaves the stored content untouched, so metadata-only edits
// cannot wipe a file. Callers persist the repository afterwards.
func (r *Repository) UpsertFile(path, name, fileType string, size int64, content *string, modifiedBy uint, modifiedByUsername string) {
	now := time.Now().UTC()
	for i := range r.Files {
		if r.Files[i].FilePath == path {
			r.Files[i].FileName = name
			r.Files[i].FileType = fileType
			r.Files[i].FileSize = size
			if content != nil {
				r.Files[i].Content = *content
			}
			r.Files[i].LastModified = now
			r.Files[i].LastModifiedBy = modifiedBy
			r.Files[i].LastModifiedByUsername = modifiedByUsername
			return
		}
	}
	f := RepositoryFile{
		FilePath:               path,
		FileName:               name,
		FileType:               fileType,
		FileSize:               size,
		LastModified:           now,
		LastModifiedBy:         modifiedBy,
		LastModifiedByUsername: modifiedByUsername,
		CreatedAt:              now,
	}
	if content != nil {
		f.Content = *content
	}
	r.Files = append(r.Files, f)
}

// RemoveFile filters out the record matching path and reports whether one
// was removed. Removing a missing path is a silent no-op.
func (r *Repository) RemoveFile(path string) bool {
	for i := range r.Files {
		if r.Files[i].FilePath == path {
			r.Files = append(r.Files[:i], r.Files[i+1:]...)
			return true
		}
	}
	return false
}

// FileByPath returns the file record matching path, or nil.
func (r *Repository) FileByPath(path string) *RepositoryFile {
	for i := range r.Files {
		if r.Files[i].FilePath == path {
			return &r.Files[i]
		}
	}
	return nil
}

// FilesByType returns all file records of the given type.
func (r *Repository) FilesByType(fileType string) []RepositoryFile {
	var out []RepositoryFile
	for i := range r.Files {
		if r.Files[i].FileType == fileType {
			out = append(out, r.Files[i])
		}
	}
	return out
}

// FileCount returns the length of the file list.
func (r *Repository) FileCount() int {
	return len(r.Files)
}

// StatusDisplay describes the repository state for list views.
func (r *Repository) StatusDisplay() string {
	switch {
	case !r.IsInitialized:
		return "Not Initialized"
	case len(r.Files) == 0:
		return "Empty"
	default:
		return fmt.Sprintf("%d files", len(r.Files))
	}
}
