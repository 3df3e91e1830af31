package services

import (
	"errors"

	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

type RepositoryService struct {
	db        *gorm.DB
	projects  *ProjectService
	templates *TemplateService
}

func NewRepositoryService(db *gorm.DB, projects *ProjectService, templates *TemplateService) *RepositoryService {
	return &RepositoryService{db: db, projects: projects, templates: templates}
}

type CreateRepositoryRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	ProjectID   string            `json:"project_id" binding:"required"` // PROJ-*
	AccessLevel string            `json:"access_level"`
	ProjectType string            `json:"project_type"`
	TemplateID  string            `json:"template_id"`
	Variables   map[string]string `json:"variables"`
}

type UpdateRepositoryRequest struct {
	Description *string `json:"description"`
	AccessLevel *string `json:"access_level"`
}

// Create validates the name, links the repository to its project, and
// applies a template when the project type asks for one. A project holds at
// most one repository, tracked by the HasRepository flag.
func (s *RepositoryService) Create(actor Actor, req *CreateRepositoryRequest) (*models.Repository, error) {
	if !models.ValidRepositoryName(req.Name) {
		return nil, response.NewBadRequest("repository name must be 3-100 lowercase letters, digits or hyphens")
	}

	project, err := s.projects.Get(actor, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.HasRepository {
		return nil, response.NewConflict("project already has a repository: " + project.SagileID)
	}

	accessLevel := req.AccessLevel
	if accessLevel == "" {
		accessLevel = models.AccessPrivate
	}
	if !models.ValidAccessLevel(accessLevel) {
		return nil, response.NewBadRequest("invalid access level: " + accessLevel)
	}

	projectType := req.ProjectType
	if projectType == "" {
		projectType = models.RepoTypeFresh
	}
	if !models.ValidRepoType(projectType) {
		return nil, response.NewBadRequest("invalid project type: " + projectType)
	}
	if projectType == models.RepoTypeTemplate && req.TemplateID == "" {
		return nil, response.NewBadRequest("template_id required for template repositories")
	}

	repo := models.Repository{
		Name:              req.Name,
		Description:       req.Description,
		ProjectID:         project.ID,
		ProjectSagileID:   project.SagileID,
		AccessLevel:       accessLevel,
		ProjectType:       projectType,
		RootPath:          "/" + req.Name,
		CreatedBy:         actor.ID,
		CreatedByUsername: actor.Username,
	}

	if err := s.db.Create(&repo).Error; err != nil {
		return nil, err
	}

	project.HasRepository = true
	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}

	if projectType == models.RepoTypeTemplate {
		if err := s.templates.Apply(&repo, req.TemplateID, req.Variables); err != nil {
			var appErr *response.AppError
			if errors.As(err, &appErr) {
				return nil, response.NewBadRequest("template application failed: " + appErr.Message)
			}
			return nil, err
		}
	}

	return &repo, nil
}

// ListByProject returns the project's repositories, access-gated.
func (s *RepositoryService) ListByProject(actor Actor, projectSagileID string) ([]models.Repository, error) {
	project, err := s.projects.Get(actor, projectSagileID)
	if err != nil {
		return nil, err
	}
	var repos []models.Repository
	if err := s.db.Where("project_id = ?", project.ID).Order("created_at DESC").Find(&repos).Error; err != nil {
		return nil, err
	}
	return repos, nil
}

// Get loads a repository and checks access through its project.
func (s *RepositoryService) Get(actor Actor, id uint) (*models.Repository, error) {
	repo, _, err := s.findWithProject(actor, id)
	return repo, err
}

// Update applies a partial update; any project member may edit.
func (s *RepositoryService) Update(actor Actor, id uint, req *UpdateRepositoryRequest) (*models.Repository, error) {
	repo, project, err := s.findWithProject(actor, id)
	if err != nil {
		return nil, err
	}
	if !CanUpdateRepository(actor, project) {
		return nil, response.NewForbidden("no access to this repository")
	}

	if req.Description != nil {
		repo.Description = *req.Description
	}
	if req.AccessLevel != nil {
		if !models.ValidAccessLevel(*req.AccessLevel) {
			return nil, response.NewBadRequest("invalid access level: " + *req.AccessLevel)
		}
		repo.AccessLevel = *req.AccessLevel
	}

	if err := s.db.Save(repo).Error; err != nil {
		return nil, err
	}
	return repo, nil
}

// Delete removes the repository and clears the project's HasRepository flag.
// Managers and the repository creator only.
func (s *RepositoryService) Delete(actor Actor, id uint) error {
	repo, project, err := s.findWithProject(actor, id)
	if err != nil {
		return err
	}
	if !CanDeleteRepository(actor, repo) {
		return response.NewForbidden("only managers or the repository creator can delete it")
	}

	if err := s.db.Delete(repo).Error; err != nil {
		return err
	}

	if project.HasRepository {
		project.HasRepository = false
		return s.db.Save(project).Error
	}
	return nil
}

type UpsertFileRequest struct {
	FilePath string  `json:"file_path" binding:"required"`
	FileName string  `json:"file_name" binding:"required"`
	FileType string  `json:"file_type"`
	Content  *string `json:"content"`
}

// UpsertFile adds or updates a file record, stamping the acting user as the
// modifier. A request without content leaves the stored content untouched.
func (s *RepositoryService) UpsertFile(actor Actor, repoID uint, req *UpsertFileRequest) (*models.Repository, error) {
	repo, project, err := s.findWithProject(actor, repoID)
	if err != nil {
		return nil, err
	}
	if !CanUpdateRepository(actor, project) {
		return nil, response.NewForbidden("no access to this repository")
	}

	fileType := req.FileType
	if fileType == "" {
		fileType = models.FileTypeOther
	}
	if !models.ValidFileType(fileType) {
		return nil, response.NewBadRequest("invalid file type: " + fileType)
	}

	var size int64
	if req.Content != nil {
		size = int64(len(*req.Content))
	} else if existing := repo.FileByPath(req.FilePath); existing != nil {
		size = existing.FileSize
	}

	repo.UpsertFile(req.FilePath, req.FileName, fileType, size, req.Content, actor.ID, actor.Username)
	if err := s.db.Save(repo).Error; err != nil {
		return nil, err
	}
	return repo, nil
}

// RemoveFile deletes a file record. Removing a missing path succeeds
// silently.
func (s *RepositoryService) RemoveFile(actor Actor, repoID uint, path string) error {
	repo, project, err := s.findWithProject(actor, repoID)
	if err != nil {
		return err
	}
	if !CanUpdateRepository(actor, project) {
		return response.NewForbidden("no access to this repository")
	}

	if repo.RemoveFile(path) {
		return s.db.Save(repo).Error
	}
	return nil
}

// File returns a single file record by path.
func (s *RepositoryService) File(actor Actor, repoID uint, path string) (*models.RepositoryFile, error) {
	repo, _, err := s.findWithProject(actor, repoID)
	if err != nil {
		return nil, err
	}
	file := repo.FileByPath(path)
	if file == nil {
		return nil, response.NewNotFound("file not found: " + path)
	}
	return file, nil
}

// Files returns the repository file list, optionally filtered by type.
func (s *RepositoryService) Files(actor Actor, repoID uint, fileType string) ([]models.RepositoryFile, error) {
	repo, _, err := s.findWithProject(actor, repoID)
	if err != nil {
		return nil, err
	}
	if fileType == "" {
		return repo.Files, nil
	}
	if !models.ValidFileType(fileType) {
		return nil, response.NewBadRequest("invalid file type: " + fileType)
	}
	return repo.FilesByType(fileType), nil
}

// ApplyTemplate materializes a template into an existing repository.
func (s *RepositoryService) ApplyTemplate(actor Actor, repoID uint, templateID string, vars map[string]string) (*models.Repository, error) {
	repo, project, err := s.findWithProject(actor, repoID)
	if err != nil {
		return nil, err
	}
	if !CanUpdateRepository(actor, project) {
		return nil, response.NewForbidden("no access to this repository")
	}
	if err := s.templates.Apply(repo, templateID, vars); err != nil {
		return nil, err
	}
	return repo, nil
}

func (s *RepositoryService) findWithProject(actor Actor, id uint) (*models.Repository, *models.Project, error) {
	var repo models.Repository
	if err := s.db.First(&repo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("repository not found")
		}
		return nil, nil, err
	}

	var project models.Project
	if err := s.db.First(&project, repo.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("project not found")
		}
		return nil, nil, err
	}

	if !CanAccessProject(actor, &project) {
		return nil, nil, response.NewForbidden("no access to this repository")
	}
	return &repo, &project, nil
}
