package services

import (
	"errors"
	"time"

	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	SagileID    string     `json:"sagile_id" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MemberIDs   []uint     `json:"member_ids"`
}

type UpdateProjectRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	CurrentSprint *string    `json:"current_sprint"`
}

// Create validates the external id and seeds the membership ledger. The
// creator always becomes a member; ids in MemberIDs that match no user are
// skipped.
func (s *ProjectService) Create(actor Actor, req *CreateProjectRequest) (*models.Project, error) {
	if !models.ValidSagileID(req.SagileID) {
		return nil, response.NewBadRequest("project id must start with " + models.ProjectIDPrefix)
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	if !models.ValidProjectStatus(status) {
		return nil, response.NewBadRequest("invalid project status: " + status)
	}

	var count int64
	s.db.Model(&models.Project{}).Where("sagile_id = ?", req.SagileID).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("project id already exists: " + req.SagileID)
	}

	project := models.Project{
		SagileID:          req.SagileID,
		Name:              req.Name,
		Description:       req.Description,
		Status:            status,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		CreatedBy:         actor.ID,
		CreatedByUsername: actor.Username,
	}
	project.AddMember(actor.ID, actor.Username, actor.Role)

	for _, id := range req.MemberIDs {
		if id == actor.ID {
			continue
		}
		var user models.User
		if err := s.db.First(&user, id).Error; err != nil {
			continue // unknown ids are skipped, not fatal
		}
		project.AddMember(user.ID, user.Username, user.Role)
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns every project for managers and only membership projects for
// everyone else.
func (s *ProjectService) List(actor Actor) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	if actor.IsManager() {
		return projects, nil
	}

	visible := make([]models.Project, 0, len(projects))
	for i := range projects {
		if projects[i].IsMember(actor.ID) {
			visible = append(visible, projects[i])
		}
	}
	return visible, nil
}

// MyProjects returns the projects where the actor is an active member,
// regardless of global role.
func (s *ProjectService) MyProjects(actor Actor) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	mine := make([]models.Project, 0)
	for i := range projects {
		if projects[i].IsMember(actor.ID) {
			mine = append(mine, projects[i])
		}
	}
	return mine, nil
}

// Search matches name, description, and external id by substring, capped at
// 10 results, filtered by the actor's visibility.
func (s *ProjectService) Search(actor Actor, query string) ([]models.Project, error) {
	if query == "" {
		return nil, nil
	}
	like := "%" + query + "%"
	var projects []models.Project
	if err := s.db.
		Where("name LIKE ? OR description LIKE ? OR sagile_id LIKE ?", like, like, like).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	out := make([]models.Project, 0, 10)
	for i := range projects {
		if !CanAccessProject(actor, &projects[i]) {
			continue
		}
		out = append(out, projects[i])
		if len(out) == 10 {
			break
		}
	}
	return out, nil
}

// Get loads a project by external id and checks read access.
func (s *ProjectService) Get(actor Actor, sagileID string) (*models.Project, error) {
	project, err := s.find(sagileID)
	if err != nil {
		return nil, err
	}
	if !CanAccessProject(actor, project) {
		return nil, response.NewForbidden("no access to this project")
	}
	return project, nil
}

// Update applies a partial update. Managers and the creator only.
func (s *ProjectService) Update(actor Actor, sagileID string, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.find(sagileID)
	if err != nil {
		return nil, err
	}
	if !CanModifyProject(actor, project) {
		return nil, response.NewForbidden("only managers or the project creator can update it")
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidProjectStatus(*req.Status) {
			return nil, response.NewBadRequest("invalid project status: " + *req.Status)
		}
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.CurrentSprint != nil {
		project.CurrentSprint = *req.CurrentSprint
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete soft-deletes the project. Managers and the creator only.
func (s *ProjectService) Delete(actor Actor, sagileID string) error {
	project, err := s.find(sagileID)
	if err != nil {
		return err
	}
	if !CanModifyProject(actor, project) {
		return response.NewForbidden("only managers or the project creator can delete it")
	}
	return s.db.Delete(project).Error
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AddMember upserts a ledger entry. Managers and existing members may add;
// re-adding a removed user reactivates the old entry.
func (s *ProjectService) AddMember(actor Actor, sagileID string, req *AddMemberRequest) (*models.Project, error) {
	project, err := s.find(sagileID)
	if err != nil {
		return nil, err
	}
	if !CanAddMember(actor, project) {
		return nil, response.NewForbidden("no access to this project")
	}

	var user models.User
	if err := s.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = user.Role
	}
	if !models.ValidRole(role) {
		return nil, response.NewBadRequest("invalid role: " + role)
	}

	project.AddMember(user.ID, user.Username, role)
	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateMemberRole changes an active member's ledger role. Managers only.
func (s *ProjectService) UpdateMemberRole(actor Actor, sagileID string, userID uint, req *UpdateMemberRoleRequest) (*models.Project, error) {
	project, err := s.find(sagileID)
	if err != nil {
		return nil, err
	}
	if !CanManageMembers(actor) {
		return nil, response.NewForbidden("only managers can change member roles")
	}
	if !models.ValidRole(req.Role) {
		return nil, response.NewBadRequest("invalid role: " + req.Role)
	}

	member := project.MemberByID(userID)
	if member == nil {
		return nil, response.NewNotFound("member not found")
	}
	member.Role = req.Role

	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// RemoveMember soft-deletes the ledger entry. Managers only; removing a
// non-member succeeds silently.
func (s *ProjectService) RemoveMember(actor Actor, sagileID string, userID uint) error {
	project, err := s.find(sagileID)
	if err != nil {
		return err
	}
	if !CanManageMembers(actor) {
		return response.NewForbidden("only managers can remove members")
	}

	project.RemoveMember(userID)
	return s.db.Save(project).Error
}

// Members returns the active ledger entries.
func (s *ProjectService) Members(actor Actor, sagileID string) ([]models.Membership, error) {
	project, err := s.Get(actor, sagileID)
	if err != nil {
		return nil, err
	}
	active := make([]models.Membership, 0, len(project.Members))
	for _, m := range project.Members {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

// Member returns a single active ledger entry.
func (s *ProjectService) Member(actor Actor, sagileID string, userID uint) (*models.Membership, error) {
	project, err := s.Get(actor, sagileID)
	if err != nil {
		return nil, err
	}
	member := project.MemberByID(userID)
	if member == nil {
		return nil, response.NewNotFound("member not found")
	}
	return member, nil
}

func (s *ProjectService) find(sagileID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("sagile_id = ?", sagileID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found: " + sagileID)
		}
		return nil, err
	}
	return &project, nil
}
