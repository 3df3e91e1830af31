package services

import (
	"errors"

	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/internal/utils"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type UpdateUserRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Avatar         *string `json:"avatar"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"github_username"`
	Role           *string `json:"role"`
	IsActive       *bool   `json:"is_active"`
}

// Register creates a local account. Username and email must be unused;
// passwords are bcrypt-hashed before storage.
func (s *UserService) Register(req *RegisterRequest) (*models.User, error) {
	if len(req.Password) < 8 {
		return nil, response.NewBadRequest("password must be at least 8 characters")
	}

	role := req.Role
	if role == "" {
		role = models.RoleDeveloper
	}
	if !models.ValidRole(role) {
		return nil, response.NewBadRequest("invalid role: " + role)
	}

	var count int64
	s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("username already taken")
	}
	s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		AuthType:  models.AuthTypeLocal,
		IsActive:  true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// List returns active users ordered by username.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("is_active = ?", true).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches username, email, first or last name by substring, capped
// at 10 results.
func (s *UserService) Search(query string) ([]models.User, error) {
	if query == "" {
		return nil, nil
	}
	like := "%" + query + "%"
	var users []models.User
	if err := s.db.
		Where("is_active = ?", true).
		Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like, like).
		Order("username").
		Limit(10).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies a partial update. Role and active-flag changes are the
// caller's responsibility to authorize.
func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.GithubUsername != nil {
		user.GithubUsername = *req.GithubUsername
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, response.NewBadRequest("invalid role: " + *req.Role)
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
