// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

// UserService manages staff accounts once they exist. Account creation and
// login live in AuthService.
type UserService struct {
	db *gorm.DB
}

type UserFilter struct {
	utils.PaginationParams
	IsActive *bool `json:"is_active,omitempty"`
}

type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, storeError("user", err)
	}
	return &user, nil
}

// IsActiveStaff reports whether userID names an existing, enabled staff
// account. A missing user is reported as false.
func (s *UserService) IsActiveStaff(userID uint) (bool, error) {
	var user models.User
	err := s.db.Select("id", "is_staff", "is_active").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	return user.IsStaff && user.IsActive, nil
}

func (s *UserService) ListUsers(filter UserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(`(LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(full_name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "username", "last_login_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	if err := s.db.Model(user).Select("email", "full_name").Updates(user).Error; err != nil {
		return nil, storeError("failed to update profile", err)
	}
	return user, nil
}

// ChangePassword requires the current password even for staff changing
// their own account.
func (s *UserService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return validationError(err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return storeError("failed to change password", err)
	}
	return nil
}

// SetActive enables or disables an account. Staff cannot disable themselves,
// so at least one active account always survives.
func (s *UserService) SetActive(userID, actorID uint, active bool) (*models.User, error) {
	if userID == actorID && !active {
		return nil, validationError(errors.New("cannot deactivate your own account"))
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if user.IsActive == active {
		return user, nil
	}

	user.IsActive = active
	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, storeError("failed to update user status", err)
	}
	return user, nil
}
