package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// CreateUserRequest DTO for admin-driven user creation.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateUserRequest DTO. Nil fields are left unchanged; a non-empty Password
// rotates the stored hash.
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"is_active"`
}

// UserService manages user accounts. All operations are admin-only; the
// route layer enforces that.
type UserService interface {
	CreateUser(req CreateUserRequest) (*models.User, error)
	GetUsers() ([]models.User, error)
	GetUserByID(id int64) (*models.User, error)
	UpdateUser(id int64, req UpdateUserRequest) (*models.User, error)
	DeleteUser(id int64) error
}

type userService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repositories.UserRepository, db *sql.DB) UserService {
	return &userService{userRepo: userRepo, db: db}
}

func (s *userService) CreateUser(req CreateUserRequest) (*models.User, error) {
	role, err := models.ParseRole(strings.ToLower(req.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, req.Role)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := models.User{
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		IsActive:  isActive,
	}

	createdID, err := s.userRepo.Create(s.db, &user, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.userRepo.FindByID(createdID)
}

func (s *userService) GetUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

func (s *userService) GetUserByID(id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(id int64, req UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if utils.IsEmpty(*req.Username) {
			return nil, fmt.Errorf("%w: username must not be empty", ErrValidation)
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		if utils.IsEmpty(*req.Email) {
			return nil, fmt.Errorf("%w: email must not be empty", ErrValidation)
		}
		user.Email = strings.ToLower(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		role, err := models.ParseRole(strings.ToLower(*req.Role))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, *req.Role)
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if req.Password != nil && *req.Password != "" {
		hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(id, string(hashedPasswordBytes)); err != nil {
			return nil, fmt.Errorf("failed to rotate password: %w", err)
		}
	}

	return user, nil
}

func (s *userService) DeleteUser(id int64) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
