package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrRoleNotFound       = errors.New("specified role not found")
	// ErrRoleNotAllowed guards public registration: elevated roles are
	// assigned through admin user management only.
	ErrRoleNotAllowed     = errors.New("role not permitted at registration")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO. Login accepts a username or an email address.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserRequest DTO
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"` // Only "user" (or empty) is accepted; see ErrRoleNotAllowed.
}

// AuthResponse DTO
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(req RegisterUserRequest) (*models.User, error)
	LoginUser(req LoginRequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo      repositories.UserRepository
	db            *sql.DB
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository, db *sql.DB, jwtSecret string, jwtExp time.Duration) AuthService {
	return &authService{
		userRepo:      userRepo,
		db:            db,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExp,
	}
}

// RegisterUser handles the business logic for user registration. The public
// endpoint never hands out elevated roles: an anonymous caller asking for
// admin or pharmacist is rejected, those accounts come from admin user
// management.
func (s *authService) RegisterUser(req RegisterUserRequest) (*models.User, error) {
	role := models.RoleUser
	if req.Role != "" {
		parsed, err := models.ParseRole(strings.ToLower(req.Role))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, req.Role)
		}
		if parsed != models.RoleUser {
			return nil, fmt.Errorf("%w: %q", ErrRoleNotAllowed, req.Role)
		}
		role = parsed
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		IsActive:  true,
	}

	createdID, err := s.userRepo.Create(s.db, &user, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	registeredUser, fetchErr := s.userRepo.FindByID(createdID)
	if fetchErr != nil {
		// The user was created but fetching full details failed; return at
		// least the identifier.
		user.ID = createdID
		return &user, fmt.Errorf("user registered but failed to retrieve full details: %w", fetchErr)
	}
	return registeredUser, nil
}

// LoginUser handles user login and token generation. Inactive accounts are
// indistinguishable from bad credentials on purpose.
func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	user, storedHashedPassword, err := s.userRepo.FindByLogin(req.Login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		// Not fatal for the login itself.
		utils.LogError(err, "LoginUser: failed to record last login")
	} else {
		user.LastLogin = &now
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
	}, nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	return user, nil
}

// duplicateUserError maps a unique-constraint violation to the field-specific
// service error based on the constraint name embedded by the repository.
func duplicateUserError(err error) error {
	if strings.Contains(err.Error(), "users_username_key") {
		return ErrUsernameExists
	}
	if strings.Contains(err.Error(), "users_email_key") {
		return ErrEmailExists
	}
	return fmt.Errorf("%w: username or email already taken", ErrUsernameExists)
}
