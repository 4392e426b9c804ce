package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pharmacy_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	GetAll() ([]models.User, error)
	FindByID(id int64) (*models.User, error)
	// FindByLogin matches the login against both username and email.
	// It returns the user and their password hash.
	FindByLogin(login string) (*models.User, string, error)
	Update(user *models.User) error
	UpdatePassword(id int64, hashedPassword string) error
	UpdateLastLogin(id int64, at time.Time) error
	Delete(id int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, first_name, last_name, role, is_active, last_login, created_at, updated_at`

func (r *userRepository) Create(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, first_name, last_name, role, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	currentTime := time.Now()

	var userID int64
	err := executor.QueryRow(query,
		user.Username, hashedPassword, user.Email, user.FirstName, user.LastName,
		user.Role, user.IsActive, currentTime, currentTime,
	).Scan(&userID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			// The constraint name tells the service layer which field clashed.
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return userID, nil
}

func (r *userRepository) GetAll() ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var lastLogin sql.NullTime
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
			&u.Role, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		if lastLogin.Valid {
			u.LastLogin = &lastLogin.Time
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating users: %v", ErrDatabaseError, err)
	}
	return users, nil
}

func (r *userRepository) FindByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u models.User
	var lastLogin sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, id, err)
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

func (r *userRepository) FindByLogin(login string) (*models.User, string, error) {
	query := `SELECT id, username, password_hash, email, first_name, last_name, role, is_active, last_login, created_at, updated_at
	          FROM users
	          WHERE username = $1 OR email = $1`

	var u models.User
	var hashedPassword string
	var lastLogin sql.NullTime
	err := r.db.QueryRow(query, login).Scan(
		&u.ID, &u.Username, &hashedPassword, &u.Email, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by login %s: %v", ErrDatabaseError, login, err)
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, hashedPassword, nil
}

func (r *userRepository) Update(user *models.User) error {
	query := `UPDATE users
	          SET username = $1, email = $2, first_name = $3, last_name = $4, role = $5, is_active = $6, updated_at = $7
	          WHERE id = $8
	          RETURNING updated_at`

	err := r.db.QueryRow(query,
		user.Username, user.Email, user.FirstName, user.LastName,
		user.Role, user.IsActive, time.Now(), user.ID,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating user %d: %v", ErrDatabaseError, user.ID, err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(id int64, hashedPassword string) error {
	result, err := r.db.Exec(`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hashedPassword, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating password for user %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(id int64, at time.Time) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("%w: updating last login for user %d: %v", ErrDatabaseError, id, err)
	}
	return nil
}

func (r *userRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("%w: deleting user %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
