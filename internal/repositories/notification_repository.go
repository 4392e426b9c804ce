package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pharmacy_backend/internal/models"
)

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	Create(notification *models.Notification) (int64, error)
	GetAll() ([]models.Notification, error)
	MarkRead(id int64) (*models.Notification, error)
	DeleteAll() error
}

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) (int64, error) {
	query := `INSERT INTO notifications (message, type, read, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`

	if notification.Type == "" {
		notification.Type = "info"
	}

	err := r.db.QueryRow(query, notification.Message, notification.Type, false, time.Now()).
		Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: creating notification: %v", ErrDatabaseError, err)
	}
	return notification.ID, nil
}

func (r *notificationRepository) GetAll() ([]models.Notification, error) {
	rows, err := r.db.Query(`SELECT id, message, type, read, created_at FROM notifications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting notifications: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning notification: %v", ErrDatabaseError, err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating notifications: %v", ErrDatabaseError, err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(id int64) (*models.Notification, error) {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1
	          RETURNING id, message, type, read, created_at`

	var n models.Notification
	err := r.db.QueryRow(query, id).Scan(&n.ID, &n.Message, &n.Type, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: marking notification %d read: %v", ErrDatabaseError, id, err)
	}
	return &n, nil
}

func (r *notificationRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM notifications`); err != nil {
		return fmt.Errorf("%w: clearing notifications: %v", ErrDatabaseError, err)
	}
	return nil
}
