package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"pharmacy_backend/internal/models"
)

// ActivityRepository defines the interface for recent-activity log persistence.
type ActivityRepository interface {
	Create(activity *models.RecentActivity) (int64, error)
	GetRecent(limit int) ([]models.RecentActivity, error)
	Delete(id int64) error
}

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *models.RecentActivity) (int64, error) {
	query := `INSERT INTO recent_activities (action, medicine_name, details, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`

	err := r.db.QueryRow(query, activity.Action, activity.MedicineName, activity.Details, time.Now()).
		Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: creating activity entry: %v", ErrDatabaseError, err)
	}
	return activity.ID, nil
}

func (r *activityRepository) GetRecent(limit int) ([]models.RecentActivity, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(
		`SELECT id, action, medicine_name, details, created_at FROM recent_activities ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("%w: getting recent activities: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	activities := []models.RecentActivity{}
	for rows.Next() {
		var a models.RecentActivity
		if err := rows.Scan(&a.ID, &a.Action, &a.MedicineName, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning activity entry: %v", ErrDatabaseError, err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating activities: %v", ErrDatabaseError, err)
	}
	return activities, nil
}

func (r *activityRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM recent_activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting activity entry %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
