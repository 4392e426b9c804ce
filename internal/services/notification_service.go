package services

import (
	"fmt"
	"time"

	"pharmacy_backend/internal/classification"
	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"
)

// NotificationService produces inventory alerts.
type NotificationService interface {
	// GenerateExpiryAlerts scans the inventory and records one notification
	// per medicine that is expired or expiring within the configured horizon.
	// It returns the number of notifications created.
	GenerateExpiryAlerts() (int, error)
}

type notificationService struct {
	medicineRepo     repositories.MedicineRepository
	notificationRepo repositories.NotificationRepository
	engineCfg        classification.Config
	now              func() time.Time
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(medicineRepo repositories.MedicineRepository, notificationRepo repositories.NotificationRepository, engineCfg classification.Config) NotificationService {
	return &notificationService{
		medicineRepo:     medicineRepo,
		notificationRepo: notificationRepo,
		engineCfg:        engineCfg,
		now:              time.Now,
	}
}

func (s *notificationService) GenerateExpiryAlerts() (int, error) {
	now := s.now()
	// Only rows expiring up to the horizon can produce an alert, so the scan
	// is bounded instead of loading the whole inventory.
	to := now.AddDate(0, 0, s.engineCfg.HorizonDays)
	medicines, err := s.medicineRepo.GetByExpiryRange(nil, &to)
	if err != nil {
		return 0, fmt.Errorf("failed to load medicines for expiry scan: %w", err)
	}

	created := 0
	for _, med := range medicines {
		res, err := s.engineCfg.Classify(med, now)
		if err != nil {
			continue
		}

		var notification models.Notification
		switch res.Expiry {
		case classification.StatusExpired:
			notification = models.Notification{
				Message: fmt.Sprintf("%s (batch %s) expired on %s", med.Name, med.BatchNo, med.ExpiryDate.Format(DateLayout)),
				Type:    "error",
			}
		case classification.StatusExpiringSoon:
			notification = models.Notification{
				Message: fmt.Sprintf("%s (batch %s) expires in %d days", med.Name, med.BatchNo, res.DaysUntilExpiry),
				Type:    "warning",
			}
		default:
			continue
		}

		if _, err := s.notificationRepo.Create(&notification); err != nil {
			return created, fmt.Errorf("failed to store expiry alert: %w", err)
		}
		created++
	}
	return created, nil
}
