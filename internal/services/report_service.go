package services

import (
	"fmt"
	"time"

	"pharmacy_backend/internal/classification"
	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/reporting"
	"pharmacy_backend/internal/repositories"
)

// DashboardSummary is the aggregate payload behind the dashboard screen.
type DashboardSummary struct {
	reporting.Summary
	RecentAdditions  []models.Medicine       `json:"recent_additions"`
	RecentActivities []models.RecentActivity `json:"recent_activities"`
}

// ReportService produces dashboard summaries and downloadable reports over
// the whole inventory.
type ReportService interface {
	GetDashboardSummary() (*DashboardSummary, error)
	// ExportReport renders the full inventory in the requested format.
	// It propagates reporting.ErrNoData and reporting.ErrUnknownFormat.
	ExportReport(format string) (*reporting.File, error)
}

type reportService struct {
	medicineRepo repositories.MedicineRepository
	activityRepo repositories.ActivityRepository
	engineCfg    classification.Config
	exporter     *reporting.Exporter
	now          func() time.Time
}

// NewReportService creates a new instance of ReportService.
func NewReportService(medicineRepo repositories.MedicineRepository, activityRepo repositories.ActivityRepository, engineCfg classification.Config, currencySymbol string) ReportService {
	return &reportService{
		medicineRepo: medicineRepo,
		activityRepo: activityRepo,
		engineCfg:    engineCfg,
		exporter:     reporting.NewExporter(engineCfg, currencySymbol),
		now:          time.Now,
	}
}

func (s *reportService) GetDashboardSummary() (*DashboardSummary, error) {
	medicines, err := s.medicineRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load medicines for dashboard: %w", err)
	}

	summary := DashboardSummary{
		Summary:         reporting.Summarize(medicines, s.engineCfg, s.now()),
		RecentAdditions: reporting.RecentAdditions(medicines, reporting.DefaultRecentLimit),
	}

	activities, err := s.activityRepo.GetRecent(10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activities: %w", err)
	}
	summary.RecentActivities = activities

	return &summary, nil
}

func (s *reportService) ExportReport(format string) (*reporting.File, error) {
	parsed, err := reporting.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	medicines, err := s.medicineRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load medicines for export: %w", err)
	}

	return s.exporter.Export(medicines, parsed, s.now())
}
