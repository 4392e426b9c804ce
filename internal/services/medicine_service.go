package services

import (
	"errors"
	"fmt"
	"time"

	"pharmacy_backend/internal/classification"
	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/reporting"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrValidation       = errors.New("validation failed")
	// ErrBadDate covers unparsable dates: a data error, distinct from a
	// missing required field.
	ErrBadDate = errors.New("unparsable date")
)

// DateLayout is the wire format for expiry and purchase dates.
const DateLayout = "2006-01-02"

// CreateMedicineRequest DTO. Dates travel as "YYYY-MM-DD" strings.
type CreateMedicineRequest struct {
	Name         string          `json:"name" binding:"required"`
	BatchNo      string          `json:"batch_no" binding:"required"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	ExpiryDate   string          `json:"expiry_date" binding:"required"`
	Manufacturer string          `json:"manufacturer"`
	PurchaseDate string          `json:"purchase_date"`
}

// UpdateMedicineRequest DTO. Nil fields are left unchanged.
type UpdateMedicineRequest struct {
	Name         *string          `json:"name"`
	BatchNo      *string          `json:"batch_no"`
	Category     *string          `json:"category"`
	Quantity     *int             `json:"quantity"`
	Unit         *string          `json:"unit"`
	Price        *decimal.Decimal `json:"price"`
	ExpiryDate   *string          `json:"expiry_date"`
	Manufacturer *string          `json:"manufacturer"`
	PurchaseDate *string          `json:"purchase_date"`
}

// MedicineService manages the medicine inventory and its expiry reporting.
type MedicineService interface {
	CreateMedicine(req CreateMedicineRequest) (*models.Medicine, error)
	GetMedicines() ([]models.Medicine, error)
	GetMedicineByID(id int64) (*models.Medicine, error)
	UpdateMedicine(id int64, req UpdateMedicineRequest) (*models.Medicine, error)
	DeleteMedicine(id int64) error
	// ExpiryStatus groups the whole inventory by expiry category.
	// horizonDays <= 0 uses the configured default.
	ExpiryStatus(horizonDays int) (*reporting.ExpiryReport, error)
}

type medicineService struct {
	medicineRepo repositories.MedicineRepository
	activityRepo repositories.ActivityRepository
	engineCfg    classification.Config
	now          func() time.Time
}

// NewMedicineService creates a new instance of MedicineService.
func NewMedicineService(medicineRepo repositories.MedicineRepository, activityRepo repositories.ActivityRepository, engineCfg classification.Config) MedicineService {
	return &medicineService{
		medicineRepo: medicineRepo,
		activityRepo: activityRepo,
		engineCfg:    engineCfg,
		now:          time.Now,
	}
}

func (s *medicineService) CreateMedicine(req CreateMedicineRequest) (*models.Medicine, error) {
	if utils.IsEmpty(req.Name) || utils.IsEmpty(req.BatchNo) {
		return nil, fmt.Errorf("%w: name and batch_no are required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	expiryDate, err := time.Parse(DateLayout, req.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expiry_date %q is not a valid %s date", ErrBadDate, req.ExpiryDate, DateLayout)
	}

	medicine := models.Medicine{
		Name:         req.Name,
		BatchNo:      req.BatchNo,
		Category:     req.Category,
		Quantity:     classification.ClampQuantity(req.Quantity),
		Unit:         req.Unit,
		Price:        req.Price,
		ExpiryDate:   &expiryDate,
		Manufacturer: req.Manufacturer,
	}
	if medicine.Category == "" {
		medicine.Category = models.DefaultMedicineCategory
	}
	if medicine.Unit == "" {
		medicine.Unit = models.DefaultMedicineUnit
	}
	if medicine.Manufacturer == "" {
		medicine.Manufacturer = models.DefaultManufacturer
	}
	if req.PurchaseDate != "" {
		purchaseDate, err := time.Parse(DateLayout, req.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: purchase_date %q is not a valid %s date", ErrBadDate, req.PurchaseDate, DateLayout)
		}
		medicine.PurchaseDate = purchaseDate
	}
	// No expiry>purchase check: backdated batches are entered as-is.

	if _, err := s.medicineRepo.Create(&medicine); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	s.recordActivity("added", medicine.Name, fmt.Sprintf("batch %s, %d %s", medicine.BatchNo, medicine.Quantity, medicine.Unit))
	return &medicine, nil
}

func (s *medicineService) GetMedicines() ([]models.Medicine, error) {
	return s.medicineRepo.GetAll()
}

func (s *medicineService) GetMedicineByID(id int64) (*models.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, fmt.Errorf("failed to retrieve medicine: %w", err)
	}
	return medicine, nil
}

func (s *medicineService) UpdateMedicine(id int64, req UpdateMedicineRequest) (*models.Medicine, error) {
	medicine, err := s.GetMedicineByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		medicine.Name = *req.Name
	}
	if req.BatchNo != nil {
		if utils.IsEmpty(*req.BatchNo) {
			return nil, fmt.Errorf("%w: batch_no must not be empty", ErrValidation)
		}
		medicine.BatchNo = *req.BatchNo
	}
	if req.Category != nil {
		medicine.Category = *req.Category
	}
	if req.Quantity != nil {
		medicine.Quantity = classification.ClampQuantity(*req.Quantity)
	}
	if req.Unit != nil {
		medicine.Unit = *req.Unit
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		medicine.Price = *req.Price
	}
	if req.ExpiryDate != nil {
		expiryDate, err := time.Parse(DateLayout, *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expiry_date %q is not a valid %s date", ErrBadDate, *req.ExpiryDate, DateLayout)
		}
		medicine.ExpiryDate = &expiryDate
	}
	if req.Manufacturer != nil {
		medicine.Manufacturer = *req.Manufacturer
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := time.Parse(DateLayout, *req.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: purchase_date %q is not a valid %s date", ErrBadDate, *req.PurchaseDate, DateLayout)
		}
		medicine.PurchaseDate = purchaseDate
	}

	if err := s.medicineRepo.Update(medicine); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, fmt.Errorf("failed to update medicine: %w", err)
	}

	s.recordActivity("updated", medicine.Name, fmt.Sprintf("batch %s", medicine.BatchNo))
	return medicine, nil
}

func (s *medicineService) DeleteMedicine(id int64) error {
	medicine, err := s.GetMedicineByID(id)
	if err != nil {
		return err
	}

	if err := s.medicineRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMedicineNotFound
		}
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	s.recordActivity("deleted", medicine.Name, fmt.Sprintf("batch %s", medicine.BatchNo))
	return nil
}

func (s *medicineService) ExpiryStatus(horizonDays int) (*reporting.ExpiryReport, error) {
	medicines, err := s.medicineRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load medicines for expiry report: %w", err)
	}

	report := reporting.GroupByExpiry(medicines, s.engineCfg.WithHorizon(horizonDays), s.now())
	return &report, nil
}

// recordActivity writes an audit entry. Failures are logged but never fail
// the inventory operation itself.
func (s *medicineService) recordActivity(action, medicineName, details string) {
	entry := models.RecentActivity{
		Action:       action,
		MedicineName: medicineName,
		Details:      details,
	}
	if _, err := s.activityRepo.Create(&entry); err != nil {
		utils.LogError(err, "recordActivity: failed to write activity log entry")
	}
}
