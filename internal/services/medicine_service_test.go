package services

import (
	"testing"
	"time"

	"pharmacy_backend/internal/classification"
	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMedicineRepo is an in-memory MedicineRepository.
type fakeMedicineRepo struct {
	medicines map[int64]models.Medicine
	nextID    int64
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: map[int64]models.Medicine{}, nextID: 1}
}

func (f *fakeMedicineRepo) Create(m *models.Medicine) (int64, error) {
	m.ID = f.nextID
	f.nextID++
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	f.medicines[m.ID] = *m
	return m.ID, nil
}

func (f *fakeMedicineRepo) GetAll() ([]models.Medicine, error) {
	out := []models.Medicine{}
	for _, m := range f.medicines {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMedicineRepo) GetByID(id int64) (*models.Medicine, error) {
	m, ok := f.medicines[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMedicineRepo) GetByExpiryRange(from, to *time.Time) ([]models.Medicine, error) {
	out := []models.Medicine{}
	for _, m := range f.medicines {
		if m.ExpiryDate == nil {
			continue
		}
		if from != nil && m.ExpiryDate.Before(*from) {
			continue
		}
		if to != nil && m.ExpiryDate.After(*to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMedicineRepo) Update(m *models.Medicine) error {
	if _, ok := f.medicines[m.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.UpdatedAt = time.Now()
	f.medicines[m.ID] = *m
	return nil
}

func (f *fakeMedicineRepo) Delete(id int64) error {
	if _, ok := f.medicines[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.medicines, id)
	return nil
}

// fakeActivityRepo records activity entries in memory.
type fakeActivityRepo struct {
	entries []models.RecentActivity
	failing bool
}

func (f *fakeActivityRepo) Create(a *models.RecentActivity) (int64, error) {
	if f.failing {
		return 0, repositories.ErrDatabaseError
	}
	a.ID = int64(len(f.entries) + 1)
	a.CreatedAt = time.Now()
	f.entries = append(f.entries, *a)
	return a.ID, nil
}

func (f *fakeActivityRepo) Delete(id int64) error {
	for i, entry := range f.entries {
		if entry.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeActivityRepo) GetRecent(limit int) ([]models.RecentActivity, error) {
	if limit <= 0 || limit > len(f.entries) {
		limit = len(f.entries)
	}
	out := make([]models.RecentActivity, limit)
	for i := 0; i < limit; i++ {
		out[i] = f.entries[len(f.entries)-1-i]
	}
	return out, nil
}

func newTestMedicineService() (MedicineService, *fakeMedicineRepo, *fakeActivityRepo) {
	medRepo := newFakeMedicineRepo()
	actRepo := &fakeActivityRepo{}
	svc := NewMedicineService(medRepo, actRepo, classification.DefaultConfig())
	return svc, medRepo, actRepo
}

func TestCreateMedicineAppliesDefaults(t *testing.T) {
	svc, _, actRepo := newTestMedicineService()

	created, err := svc.CreateMedicine(CreateMedicineRequest{
		Name:       "Paracetamol",
		BatchNo:    "B-100",
		Quantity:   20,
		Price:      decimal.NewFromFloat(5.25),
		ExpiryDate: "2027-06-30",
	})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultMedicineCategory, created.Category)
	assert.Equal(t, models.DefaultMedicineUnit, created.Unit)
	assert.Equal(t, models.DefaultManufacturer, created.Manufacturer)
	require.NotNil(t, created.ExpiryDate)
	assert.Equal(t, "2027-06-30", created.ExpiryDate.Format(DateLayout))

	require.Len(t, actRepo.entries, 1)
	assert.Equal(t, "added", actRepo.entries[0].Action)
	assert.Equal(t, "Paracetamol", actRepo.entries[0].MedicineName)
}

func TestCreateMedicineClampsNegativeQuantity(t *testing.T) {
	svc, _, _ := newTestMedicineService()

	created, err := svc.CreateMedicine(CreateMedicineRequest{
		Name:       "Ibuprofen",
		BatchNo:    "B-200",
		Quantity:   -5,
		ExpiryDate: "2027-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.Quantity)
}

func TestCreateMedicineRejectsNegativePrice(t *testing.T) {
	svc, _, _ := newTestMedicineService()

	_, err := svc.CreateMedicine(CreateMedicineRequest{
		Name:       "Aspirin",
		BatchNo:    "B-300",
		Price:      decimal.NewFromInt(-1),
		ExpiryDate: "2027-01-01",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateMedicineRejectsMalformedDate(t *testing.T) {
	svc, _, _ := newTestMedicineService()

	_, err := svc.CreateMedicine(CreateMedicineRequest{
		Name:       "Aspirin",
		BatchNo:    "B-300",
		ExpiryDate: "30/06/2027",
	})
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestUpdateMedicinePartial(t *testing.T) {
	svc, _, actRepo := newTestMedicineService()

	created, err := svc.CreateMedicine(CreateMedicineRequest{
		Name:       "Amoxicillin",
		BatchNo:    "B-400",
		Quantity:   10,
		Unit:       "Bottle",
		Price:      decimal.NewFromInt(12),
		ExpiryDate: "2026-12-01",
	})
	require.NoError(t, err)

	newQty := 3
	updated, err := svc.UpdateMedicine(created.ID, UpdateMedicineRequest{Quantity: &newQty})
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, "Amoxicillin", updated.Name)
	assert.Equal(t, "Bottle", updated.Unit)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(12)))

	require.Len(t, actRepo.entries, 2)
	assert.Equal(t, "updated", actRepo.entries[1].Action)
}

func TestUpdateMedicineNotFound(t *testing.T) {
	svc, _, _ := newTestMedicineService()

	name := "Ghost"
	_, err := svc.UpdateMedicine(999, UpdateMedicineRequest{Name: &name})
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestDeleteMedicineRecordsActivity(t *testing.T) {
	svc, medRepo, actRepo := newTestMedicineService()

	created, err := svc.CreateMedicine(CreateMedicineRequest{
		Name:       "Cetirizine",
		BatchNo:    "B-500",
		ExpiryDate: "2027-03-01",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMedicine(created.ID))
	assert.Empty(t, medRepo.medicines)

	require.Len(t, actRepo.entries, 2)
	assert.Equal(t, "deleted", actRepo.entries[1].Action)
}

func TestActivityFailureDoesNotFailOperation(t *testing.T) {
	medRepo := newFakeMedicineRepo()
	actRepo := &fakeActivityRepo{failing: true}
	svc := NewMedicineService(medRepo, actRepo, classification.DefaultConfig())

	_, err := svc.CreateMedicine(CreateMedicineRequest{
		Name:       "Paracetamol",
		BatchNo:    "B-600",
		ExpiryDate: "2027-06-30",
	})
	assert.NoError(t, err)
	assert.Len(t, medRepo.medicines, 1)
}

func TestExpiryStatusGroupsInventory(t *testing.T) {
	svc, medRepo, _ := newTestMedicineService()

	addWithExpiry := func(name string, expiry time.Time) {
		m := models.Medicine{Name: name, BatchNo: "B-" + name, Quantity: 10, Unit: "pack", ExpiryDate: &expiry}
		_, err := medRepo.Create(&m)
		require.NoError(t, err)
	}

	now := time.Now()
	addWithExpiry("expired", now.AddDate(0, 0, -10))
	addWithExpiry("soon", now.AddDate(0, 0, 10))
	addWithExpiry("valid", now.AddDate(0, 0, 120))

	report, err := svc.ExpiryStatus(0)
	require.NoError(t, err)

	assert.Len(t, report.Expired.Medicines, 1)
	assert.Len(t, report.ExpiringSoon.Medicines, 1)
	assert.Len(t, report.Valid.Medicines, 1)

	// A wider horizon pulls the long-dated record into the soon bucket.
	wide, err := svc.ExpiryStatus(180)
	require.NoError(t, err)
	assert.Len(t, wide.ExpiringSoon.Medicines, 2)
	assert.Empty(t, wide.Valid.Medicines)
}

func TestGetMedicineByIDNotFound(t *testing.T) {
	svc, _, _ := newTestMedicineService()

	_, err := svc.GetMedicineByID(42)
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}
