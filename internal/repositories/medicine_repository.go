package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pharmacy_backend/internal/models"
)

// MedicineRepository defines the interface for medicine-related database operations.
type MedicineRepository interface {
	Create(medicine *models.Medicine) (int64, error)
	GetAll() ([]models.Medicine, error)
	GetByID(id int64) (*models.Medicine, error)
	GetByExpiryRange(from, to *time.Time) ([]models.Medicine, error)
	Update(medicine *models.Medicine) error
	Delete(id int64) error
}

type medicineRepository struct {
	db *sql.DB
}

// NewMedicineRepository creates a new instance of MedicineRepository.
func NewMedicineRepository(db *sql.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

const medicineColumns = `id, name, batch_no, category, quantity, unit, price, expiry_date, manufacturer, purchase_date, created_at, updated_at`

func (r *medicineRepository) Create(medicine *models.Medicine) (int64, error) {
	query := `INSERT INTO medicines
	          (name, batch_no, category, quantity, unit, price, expiry_date, manufacturer, purchase_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	if medicine.PurchaseDate.IsZero() {
		medicine.PurchaseDate = currentTime
	}

	var expiryDate sql.NullTime
	if medicine.ExpiryDate != nil {
		expiryDate = sql.NullTime{Time: *medicine.ExpiryDate, Valid: true}
	}

	err := r.db.QueryRow(query,
		medicine.Name, medicine.BatchNo, medicine.Category, medicine.Quantity, medicine.Unit,
		medicine.Price, expiryDate, medicine.Manufacturer, medicine.PurchaseDate,
		currentTime, currentTime,
	).Scan(&medicine.ID, &medicine.CreatedAt, &medicine.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("%w: creating medicine: %v", ErrDatabaseError, err)
	}
	return medicine.ID, nil
}

func (r *medicineRepository) GetAll() ([]models.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting medicines: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	return scanMedicines(rows)
}

func (r *medicineRepository) GetByID(id int64) (*models.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`

	medicine, err := scanMedicine(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding medicine by ID %d: %v", ErrDatabaseError, id, err)
	}
	return medicine, nil
}

// GetByExpiryRange returns medicines whose expiry date falls inside the given
// bounds. Either bound may be nil for an open interval; rows without an
// expiry date are excluded.
func (r *medicineRepository) GetByExpiryRange(from, to *time.Time) ([]models.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE expiry_date IS NOT NULL`
	args := []interface{}{}
	argCount := 1

	if from != nil {
		query += fmt.Sprintf(" AND expiry_date >= $%d", argCount)
		args = append(args, *from)
		argCount++
	}
	if to != nil {
		query += fmt.Sprintf(" AND expiry_date <= $%d", argCount)
		args = append(args, *to)
		argCount++
	}
	query += " ORDER BY expiry_date ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting medicines by expiry range: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	return scanMedicines(rows)
}

func (r *medicineRepository) Update(medicine *models.Medicine) error {
	query := `UPDATE medicines
	          SET name = $1, batch_no = $2, category = $3, quantity = $4, unit = $5,
	              price = $6, expiry_date = $7, manufacturer = $8, purchase_date = $9, updated_at = $10
	          WHERE id = $11
	          RETURNING updated_at`

	var expiryDate sql.NullTime
	if medicine.ExpiryDate != nil {
		expiryDate = sql.NullTime{Time: *medicine.ExpiryDate, Valid: true}
	}

	err := r.db.QueryRow(query,
		medicine.Name, medicine.BatchNo, medicine.Category, medicine.Quantity, medicine.Unit,
		medicine.Price, expiryDate, medicine.Manufacturer, medicine.PurchaseDate,
		time.Now(), medicine.ID,
	).Scan(&medicine.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: updating medicine %d: %v", ErrDatabaseError, medicine.ID, err)
	}
	return nil
}

func (r *medicineRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM medicines WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("%w: deleting medicine %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMedicine(row rowScanner) (*models.Medicine, error) {
	var m models.Medicine
	var expiryDate sql.NullTime

	err := row.Scan(
		&m.ID, &m.Name, &m.BatchNo, &m.Category, &m.Quantity, &m.Unit,
		&m.Price, &expiryDate, &m.Manufacturer, &m.PurchaseDate,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiryDate.Valid {
		m.ExpiryDate = &expiryDate.Time
	}
	return &m, nil
}

func scanMedicines(rows *sql.Rows) ([]models.Medicine, error) {
	medicines := []models.Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning medicine: %v", ErrDatabaseError, err)
		}
		medicines = append(medicines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating medicines: %v", ErrDatabaseError, err)
	}
	return medicines, nil
}
