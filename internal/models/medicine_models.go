package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine represents one stocked medicine batch.
//
// ExpiryDate is required on creation but kept nullable here: legacy rows
// without a date must still load, classify as "N/A" and stay in stock/value
// totals.
type Medicine struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name" db:"name"`
	BatchNo      string          `json:"batch_no" db:"batch_no"`
	Category     string          `json:"category" db:"category"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Unit         string          `json:"unit" db:"unit"`
	Price        decimal.Decimal `json:"price" db:"price"`
	ExpiryDate   *time.Time      `json:"expiry_date" db:"expiry_date"`
	Manufacturer string          `json:"manufacturer" db:"manufacturer"`
	PurchaseDate time.Time       `json:"purchase_date" db:"purchase_date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Defaults applied by the service when optional medicine fields are omitted.
const (
	DefaultMedicineCategory = "General"
	DefaultMedicineUnit     = "Tablets"
	DefaultManufacturer     = "N/A"
)
