// Package reporting reduces medicine collections into dashboard summaries,
// expiry groupings and downloadable report files. Like the classification
// package it holds no state; every function is a pure reduction over its
// input slice.
package reporting

import (
	"sort"
	"time"

	"pharmacy_backend/internal/classification"
	"pharmacy_backend/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultRecentLimit bounds the "recent additions" view when the caller does
// not ask for a specific size.
const DefaultRecentLimit = 5

// Summary holds the aggregate counts and totals for a medicine collection.
type Summary struct {
	TotalMedicines    int             `json:"total_medicines"`
	TotalStock        int             `json:"total_stock"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ExpiredCount      int             `json:"expired_count"`
	ExpiringSoonCount int             `json:"expiring_soon_count"`
	ValidCount        int             `json:"valid_count"`
	LowStockCount     int             `json:"low_stock_count"`
	// SkippedRecords counts records whose expiry classification failed.
	// They are excluded from the expiry counts only; stock and value
	// totals always include every record.
	SkippedRecords int `json:"skipped_records"`
}

// Summarize reduces a collection into totals and per-category counts. An
// empty collection yields a zeroed summary, not an error; refusing to
// produce empty downloads is the exporter's job, not the aggregator's.
func Summarize(meds []models.Medicine, cfg classification.Config, now time.Time) Summary {
	summary := Summary{
		TotalMedicines: len(meds),
		TotalValue:     decimal.Zero,
	}

	for _, med := range meds {
		qty := classification.ClampQuantity(med.Quantity)
		summary.TotalStock += qty

		price := med.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		summary.TotalValue = summary.TotalValue.Add(price.Mul(decimal.NewFromInt(int64(qty))))

		res, err := cfg.Classify(med, now)
		if res.Stock == classification.StockLow {
			summary.LowStockCount++
		}
		if err != nil {
			summary.SkippedRecords++
			continue
		}
		switch res.Expiry {
		case classification.StatusExpired:
			summary.ExpiredCount++
		case classification.StatusExpiringSoon:
			summary.ExpiringSoonCount++
		case classification.StatusValid:
			summary.ValidCount++
		}
	}

	return summary
}

// ExpiryEntry is one medicine inside an expiry group.
type ExpiryEntry struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	BatchNo         string     `json:"batch_no"`
	Quantity        int        `json:"quantity"`
	Unit            string     `json:"unit"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	DaysUntilExpiry int        `json:"days_until_expiry"`
}

// ExpiryGroup is one category of the expiry report.
type ExpiryGroup struct {
	Count     int           `json:"count"`
	Medicines []ExpiryEntry `json:"medicines"`
}

// ExpiryReport groups a collection by expiry status.
type ExpiryReport struct {
	Expired      ExpiryGroup `json:"expired"`
	ExpiringSoon ExpiryGroup `json:"expiring_soon"`
	Valid        ExpiryGroup `json:"valid"`
	// Skipped counts records without a usable expiry date. They appear in
	// no group but the batch is never aborted because of them.
	Skipped int `json:"skipped"`
}

// GroupByExpiry splits a collection into expired / expiring soon / valid
// member lists using the config's horizon.
func GroupByExpiry(meds []models.Medicine, cfg classification.Config, now time.Time) ExpiryReport {
	report := ExpiryReport{
		Expired:      ExpiryGroup{Medicines: []ExpiryEntry{}},
		ExpiringSoon: ExpiryGroup{Medicines: []ExpiryEntry{}},
		Valid:        ExpiryGroup{Medicines: []ExpiryEntry{}},
	}

	for _, med := range meds {
		res, err := cfg.Classify(med, now)
		if err != nil {
			report.Skipped++
			continue
		}

		entry := ExpiryEntry{
			ID:              med.ID,
			Name:            med.Name,
			BatchNo:         med.BatchNo,
			Quantity:        classification.ClampQuantity(med.Quantity),
			Unit:            med.Unit,
			ExpiryDate:      med.ExpiryDate,
			DaysUntilExpiry: res.DaysUntilExpiry,
		}

		switch res.Expiry {
		case classification.StatusExpired:
			report.Expired.Medicines = append(report.Expired.Medicines, entry)
		case classification.StatusExpiringSoon:
			report.ExpiringSoon.Medicines = append(report.ExpiringSoon.Medicines, entry)
		case classification.StatusValid:
			report.Valid.Medicines = append(report.Valid.Medicines, entry)
		}
	}

	report.Expired.Count = len(report.Expired.Medicines)
	report.ExpiringSoon.Count = len(report.ExpiringSoon.Medicines)
	report.Valid.Count = len(report.Valid.Medicines)
	return report
}

// RecentAdditions returns the n most recently created medicines, newest
// first. The input slice is not modified.
func RecentAdditions(meds []models.Medicine, n int) []models.Medicine {
	if n <= 0 {
		n = DefaultRecentLimit
	}

	sorted := make([]models.Medicine, len(meds))
	copy(sorted, meds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
