// Package classification computes expiry and stock status for medicine
// records. All functions are pure: results depend only on the record, the
// reference time and the Config, so calls are safe from any goroutine.
package classification

import (
	"errors"
	"strings"
	"time"

	"pharmacy_backend/internal/models"
)

// ExpiryStatus categorizes a medicine by how close it is to its expiry date.
type ExpiryStatus string

const (
	StatusExpired      ExpiryStatus = "Expired"
	StatusExpiringSoon ExpiryStatus = "Expiring Soon"
	StatusValid        ExpiryStatus = "Valid"
	// StatusUnknown is reported when the record carries no expiry date.
	StatusUnknown ExpiryStatus = "N/A"
)

// StockStatus categorizes a medicine by its remaining quantity. It is
// independent of the expiry status; a record can be both expiring soon and
// low on stock.
type StockStatus string

const (
	StockLow    StockStatus = "Low Stock"
	StockNormal StockStatus = "Normal"
)

// ErrMissingExpiry is returned when a record has no expiry date. Callers
// render the status as "N/A" and must not drop the record from stock or
// value aggregates.
var ErrMissingExpiry = errors.New("medicine has no expiry date")

// Config carries the tunable classification parameters. The zero value is
// not usable; construct via DefaultConfig or fill every field.
type Config struct {
	// HorizonDays is the "expiring soon" window in days.
	HorizonDays int
	// Thresholds maps a lowercase unit name to its low-stock threshold.
	Thresholds map[string]int
	// DefaultThreshold applies to units absent from Thresholds.
	DefaultThreshold int
	// DefaultUnit is assumed when a record has no unit at all.
	DefaultUnit string
}

// DefaultConfig returns the standard configuration: 30-day horizon and the
// per-unit thresholds pack=2, bottle=7, vial=5 with a fallback of 2.
func DefaultConfig() Config {
	return Config{
		HorizonDays: 30,
		Thresholds: map[string]int{
			"pack":   2,
			"bottle": 7,
			"vial":   5,
		},
		DefaultThreshold: 2,
		DefaultUnit:      "pack",
	}
}

// WithHorizon returns a copy of the config with a different expiring-soon
// window. Non-positive values leave the horizon unchanged.
func (c Config) WithHorizon(days int) Config {
	if days > 0 {
		c.HorizonDays = days
	}
	return c
}

// ThresholdFor looks up the low-stock threshold for a unit. The unit is
// matched case-insensitively; an empty unit falls back to DefaultUnit and
// an unrecognized unit falls back to DefaultThreshold.
func (c Config) ThresholdFor(unit string) int {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = strings.ToLower(c.DefaultUnit)
	}
	if t, ok := c.Thresholds[u]; ok {
		return t
	}
	return c.DefaultThreshold
}

// ClampQuantity floors a quantity at zero so that bad input can never
// produce negative aggregate totals.
func ClampQuantity(quantity int) int {
	if quantity < 0 {
		return 0
	}
	return quantity
}

// DaysUntilExpiry returns the number of whole calendar days from now until
// the expiry date. Both instants are normalized to midnight first, so the
// result is stable across repeated calls within the same day. The value is
// negative for dates in the past and zero for a date expiring today.
func DaysUntilExpiry(expiry, now time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(n).Hours() / 24)
}

// ExpiryStatusOf classifies an expiry date relative to now. A medicine
// expiring today is already Expired; the boundary is deliberately uniform
// across every caller.
func (c Config) ExpiryStatusOf(expiry, now time.Time) (ExpiryStatus, int) {
	days := DaysUntilExpiry(expiry, now)
	switch {
	case days <= 0:
		return StatusExpired, days
	case days <= c.HorizonDays:
		return StatusExpiringSoon, days
	default:
		return StatusValid, days
	}
}

// StockStatusOf classifies a quantity against the per-unit threshold.
func (c Config) StockStatusOf(quantity int, unit string) StockStatus {
	if ClampQuantity(quantity) <= c.ThresholdFor(unit) {
		return StockLow
	}
	return StockNormal
}

// Result bundles both orthogonal classifications for one record.
type Result struct {
	Expiry          ExpiryStatus
	DaysUntilExpiry int
	Stock           StockStatus
}

// Classify computes both statuses for a medicine. When the record has no
// expiry date, the returned error is ErrMissingExpiry, the expiry status is
// StatusUnknown and the stock status is still valid.
func (c Config) Classify(m models.Medicine, now time.Time) (Result, error) {
	res := Result{
		Stock: c.StockStatusOf(m.Quantity, m.Unit),
	}
	if m.ExpiryDate == nil || m.ExpiryDate.IsZero() {
		res.Expiry = StatusUnknown
		return res, ErrMissingExpiry
	}
	res.Expiry, res.DaysUntilExpiry = c.ExpiryStatusOf(*m.ExpiryDate, now)
	return res, nil
}
