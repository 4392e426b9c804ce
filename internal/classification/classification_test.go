package classification

import (
	"errors"
	"testing"
	"time"

	"pharmacy_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestDaysUntilExpiry_NormalizesTimeOfDay(t *testing.T) {
	// Same calendar day, different clock times, must always yield 0.
	expiry := time.Date(2025, time.March, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysUntilExpiry(expiry, now))

	lateNow := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysUntilExpiry(expiry, lateNow))

	tomorrow := time.Date(2025, time.March, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntilExpiry(tomorrow, now))

	yesterday := time.Date(2025, time.March, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, DaysUntilExpiry(yesterday, now))
}

func TestExpiryStatusOf_Boundaries(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		expiry time.Time
		want   ExpiryStatus
	}{
		{"expiring today counts as expired", now, StatusExpired},
		{"well in the past", now.AddDate(0, 0, -40), StatusExpired},
		{"tomorrow is expiring soon", now.AddDate(0, 0, 1), StatusExpiringSoon},
		{"exactly at the horizon", now.AddDate(0, 0, 30), StatusExpiringSoon},
		{"one day past the horizon", now.AddDate(0, 0, 31), StatusValid},
		{"far future", now.AddDate(1, 0, 0), StatusValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := cfg.ExpiryStatusOf(tt.expiry, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpiryStatusOf_HorizonIsConfigurable(t *testing.T) {
	cfg30 := DefaultConfig()
	cfg90 := DefaultConfig().WithHorizon(90)

	// 31-90 days out: Valid at the 30-day horizon, ExpiringSoon at 90.
	for _, days := range []int{31, 45, 90} {
		expiry := now.AddDate(0, 0, days)

		got30, _ := cfg30.ExpiryStatusOf(expiry, now)
		assert.Equal(t, StatusValid, got30, "days=%d horizon=30", days)

		got90, _ := cfg90.ExpiryStatusOf(expiry, now)
		assert.Equal(t, StatusExpiringSoon, got90, "days=%d horizon=90", days)
	}

	got, _ := cfg90.ExpiryStatusOf(now.AddDate(0, 0, 91), now)
	assert.Equal(t, StatusValid, got)
}

func TestThresholdFor(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.ThresholdFor("pack"))
	assert.Equal(t, 7, cfg.ThresholdFor("bottle"))
	assert.Equal(t, 5, cfg.ThresholdFor("vial"))
	assert.Equal(t, 7, cfg.ThresholdFor("Bottle"), "unit lookup is case-insensitive")
	assert.Equal(t, 2, cfg.ThresholdFor("Tablets"), "unknown unit uses the default threshold")
	assert.Equal(t, 2, cfg.ThresholdFor(""), "missing unit falls back to the default unit")
}

func TestStockStatusOf(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, StockLow, cfg.StockStatusOf(7, "bottle"))
	assert.Equal(t, StockNormal, cfg.StockStatusOf(8, "bottle"))
	assert.Equal(t, StockLow, cfg.StockStatusOf(0, "vial"))
	assert.Equal(t, StockLow, cfg.StockStatusOf(-3, "pack"), "negative quantity clamps to 0")
}

func TestClassify_OrthogonalStatuses(t *testing.T) {
	cfg := DefaultConfig()

	// quantity 1 bottle expiring in 5 days: both ExpiringSoon and LowStock.
	med := models.Medicine{
		Name:       "Amoxicillin",
		Quantity:   1,
		Unit:       "bottle",
		ExpiryDate: datePtr(now.AddDate(0, 0, 5)),
	}

	res, err := cfg.Classify(med, now)
	require.NoError(t, err)
	assert.Equal(t, StatusExpiringSoon, res.Expiry)
	assert.Equal(t, 5, res.DaysUntilExpiry)
	assert.Equal(t, StockLow, res.Stock)
}

func TestClassify_MissingExpiryDate(t *testing.T) {
	cfg := DefaultConfig()

	med := models.Medicine{Name: "Unlabeled", Quantity: 50, Unit: "pack"}
	res, err := cfg.Classify(med, now)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingExpiry))
	assert.Equal(t, StatusUnknown, res.Expiry)
	// Stock classification still succeeds for the record.
	assert.Equal(t, StockNormal, res.Stock)
}
