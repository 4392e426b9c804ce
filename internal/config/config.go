package config

import (
	"strings"
	"time"

	"pharmacy_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is loaded once in main and
// passed explicitly to the components that need it; nothing reads the
// environment after startup.
type Config struct {
	HTTPPort           string
	CORSAllowedOrigins []string

	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	DBSchemaPath string

	JWTSecret     string
	JWTExpiration time.Duration

	// ExpiryHorizonDays is the default "expiring soon" window. Individual
	// report calls may override it per request.
	ExpiryHorizonDays int

	// StockThresholds maps a lowercase unit name to its low-stock threshold.
	StockThresholds       map[string]int
	DefaultStockThreshold int
	DefaultUnit           string

	// CurrencySymbol prefixes prices in rendered reports.
	CurrencySymbol string

	LoginRateMax    int
	LoginRateWindow time.Duration
}

// Load reads configuration from the environment, consulting a .env file when
// present. Missing values fall back to development defaults.
func Load() Config {
	// A missing .env file is not an error; environment variables win anyway.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort: utils.Getenv("PORT", "8080"),

		DBHost:       utils.Getenv("DB_HOST", "localhost"),
		DBPort:       utils.Getenv("DB_PORT", "5432"),
		DBUser:       utils.Getenv("DB_USER", "pharmacy_user"),
		DBPassword:   utils.Getenv("DB_PASSWORD", "pharmacy_password"),
		DBName:       utils.Getenv("DB_NAME", "pharmacy_db"),
		DBSSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
		DBSchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),

		JWTSecret:     utils.Getenv("JWT_SECRET", "dev-only-jwt-secret-change-me"),
		JWTExpiration: time.Duration(utils.GetenvInt("JWT_EXPIRE_HOURS", 72)) * time.Hour,

		ExpiryHorizonDays: utils.GetenvInt("EXPIRY_HORIZON_DAYS", 30),
		StockThresholds: map[string]int{
			"pack":   utils.GetenvInt("LOW_STOCK_THRESHOLD_PACK", 2),
			"bottle": utils.GetenvInt("LOW_STOCK_THRESHOLD_BOTTLE", 7),
			"vial":   utils.GetenvInt("LOW_STOCK_THRESHOLD_VIAL", 5),
		},
		DefaultStockThreshold: utils.GetenvInt("LOW_STOCK_THRESHOLD_DEFAULT", 2),
		DefaultUnit:           utils.Getenv("DEFAULT_STOCK_UNIT", "pack"),

		CurrencySymbol: utils.Getenv("REPORT_CURRENCY_SYMBOL", "$"),

		LoginRateMax:    utils.GetenvInt("LOGIN_RATE_MAX", 5),
		LoginRateWindow: time.Duration(utils.GetenvInt("LOGIN_RATE_WINDOW_MINUTES", 15)) * time.Minute,
	}

	if origins := utils.Getenv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.CORSAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5500"}
	}

	return cfg
}
