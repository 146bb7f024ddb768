package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
)

// Config holds all application configuration. Loaded once at process start
// and never mutated at runtime; threshold values only seed the settings row,
// which the engine re-reads on every evaluation.
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server configuration
	ServerPort string

	// Provider integration
	AgencyUID string
	AESKey    string

	// Wallet defaults
	MinBet              decimal.Decimal
	MinBalanceThreshold decimal.Decimal
	WithdrawalThreshold decimal.Decimal
	WithdrawalAmount    decimal.Decimal
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "casino_wallet"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		AgencyUID: getEnv("AGENCY_UID", ""),
		AESKey:    getEnv("AES_KEY", ""),

		MinBet:              getEnvDecimal("MIN_BET", "0.1"),
		MinBalanceThreshold: getEnvDecimal("MIN_BALANCE_THRESHOLD", "0.1"),
		WithdrawalThreshold: getEnvDecimal("WITHDRAWAL_THRESHOLD", "1000"),
		WithdrawalAmount:    getEnvDecimal("WITHDRAWAL_AMOUNT", "100"),
	}

	return cfg
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.AgencyUID == "" {
		return fmt.Errorf("AGENCY_UID is required")
	}
	switch len(c.AESKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("AES_KEY must be 16, 24 or 32 bytes, got %d", len(c.AESKey))
	}
	if !c.MinBalanceThreshold.LessThan(c.WithdrawalThreshold) {
		return fmt.Errorf("MIN_BALANCE_THRESHOLD must be below WITHDRAWAL_THRESHOLD")
	}
	return nil
}

// DefaultThresholdPolicy builds the policy used to seed the settings store
// on first boot.
func (c *Config) DefaultThresholdPolicy() domain.ThresholdPolicy {
	return domain.ThresholdPolicy{
		MinBalanceThreshold: c.MinBalanceThreshold,
		WithdrawalThreshold: c.WithdrawalThreshold,
		WithdrawalAmount:    c.WithdrawalAmount,
	}
}

// GetDBConnectionString returns the connection string for the database
func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		value, _ = decimal.NewFromString(defaultValue)
	}
	return value
}
