package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port                string
	GinMode             string
	FirebaseProjectID   string
	FirebaseCredsBase64 string
	FirebaseCredsFile   string
	JWTSecret           string
	RedisAddr           string
	RedisPassword       string
	VisionBaseURL       string
	VisionMock          bool
	LedgerRPCURL        string
	LedgerMock          bool
	StationCSVURL       string
	AllowedOrigins      string
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "release"),
		FirebaseProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		FirebaseCredsBase64: strings.TrimSpace(os.Getenv("FIREBASE_CREDS_BASE64")),
		FirebaseCredsFile:   strings.TrimSpace(os.Getenv("FIREBASE_CREDS_FILE")),
		JWTSecret:           strings.TrimSpace(os.Getenv("JWT_SECRET")),
		RedisAddr:           strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:       strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		VisionBaseURL:       strings.TrimSpace(os.Getenv("VISION_BASE_URL")),
		LedgerRPCURL:        strings.TrimSpace(os.Getenv("LEDGER_RPC_URL")),
		StationCSVURL:       strings.TrimSpace(os.Getenv("STATION_CSV_URL")),
		AllowedOrigins:      strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
	}

	visionMock, err := parseBoolEnv("VISION_MOCK", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_MOCK: %w", err)
	}
	cfg.VisionMock = visionMock

	ledgerMock, err := parseBoolEnv("LEDGER_MOCK", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEDGER_MOCK: %w", err)
	}
	cfg.LedgerMock = ledgerMock

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures the fields every binary needs are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseCredsBase64 == "" && c.FirebaseCredsFile == "" {
		return errors.New("provide FIREBASE_CREDS_BASE64 or FIREBASE_CREDS_FILE for Firestore auth")
	}
	return nil
}

// ValidateServer checks the additional fields the API server requires.
// Import tooling only needs the Firestore settings and skips these.
func (c Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if !c.VisionMock && c.VisionBaseURL == "" {
		return errors.New("set VISION_BASE_URL or enable VISION_MOCK")
	}
	if !c.LedgerMock && c.LedgerRPCURL == "" {
		return errors.New("set LEDGER_RPC_URL or enable LEDGER_MOCK")
	}
	return nil
}

// FirebaseCredentialsJSON returns the service account JSON bytes and the source used.
func (c Config) FirebaseCredentialsJSON() ([]byte, string, error) {
	if c.FirebaseCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.FirebaseCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode FIREBASE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.FirebaseCredsFile != "" {
		data, err := os.ReadFile(c.FirebaseCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read FIREBASE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no firebase credentials found")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, err
	}
	return parsed, nil
}
