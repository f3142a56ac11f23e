package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds endpoint and integration settings loaded from environment variables.
type Config struct {
	AlgodURL              string
	AlgodToken            string
	AlgodRetryMax         int
	AlgodRetryBaseDelay   time.Duration
	TinymanURL            string
	CoinGeckoURL          string
	CoinGeckoRetryMax     int
	CoinGeckoDelay        time.Duration
	DatabaseURL           string
	MetadataRedisAddr     string
	MetadataRedisPassword string
	GoogleSheetID         string
	GoogleCredentialsJSON string
	S3Bucket              string
	S3Region              string
	S3Endpoint            string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	return Config{
		AlgodURL:              envOrDefault("ALGOD_URL", "https://mainnet-api.algonode.cloud"),
		AlgodToken:            envOrDefault("ALGOD_TOKEN", ""),
		AlgodRetryMax:         envOrDefaultInt("ALGOD_RETRY_MAX", 5),
		AlgodRetryBaseDelay:   envOrDefaultDuration("ALGOD_RETRY_BASE_DELAY", 2*time.Second),
		TinymanURL:            envOrDefault("TINYMAN_URL", "https://mainnet.analytics.tinyman.org"),
		CoinGeckoURL:          envOrDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoRetryMax:     envOrDefaultInt("COINGECKO_RETRY_MAX", 3),
		CoinGeckoDelay:        envOrDefaultDuration("COINGECKO_DELAY", 6*time.Second),
		DatabaseURL:           envOrDefault("DATABASE_URL", ""),
		MetadataRedisAddr:     envOrDefault("METADATA_REDIS_ADDR", ""),
		MetadataRedisPassword: envOrDefault("METADATA_REDIS_PASSWORD", ""),
		GoogleSheetID:         envOrDefault("GOOGLE_SHEET_ID", ""),
		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		S3Bucket:              envOrDefault("S3_BUCKET", ""),
		S3Region:              envOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:            envOrDefault("S3_ENDPOINT", ""),
	}
}

// SheetsEnabled reports whether Google Sheets export is fully configured.
func (c Config) SheetsEnabled() bool {
	return c.GoogleSheetID != "" && c.GoogleCredentialsJSON != ""
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
