package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures the runtime configuration for the clipstream backend.
type Config struct {
	AppPort         int
	ClientURL       string
	MongoURI        string
	DatabaseName    string
	AccessSecret    string
	AccessTokenTTL  time.Duration
	RefreshSecret   string
	RefreshTokenTTL time.Duration
	MaxUploadBytes  int64
	ObjectStore     ObjectStoreConfig
}

// ObjectStoreConfig holds credentials for the media blob store.
type ObjectStoreConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	PublicBaseURL string
}

// Load reads configuration from environment variables, applying sensible
// defaults for local development while allowing overrides per deployment.
func Load() (Config, error) {
	cfg := Config{
		AppPort:         getInt("PORT", 8080),
		ClientURL:       getString("CLIENT_URL", "http://localhost:3000"),
		MongoURI:        getString("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:    getString("DB_NAME", "clipstream"),
		AccessSecret:    getString("ACCESS_TOKEN_SECRET", ""),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_EXPIRES_IN", 15*time.Minute),
		RefreshSecret:   getString("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_EXPIRES_IN", 10*24*time.Hour),
		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", 200<<20),
		ObjectStore: ObjectStoreConfig{
			Endpoint:      getString("S3_ENDPOINT", ""),
			Region:        getString("S3_REGION", "us-east-1"),
			Bucket:        getString("S3_BUCKET", "clipstream-media"),
			PublicBaseURL: getString("S3_PUBLIC_BASE_URL", ""),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
