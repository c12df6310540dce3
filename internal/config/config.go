// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Content store drivers.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Media storage drivers. They match the media package driver names.
const (
	MediaLocal      = "local"
	MediaCloudinary = "cloudinary"
	MediaBlob       = "blob"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// ContentStore selects the persistence backend: "postgres" or "mongo".
	ContentStore string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// MongoDB connection and collection names
	MongoURI                string
	MongoDBName             string
	MongoProductsCollection string
	MongoSettingsCollection string
	MongoMediaCollection    string
	MongoActivityCollection string
	MongoAdminsCollection   string
	SettingsDocumentID      string

	// Valkey (Redis-compatible cache)
	ValkeyHost      string
	ValkeyPort      string
	ValkeyPassword  string
	ValkeyDB        int
	ContentCacheTTL time.Duration

	// Admin sessions
	SessionSecret string
	SessionMaxAge time.Duration

	// Media storage
	MediaDriver string
	PublicDir   string
	EphemeralFS bool

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	// S3-compatible object storage for the blob driver
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
	BlobFolder  string
}

// LoadDotEnv loads variables from the given files into the environment.
// Missing files are skipped and variables already set win, so the process
// environment always overrides .env files.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ContentStore: strings.ToLower(envOrDefault("CONTENT_STORE_DRIVER", StorePostgres)),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "aurelux"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "aurelux"),

		MongoURI:                os.Getenv("MONGODB_URI"),
		MongoDBName:             envOrDefault("MONGODB_DB_NAME", "aurelux_beauty"),
		MongoProductsCollection: envOrDefault("MONGODB_PRODUCTS_COLLECTION", "products"),
		MongoSettingsCollection: envOrDefault("MONGODB_SETTINGS_COLLECTION", "site_settings"),
		MongoMediaCollection:    envOrDefault("MONGODB_MEDIA_COLLECTION", "media_assets"),
		MongoActivityCollection: envOrDefault("MONGODB_ACTIVITY_COLLECTION", "activity_logs"),
		MongoAdminsCollection:   envOrDefault("MONGODB_ADMINS_COLLECTION", "admins"),
		SettingsDocumentID:      envOrDefault("SETTINGS_DOCUMENT_ID", "main"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),

		MediaDriver: strings.ToLower(envOrDefault("MEDIA_STORAGE_DRIVER", MediaLocal)),
		PublicDir:   envOrDefault("PUBLIC_DIR", "public"),
		EphemeralFS: envBool("EPHEMERAL_FS") || os.Getenv("VERCEL") == "1",

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    envOrDefault("CLOUDINARY_FOLDER", "aurelux-beauty"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
		BlobFolder:  envOrDefault("BLOB_UPLOAD_FOLDER", "aurelux-beauty"),
	}

	var err error
	if cfg.ValkeyDB, err = envInt("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.ContentCacheTTL, err = envDuration("CONTENT_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = envDuration("ADMIN_SESSION_MAX_AGE", 12*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ContentStore {
	case StorePostgres:
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI must be set when CONTENT_STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("CONTENT_STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreMongo, c.ContentStore)
	}

	switch c.MediaDriver {
	case MediaLocal, MediaCloudinary, MediaBlob:
	default:
		return fmt.Errorf("MEDIA_STORAGE_DRIVER must be local, cloudinary or blob, got %q", c.MediaDriver)
	}

	if c.Env == "production" {
		if c.ContentStore == StorePostgres && c.DBPassword == "changeme" {
			return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if c.SessionSecret == "" {
			return fmt.Errorf("ADMIN_SESSION_SECRET must be set in production")
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

// envDuration accepts Go durations ("90m") or plain seconds ("3600").
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
