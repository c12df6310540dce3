// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// allKeys lists every variable Load reads.
var allKeys = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "CONTENT_STORE_DRIVER",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"MONGODB_URI", "MONGODB_DB_NAME", "MONGODB_PRODUCTS_COLLECTION", "MONGODB_SETTINGS_COLLECTION",
	"MONGODB_MEDIA_COLLECTION", "MONGODB_ACTIVITY_COLLECTION", "MONGODB_ADMINS_COLLECTION",
	"SETTINGS_DOCUMENT_ID",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD", "VALKEY_DB", "CONTENT_CACHE_TTL",
	"ADMIN_SESSION_SECRET", "ADMIN_SESSION_MAX_AGE",
	"MEDIA_STORAGE_DRIVER", "PUBLIC_DIR", "EPHEMERAL_FS", "VERCEL",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET", "CLOUDINARY_FOLDER",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"BLOB_UPLOAD_FOLDER",
}

// clearEnv sets every key to "", which envOrDefault treats as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	defaults := map[string][2]string{
		"Host":               {cfg.Host, "0.0.0.0"},
		"Port":               {cfg.Port, "8080"},
		"Env":                {cfg.Env, "development"},
		"ContentStore":       {cfg.ContentStore, "postgres"},
		"DBUser":             {cfg.DBUser, "aurelux"},
		"DBPassword":         {cfg.DBPassword, "changeme"},
		"DBName":             {cfg.DBName, "aurelux"},
		"MongoDBName":        {cfg.MongoDBName, "aurelux_beauty"},
		"MongoMedia":         {cfg.MongoMediaCollection, "media_assets"},
		"SettingsDocumentID": {cfg.SettingsDocumentID, "main"},
		"MediaDriver":        {cfg.MediaDriver, "local"},
		"PublicDir":          {cfg.PublicDir, "public"},
		"CloudinaryFolder":   {cfg.CloudinaryFolder, "aurelux-beauty"},
		"BlobFolder":         {cfg.BlobFolder, "aurelux-beauty"},
		"S3Region":           {cfg.S3Region, "us-east-1"},
	}
	for field, v := range defaults {
		if v[0] != v[1] {
			t.Errorf("%s = %q, want %q", field, v[0], v[1])
		}
	}
	if cfg.SessionMaxAge != 12*time.Hour || cfg.ContentCacheTTL != 5*time.Minute {
		t.Errorf("durations = %v, %v", cfg.SessionMaxAge, cfg.ContentCacheTTL)
	}
	if cfg.EphemeralFS || cfg.CacheEnabled() || !cfg.IsDev() {
		t.Errorf("flags: ephemeral=%v cache=%v dev=%v", cfg.EphemeralFS, cfg.CacheEnabled(), cfg.IsDev())
	}
}

// TestLoad_EnvOverrides verifies that set variables replace the defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTENT_STORE_DRIVER", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_PRODUCTS_COLLECTION", "catalog")
	t.Setenv("VALKEY_HOST", "cache")
	t.Setenv("VALKEY_DB", "3")
	t.Setenv("CONTENT_CACHE_TTL", "90s")
	t.Setenv("ADMIN_SESSION_MAX_AGE", "3600")
	t.Setenv("MEDIA_STORAGE_DRIVER", "BLOB")
	t.Setenv("VERCEL", "1")
	t.Setenv("S3_BUCKET", "media")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ContentStore != StoreMongo || cfg.MongoURI != "mongodb://db:27017" || cfg.MongoProductsCollection != "catalog" {
		t.Errorf("mongo = %q %q %q", cfg.ContentStore, cfg.MongoURI, cfg.MongoProductsCollection)
	}
	if !cfg.CacheEnabled() || cfg.ValkeyDB != 3 || cfg.ContentCacheTTL != 90*time.Second {
		t.Errorf("valkey = %q %d %v", cfg.ValkeyHost, cfg.ValkeyDB, cfg.ContentCacheTTL)
	}
	if cfg.SessionMaxAge != time.Hour {
		t.Errorf("SessionMaxAge = %v", cfg.SessionMaxAge)
	}
	if cfg.MediaDriver != MediaBlob || !cfg.EphemeralFS || cfg.S3Bucket != "media" {
		t.Errorf("media = %q %v %q", cfg.MediaDriver, cfg.EphemeralFS, cfg.S3Bucket)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"unknown store", "CONTENT_STORE_DRIVER", "sqlite", "CONTENT_STORE_DRIVER"},
		{"mongo without uri", "CONTENT_STORE_DRIVER", "mongo", "MONGODB_URI"},
		{"unknown media driver", "MEDIA_STORAGE_DRIVER", "ftp", "MEDIA_STORAGE_DRIVER"},
		{"bad duration", "CONTENT_CACHE_TTL", "soon", "CONTENT_CACHE_TTL"},
		{"bad db index", "VALKEY_DB", "x", "VALKEY_DB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

// TestLoad_Production verifies production requires a real database
// password and a session secret.
func TestLoad_Production(t *testing.T) {
	t.Run("rejects default password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("ADMIN_SESSION_SECRET", "secret")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
			t.Fatalf("err = %v, want POSTGRES_PASSWORD", err)
		}
	})

	t.Run("requires session secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cur3")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "ADMIN_SESSION_SECRET") {
			t.Fatalf("err = %v, want ADMIN_SESSION_SECRET", err)
		}
	})

	t.Run("mongo ignores postgres password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("CONTENT_STORE_DRIVER", "mongo")
		t.Setenv("MONGODB_URI", "mongodb://db")
		t.Setenv("ADMIN_SESSION_SECRET", "secret")

		if _, err := Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}
	})

	t.Run("accepts complete config", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cur3")
		t.Setenv("ADMIN_SESSION_SECRET", "secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.IsDev() {
			t.Error("production config reports dev")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(local, []byte("APP_PORT=9090\nPUBLIC_DIR=/srv/public\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Setting the keys through t.Setenv restores them afterwards; godotenv
	// only fills variables that are unset, so unset them first.
	os.Unsetenv("APP_PORT")
	os.Unsetenv("PUBLIC_DIR")
	t.Setenv("APP_HOST", "127.0.0.1")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), local); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("APP_PORT")
		os.Unsetenv("PUBLIC_DIR")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.PublicDir != "/srv/public" || cfg.Host != "127.0.0.1" {
		t.Errorf("cfg = %s %s %s", cfg.Port, cfg.PublicDir, cfg.Host)
	}
}

// TestDSN verifies the PostgreSQL connection string format.
func TestDSN(t *testing.T) {
	cfg := Config{DBUser: "aurelux", DBPassword: "h@ck&me!", DBHost: "10.0.0.5", DBPort: "5433", DBName: "shop"}
	want := "postgres://aurelux:h@ck&me!@10.0.0.5:5433/shop?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := Config{Host: "0.0.0.0", Port: "8080"}
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestEnvDuration(t *testing.T) {
	tests := map[string]time.Duration{"": time.Minute, "30": 30 * time.Second, "2h": 2 * time.Hour}
	for v, want := range tests {
		t.Setenv("TEST_DURATION", v)
		got, err := envDuration("TEST_DURATION", time.Minute)
		if err != nil || got != want {
			t.Errorf("envDuration(%q) = %v, %v, want %v", v, got, err, want)
		}
	}
}
