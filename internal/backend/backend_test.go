// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"testing"

	"aurelux/internal/config"
	"aurelux/internal/media"
)

func TestMedia_Local(t *testing.T) {
	cfg := &config.Config{MediaDriver: config.MediaLocal, PublicDir: t.TempDir()}

	m, local, err := Media(cfg, "secret")
	if err != nil {
		t.Fatalf("Media: %v", err)
	}
	if m.Name() != media.DriverLocal || local == nil {
		t.Errorf("driver = %q", m.Name())
	}
	if !m.IsManagedURL("/uploads/images/a.jpg") {
		t.Error("local uploads should be managed")
	}
	if _, ok := m.Blob(); ok {
		t.Error("local manager must not expose a blob driver")
	}
}

func TestMedia_Cloudinary(t *testing.T) {
	cfg := &config.Config{
		MediaDriver:         config.MediaCloudinary,
		PublicDir:           t.TempDir(),
		CloudinaryCloudName: "aurelux",
		CloudinaryAPIKey:    "key",
		CloudinaryAPISecret: "secret",
	}

	m, _, err := Media(cfg, "secret")
	if err != nil {
		t.Fatalf("Media: %v", err)
	}
	if m.Name() != media.DriverCloudinary {
		t.Errorf("driver = %q", m.Name())
	}
	if !m.IsManagedURL("https://res.cloudinary.com/aurelux/image/upload/v1/a.jpg") {
		t.Error("cloudinary URL should be managed")
	}
	if !m.IsManagedURL("/uploads/videos/a.mp4") {
		t.Error("legacy local URL should stay managed after a driver switch")
	}

	cfg.CloudinaryAPISecret = ""
	if _, _, err := Media(cfg, "secret"); err == nil {
		t.Error("missing cloudinary credentials should fail")
	}
}

func TestMedia_Blob(t *testing.T) {
	cfg := &config.Config{MediaDriver: config.MediaBlob, PublicDir: t.TempDir()}
	if _, _, err := Media(cfg, "secret"); err == nil {
		t.Fatal("blob without S3 settings should fail")
	}

	cfg.S3Endpoint = "http://localhost:9000"
	cfg.S3AccessKey = "minio"
	cfg.S3SecretKey = "minio-secret"
	cfg.S3Bucket = "aurelux"
	cfg.S3Region = "us-east-1"
	cfg.BlobFolder = "aurelux-beauty"

	m, _, err := Media(cfg, "secret")
	if err != nil {
		t.Fatalf("Media: %v", err)
	}
	if _, ok := m.Blob(); !ok {
		t.Error("blob manager should expose the blob driver")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{ContentStore: "sqlite"}); err == nil {
		t.Error("unknown content store should fail")
	}
}
