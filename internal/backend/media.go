// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"fmt"
	"log/slog"

	"aurelux/internal/config"
	"aurelux/internal/media"
	"aurelux/internal/storage"
)

// Media builds the media manager for MEDIA_STORAGE_DRIVER. The local
// driver is always kept as a legacy recognizer so /uploads/ URLs issued
// before a driver switch stay managed. tokenSecret signs blob completion
// tokens.
func Media(cfg *config.Config, tokenSecret string) (*media.Manager, *media.LocalDriver, error) {
	local := media.NewLocalDriver(cfg.PublicDir, cfg.EphemeralFS)

	var primary media.Driver
	switch cfg.MediaDriver {
	case config.MediaCloudinary:
		d, err := media.NewCloudinaryDriver(media.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		})
		if err != nil {
			return nil, nil, err
		}
		primary = d

	case config.MediaBlob:
		client, err := storage.New(storage.Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, fmt.Errorf("MEDIA_STORAGE_DRIVER=blob needs S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET")
		}
		d, err := media.NewBlobDriver(client, media.BlobConfig{
			Folder:      cfg.BlobFolder,
			TokenSecret: []byte(tokenSecret),
		})
		if err != nil {
			return nil, nil, err
		}
		primary = d

	default:
		if cfg.EphemeralFS {
			slog.Warn("local media driver on an ephemeral filesystem; uploads will be refused")
		}
		primary = local
	}

	slog.Info("media storage ready", "driver", primary.Name())
	return media.NewManager(primary, local), local, nil
}
