package app

import (
	"context"
	"fmt"

	"carpool/internal/config"
	"carpool/internal/imagestore"
)

// NewImageStore builds the car image store selected by cfg.Backend.
func NewImageStore(ctx context.Context, cfg config.ImagesConfig) (imagestore.Store, error) {
	switch cfg.Backend {
	case "disk":
		store, err := imagestore.NewDiskStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := imagestore.NewS3Store(ctx, imagestore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown image backend %q", cfg.Backend)
	}
}
