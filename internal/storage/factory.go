package storage

import (
	"context"
	"fmt"
	"log/slog"

	"clientportal/internal/config"
)

// New builds the driver selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverLocal, "":
		return NewLocal(cfg.Storage.UploadsRoot, logger)
	case config.StorageDriverMinIO:
		return NewMinIO(ctx, cfg.MinIO, logger)
	case config.StorageDriverS3:
		return NewS3(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
