package blob

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/farmstand/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Open selects the Store named by UPLOAD_DRIVER: fs (default), memory or s3.
func Open(ctx context.Context, cfg config.UploadConfig) (Store, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(cfg.Driver))) {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

func provideStore(cfg config.Config, log *zap.Logger) (Store, error) {
	store, err := Open(context.Background(), cfg.Upload)
	if err != nil {
		return nil, err
	}
	log.Named("blob").Info("blob store ready", zap.String("driver", string(store.Driver())))
	return store, nil
}

var Module = fx.Module("blob",
	fx.Provide(provideStore),
)
