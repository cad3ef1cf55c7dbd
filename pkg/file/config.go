package file

import (
	"context"
	"fmt"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// LocalConfig configures LocalStorage.
type LocalConfig struct {
	Dir     string `env:"STORAGE_LOCAL_DIR" envDefault:"./data/containers"`
	BaseURL string `env:"STORAGE_LOCAL_BASE_URL" envDefault:"/containers/"`
}

// Config selects and configures a storage driver.
type Config struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"local"`
	Local  LocalConfig
	S3     S3Config
}

// Validate checks that the selected driver has what it needs.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverLocal:
		if c.Local.Dir == "" {
			return fmt.Errorf("%w: STORAGE_LOCAL_DIR is empty", ErrInvalidConfig)
		}
	case DriverS3:
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("%w: STORAGE_S3_BUCKET and STORAGE_S3_REGION are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}
	return nil
}

// NewFromConfig builds the storage selected by cfg.Driver.
func NewFromConfig(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Driver == DriverS3 {
		s, err := NewS3Storage(ctx, cfg.S3, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := NewLocalStorage(cfg.Local.Dir, cfg.Local.BaseURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}
