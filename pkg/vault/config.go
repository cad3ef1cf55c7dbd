package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/securevault/pkg/aead"
	"github.com/dmitrymomot/securevault/pkg/container"
)

const (
	// DefaultMaxFileSize caps a single plaintext at 100 MiB.
	DefaultMaxFileSize int64 = 100 << 20

	// DefaultBatchConcurrency bounds EncryptBatch.
	DefaultBatchConcurrency = 4
)

// Config is the environment-driven pipeline configuration.
type Config struct {
	Algorithm        string `env:"VAULT_ALGORITHM" envDefault:"AES-256-GCM"`
	FileSuffix       string `env:"VAULT_FILE_SUFFIX" envDefault:".svault"`
	MaxFileSize      int64  `env:"VAULT_MAX_FILE_SIZE" envDefault:"104857600"`
	BatchConcurrency int    `env:"VAULT_BATCH_CONCURRENCY" envDefault:"4"`
}

// DefaultConfig returns the configuration used by New without options.
func DefaultConfig() Config {
	return Config{
		Algorithm:        aead.DefaultAlgorithm,
		FileSuffix:       container.DefaultSuffix,
		MaxFileSize:      DefaultMaxFileSize,
		BatchConcurrency: DefaultBatchConcurrency,
	}
}

// Validate checks that the configuration names a registered cipher and sane limits.
// A zero MaxFileSize disables the size check.
func (c Config) Validate() error {
	var errs []error
	if !aead.Supported(c.Algorithm) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.Algorithm))
	}
	if !strings.HasPrefix(c.FileSuffix, ".") || len(c.FileSuffix) < 2 {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSuffix, c.FileSuffix))
	}
	if c.MaxFileSize < 0 {
		errs = append(errs, ErrInvalidMaxFileSize)
	}
	if c.BatchConcurrency <= 0 {
		errs = append(errs, ErrInvalidConcurrency)
	}
	return errors.Join(errs...)
}
