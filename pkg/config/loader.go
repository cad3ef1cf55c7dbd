package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

// Validator is implemented by config structs that check their own invariants
// after parsing, such as an algorithm identifier that must be registered.
type Validator interface {
	Validate() error
}

type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	globalCache = &cache{values: make(map[reflect.Type]any)}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v and caches the result per type, so
// later calls for the same type return the first parsed value.
// The default .env file in the working directory is read once if present.
//
// Example:
//
//	type StorageConfig struct {
//		Dir     string `env:"STORAGE_DIR" envDefault:"./vault"`
//		BaseURL string `env:"STORAGE_BASE_URL" envDefault:"/files/"`
//	}
//
//	var cfg StorageConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// the .env file is optional
		_ = godotenv.Load()
	})

	key := reflect.TypeOf((*T)(nil)).Elem()

	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()

	if cached, ok := globalCache.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := Parse(&parsed); err != nil {
		return err
	}
	globalCache.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Parse fills v from the current environment without touching the cache and runs
// Validate when v implements Validator. Validation failures are joined with
// vaulterr.ErrConfiguration.
func Parse[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, vaulterr.ErrConfiguration, err)
	}
	if val, ok := any(v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, vaulterr.ErrConfiguration, err)
		}
	}
	return nil
}

// LoadEnv reads the given .env files into the process environment. Variables
// already set are not overridden, and earlier files win over later ones.
// With no arguments the default .env file is loaded.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// ResetCache drops every cached configuration.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	clear(globalCache.values)
}
