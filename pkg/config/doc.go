// Package config loads typed configuration from environment variables and
// optional .env files.
//
// Structs are annotated with `env` tags understood by github.com/caarlos0/env/v11;
// .env files are read with github.com/joho/godotenv. Load caches the parsed value
// per type for the lifetime of the process, Parse always reads the environment
// afresh. Both call Validate on structs implementing Validator and join any
// failure with vaulterr.ErrConfiguration.
//
// # Usage
//
//	if err := config.LoadEnv(".env.local"); err != nil {
//	    return err
//	}
//	var cfg vault.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err // errors.Is(err, vaulterr.ErrConfiguration)
//	}
package config
