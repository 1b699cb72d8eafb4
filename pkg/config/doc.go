// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - LoadEnv reads one or more .env files into the process environment.
//   - Load parses the environment into a struct annotated with `env` tags
//     and caches the result per type, so every component can call it
//     without re-parsing.
//   - Parse does the same without the cache, for tests and one-off tools.
//
// # Usage
//
//	type PostgresConfig struct {
//	    ConnURL  string `env:"PG_CONN_URL,required"`
//	    MaxConns int32  `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//	}
//
//	var pg PostgresConfig
//	if err := config.Load(&pg); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// ErrParsingConfig wraps failures from the env parser, ErrLoadingEnvFile
// wraps unreadable .env files and ErrNilPointer is returned for a nil target.
//
// # Testing Helpers
//
// ResetCache clears every cached type so a test can change the environment
// and load again.
package config
