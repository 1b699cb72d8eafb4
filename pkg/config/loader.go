package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// parsed holds one value per configuration type, keyed by reflect.Type.
	parsed sync.Map
	// loadMu serialises first-time parses so concurrent callers agree on one value.
	loadMu sync.Mutex

	dotenvOnce sync.Once
)

// Load parses environment variables into v. Each configuration type is parsed
// once per process; later calls for the same type return the cached copy, so
// every component may call Load for its own Config without coordination.
// The default .env file, if present, is read before the first parse.
//
//	var cfg quality.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvOnce.Do(func() { _ = godotenv.Load() })

	key := reflect.TypeFor[T]()
	if cached, ok := parsed.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()
	if cached, ok := parsed.Load(key); ok {
		*v = cached.(T)
		return nil
	}
	fresh, err := Parse[T]()
	if err != nil {
		return err
	}
	parsed.Store(key, fresh)
	*v = fresh
	return nil
}

// Parse reads the current environment into a fresh T, bypassing the cache.
func Parse[T any]() (T, error) {
	var v T
	if err := env.Parse(&v); err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// ResetCache forgets every parsed type. Tests that change the environment
// call it before and after.
func ResetCache() {
	parsed.Clear()
}

// LoadEnv reads the given .env files into the process environment. Variables
// that are already set are kept, so earlier files take precedence over later
// ones. With no arguments the default .env file is read.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}
