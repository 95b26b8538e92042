// Package environment provides utilities for managing environment variables
// and configuration loading with support for prefixes and defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the working directory. A missing file
// is not an error; variables already set in the process win.
func LoadEnv() error {
	return LoadPath("")
}

// LoadPath loads variables from the given .env file, or ./.env when p is empty.
func LoadPath(p string) error {
	var err error
	if p != "" {
		err = godotenv.Load(p)
	} else {
		err = godotenv.Load()
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// GetEnvOrDefault retrieves an environment variable value, returning a fallback
// value if the variable is not set.
//
// Example:
//
//	port := GetEnvOrDefault("PORT", "8080")
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix joins a prefix and key with an underscore.
//
//	GetEnvKeyPrefix("EVENTHUB", "PG_DATABASE_URL") // "EVENTHUB_PG_DATABASE_URL"
//	GetEnvKeyPrefix("", "PG_DATABASE_URL")         // "PG_DATABASE_URL"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetPrefixEnvOrDefault is GetEnvOrDefault for a prefixed key.
func GetPrefixEnvOrDefault(prefix, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(prefix, key), fallback)
}
