package env

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/joho/godotenv"
)

// DotEnvPath is read once, on first lookup. A missing file is not an error.
var DotEnvPath = ".env"

var (
	dotEnvOnce sync.Once
	dotEnvMap  map[string]string
)

func dotEnv() map[string]string {
	dotEnvOnce.Do(func() {
		m, err := godotenv.Read(DotEnvPath)
		if err != nil {
			m = map[string]string{}
		}
		dotEnvMap = m
	})
	return dotEnvMap
}

func getEnv(key string) string {
	// .env
	value := dotEnv()[key]

	// os.Getenv
	if v := os.Getenv(key); v != "" {
		value = v
	}

	return value
}

func GetEnvDefault(key, def string) string {
	value := getEnv(key)
	if value == "" {
		return def
	}
	return value
}

func GetEnvRequiredNotEmpty(key string) string {
	value := getEnv(key)
	if value == "" {
		if !testing.Testing() {
			panic(fmt.Sprintf("`%s` is not set or is empty", key))
		}
	}
	return value
}

func GetEnvRequired(key string) string {
	_, osSet := os.LookupEnv(key)
	_, dotEnvSet := dotEnv()[key]
	if !osSet && !dotEnvSet {
		if !testing.Testing() {
			panic(fmt.Sprintf("`%s` is not set", key))
		}
	}
	return getEnv(key)
}

// GetEnvInt parses key as a base 10 integer, falling back to def when unset.
func GetEnvInt(key string, def int64) (int64, error) {
	value := getEnv(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("`%s` must be an integer, have '%s': %w", key, value, err)
	}
	return n, nil
}

func GetEnvBool(key string, def bool) (bool, error) {
	value := getEnv(key)
	if value == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("`%s` must be a boolean, have '%s': %w", key, value, err)
	}
	return b, nil
}
