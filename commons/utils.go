// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnvFile reads ENV_FILE (default ".env") into the process environment.
// Variables already set in the environment win over the file.
func LoadEnvFile() {
	envOnce.Do(func() {
		path := os.Getenv("ENV_FILE")
		if path == "" {
			path = ".env"
		}
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			Logger.Warnf("Failed to load env file %s: %v", path, err)
		}
	})
}

// GetEnv returns the value of key, or the first default when it is unset or empty.
func GetEnv(key string, defaultValue ...string) string {
	LoadEnvFile()
	if v := os.Getenv(key); v != "" {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func GetEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(GetEnv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(GetEnv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
