// Package config reads the search service settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultServiceName = "srchhrurrdurtklsrch"
	DefaultIndexName   = "path-created-index"
	DefaultAPIVersion  = "2023-11-01"
	DefaultLogLevel    = "info"
	DefaultLogMaxSize  = 10 // megabytes
)

// Environment variable names
const (
	EnvAdminKey    = "SEARCH_ADMIN_KEY"
	EnvServiceName = "SEARCH_SERVICE_NAME"
	EnvIndexName   = "SEARCH_INDEX_NAME"
	EnvAPIVersion  = "SEARCH_API_VERSION"
	EnvEndpoint    = "SEARCH_ENDPOINT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFile     = "LOG_FILE"
	EnvLogMaxSize  = "LOG_MAX_SIZE_MB"
)

// Config holds everything needed to reach the analyze endpoint.
type Config struct {
	ServiceName string
	IndexName   string
	APIVersion  string

	// AdminKey is passed through as-is. An empty key is still sent and
	// left for the service to reject.
	AdminKey string

	// Endpoint overrides https://{ServiceName}.search.windows.net when set.
	Endpoint string

	LogLevel     string
	LogFile      string
	LogMaxSizeMB int
}

// LoadDotEnv loads variables from the given .env files without overriding
// ones already present in the process environment. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load builds a Config from the process environment.
func Load() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) Config {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return def
	}

	// The key is taken verbatim, no trimming and no validation.
	adminKey, _ := lookup(EnvAdminKey)

	maxSize := DefaultLogMaxSize
	if v, err := strconv.Atoi(get(EnvLogMaxSize, "")); err == nil && v > 0 {
		maxSize = v
	}

	return Config{
		ServiceName:  get(EnvServiceName, DefaultServiceName),
		IndexName:    get(EnvIndexName, DefaultIndexName),
		APIVersion:   get(EnvAPIVersion, DefaultAPIVersion),
		AdminKey:     adminKey,
		Endpoint:     strings.TrimRight(get(EnvEndpoint, ""), "/"),
		LogLevel:     strings.ToLower(get(EnvLogLevel, DefaultLogLevel)),
		LogFile:      get(EnvLogFile, ""),
		LogMaxSizeMB: maxSize,
	}
}

// BaseURL returns the service root, honouring Endpoint when set.
func (c Config) BaseURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return "https://" + c.ServiceName + ".search.windows.net"
}
