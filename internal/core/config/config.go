// Package config provides configuration management for encql clients.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the client-side settings: where the encryption engine and
// the authorizer live, and how the SQL layer connects.
type Config struct {
	EngineURL       string
	TokenServiceURL string
	WorkspaceID     string
	RequestTimeout  time.Duration
	MaxBatchSize    int
	DatabaseURL     string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		EngineURL:       "http://127.0.0.1:7667",
		TokenServiceURL: "http://127.0.0.1:7668/v1/token",
		WorkspaceID:     "",
		RequestTimeout:  30 * time.Second,
		MaxBatchSize:    1000,
		DatabaseURL:     "",
	}
}

// AccessKey reads the engine access key from the environment.
// The key authenticates the workspace against the engine; it is
// environment-only and never accepted from a config file.
func AccessKey() (string, error) {
	key := os.Getenv("ENCQL_ACCESS_KEY")
	if key == "" {
		return "", fmt.Errorf("no access key configured (set ENCQL_ACCESS_KEY environment variable)")
	}
	return key, nil
}

// SubjectToken reads the caller's identity JWT from the environment, for
// lock-context resolution. Empty means operations run unbound.
func SubjectToken() string {
	return os.Getenv("ENCQL_SUBJECT_TOKEN")
}
