package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching Default()
	v.SetDefault("engine.url", "http://127.0.0.1:7667")
	v.SetDefault("engine.request_timeout", "30s")
	v.SetDefault("engine.max_batch_size", 1000)
	v.SetDefault("token_service.url", "http://127.0.0.1:7668/v1/token")
	v.SetDefault("workspace.id", "")
	v.SetDefault("database.url", "")

	// Bind environment variables with ENCQL_ prefix
	v.SetEnvPrefix("ENCQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets are environment-only; reject them in config files.
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		EngineURL:       v.GetString("engine.url"),
		TokenServiceURL: v.GetString("token_service.url"),
		WorkspaceID:     v.GetString("workspace.id"),
		RequestTimeout:  v.GetDuration("engine.request_timeout"),
		MaxBatchSize:    v.GetInt("engine.max_batch_size"),
		DatabaseURL:     v.GetString("database.url"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks endpoint presence and positive values for timeout and
// batch size.
func validate(cfg *Config) error {
	if cfg.EngineURL == "" {
		return fmt.Errorf("engine.url must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("engine.request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxBatchSize <= 0 {
		return fmt.Errorf("engine.max_batch_size must be positive, got %d", cfg.MaxBatchSize)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets. InConfig
// looks at the config file alone, so ENCQL_ACCESS_KEY in the environment
// stays valid.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("access_key") || v.InConfig("engine.access_key") {
		return fmt.Errorf("access keys not allowed in config files (use ENCQL_ACCESS_KEY environment variable)")
	}
	if v.InConfig("subject_token") || v.InConfig("token_service.subject_token") {
		return fmt.Errorf("subject tokens not allowed in config files (use ENCQL_SUBJECT_TOKEN environment variable)")
	}
	return nil
}
