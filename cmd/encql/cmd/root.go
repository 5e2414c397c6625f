package cmd

import (
	"fmt"
	"log/slog"

	"github.com/solatis/encql"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "encql",
	Short: "encql encrypted query building client",
	Long:  `encql builds SQL search predicates against encrypted columns without plaintext leaving the client.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the logger from the persistent flags.
func newLogger() (*encql.Logger, error) {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", logLevel)
	}

	switch logFormat {
	case "json":
		return encql.NewJSONLogger(level), nil
	case "text":
		return encql.NewTextLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", logFormat)
	}
}
