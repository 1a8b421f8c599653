// Package logging builds the process-wide slog logger from LOG_* variables.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvFormat = "LOG_FORMAT"
	EnvLevel  = "LOG_LEVEL"
	// EnvSource adds file:line to every record when set to 1.
	EnvSource = "LOG_SOURCE"

	appName = "userdeck"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type Config struct {
	Format    string
	Level     slog.Level
	AddSource bool
}

type BootstrapOptions struct {
	Command string
	Writer  io.Writer
}

// DefaultConfig is JSON at info level.
func DefaultConfig() Config {
	return Config{Format: "json", Level: slog.LevelInfo}
}

// LoadConfigFromEnv reads LOG_FORMAT, LOG_LEVEL and LOG_SOURCE. Unset
// variables keep their defaults; unknown values are errors.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvFormat))); raw != "" {
		if raw != "json" && raw != "text" {
			return Config{}, fmt.Errorf("%s must be one of: json, text", EnvFormat)
		}
		cfg.Format = raw
	}
	if raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLevel))); raw != "" {
		level, ok := levels[raw]
		if !ok {
			return Config{}, fmt.Errorf("%s must be one of: debug, info, warn, error", EnvLevel)
		}
		cfg.Level = level
	}
	switch strings.TrimSpace(os.Getenv(EnvSource)) {
	case "", "0":
	case "1":
		cfg.AddSource = true
	default:
		return Config{}, fmt.Errorf("%s must be 0 or 1", EnvSource)
	}
	return cfg, nil
}

// NewLogger returns a logger tagged with app=userdeck and the cobra command path.
func NewLogger(cfg Config, writer io.Writer, command string) *slog.Logger {
	if writer == nil {
		writer = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var handler slog.Handler = slog.NewJSONHandler(writer, opts)
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "text") {
		handler = slog.NewTextHandler(writer, opts)
	}

	if command = strings.TrimSpace(command); command == "" {
		command = appName
	}
	return slog.New(handler).With("app", appName, "command", command)
}

// BootstrapFromEnv installs the env-configured logger as slog's default.
func BootstrapFromEnv(opts BootstrapOptions) (*slog.Logger, error) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, opts.Writer, opts.Command)
	slog.SetDefault(logger)
	return logger, nil
}

// ForRequest scopes logger to one HTTP request. Empty values are omitted.
func ForRequest(logger *slog.Logger, requestID, method, path string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	attrs := make([]any, 0, 6)
	for _, kv := range [][2]string{{"request_id", requestID}, {"method", method}, {"path", path}} {
		if kv[1] != "" {
			attrs = append(attrs, kv[0], kv[1])
		}
	}
	return logger.With(attrs...)
}
