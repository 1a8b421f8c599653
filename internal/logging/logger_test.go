package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		source  string
		want    Config
		wantErr bool
	}{
		{name: "defaults", want: Config{Format: "json", Level: slog.LevelInfo}},
		{name: "text_debug", format: "text", level: "debug", want: Config{Format: "text", Level: slog.LevelDebug}},
		{name: "case_and_space", format: " JSON ", level: "WARN", want: Config{Format: "json", Level: slog.LevelWarn}},
		{name: "source", source: "1", want: Config{Format: "json", Level: slog.LevelInfo, AddSource: true}},
		{name: "invalid_format", format: "yaml", wantErr: true},
		{name: "invalid_level", level: "trace", wantErr: true},
		{name: "invalid_source", source: "yes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvFormat, tt.format)
			t.Setenv(EnvLevel, tt.level)
			t.Setenv(EnvSource, tt.source)

			got, err := LoadConfigFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadConfigFromEnv() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfigFromEnv() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("LoadConfigFromEnv() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func decodeLine(t *testing.T, out *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(out.String())
	if line == "" {
		t.Fatal("expected JSON log line")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	return payload
}

func TestNewLogger_JSONIncludesStaticAttrs(t *testing.T) {
	var out bytes.Buffer
	NewLogger(DefaultConfig(), &out, "userdeck serve").Info("hello")

	payload := decodeLine(t, &out)
	if got := payload["app"]; got != "userdeck" {
		t.Fatalf("app = %v, want %q", got, "userdeck")
	}
	if got := payload["command"]; got != "userdeck serve" {
		t.Fatalf("command = %v, want %q", got, "userdeck serve")
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(Config{Format: "text", Level: slog.LevelWarn}, &out, "")
	logger.Info("quiet")
	if out.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", out.String())
	}
	logger.Warn("loud")
	if !strings.Contains(out.String(), "command=userdeck") {
		t.Fatalf("text record missing default command: %q", out.String())
	}
}

func TestForRequestOmitsEmptyAttrs(t *testing.T) {
	var out bytes.Buffer
	base := NewLogger(DefaultConfig(), &out, "userdeck serve")
	ForRequest(base, "req-1", "", "/dashboard").Warn("load users failed")

	payload := decodeLine(t, &out)
	if payload["request_id"] != "req-1" || payload["path"] != "/dashboard" {
		t.Fatalf("missing request attrs: %v", payload)
	}
	if _, ok := payload["method"]; ok {
		t.Fatalf("empty method was logged: %v", payload)
	}
}
