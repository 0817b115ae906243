package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("FF_TEST_VAR", "hello")
	defer os.Unsetenv("FF_TEST_VAR")

	tests := []struct {
		in   string
		want string
	}{
		{"${FF_TEST_VAR}", "hello"},
		{"${FF_TEST_VAR:fallback}", "hello"},
		{"${FF_TEST_UNSET:fallback}", "fallback"},
		{"${FF_TEST_UNSET}", ""},
		{"prefix-${FF_TEST_VAR}-suffix", "prefix-hello-suffix"},
		{"no vars here", "no vars here"},
	}
	for _, tt := range tests {
		if got := expandEnvVars(tt.in); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir, testLogger())
	if err := l.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := l.Config()
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Providers.Google.ModelID != "gemini-2.5-flash-image-preview" {
		t.Errorf("unexpected default model id: %s", cfg.Providers.Google.ModelID)
	}
	if cfg.Providers.Fal.BaseURL != "https://fal.run" {
		t.Errorf("unexpected default fal base url: %s", cfg.Providers.Fal.BaseURL)
	}
}

func TestLoader_LoadsFileWithEnvExpansion(t *testing.T) {
	os.Setenv("FF_TEST_GOOGLE_KEY", "secret-key")
	defer os.Unsetenv("FF_TEST_GOOGLE_KEY")

	dir := t.TempDir()
	content := `
server:
  port: 9001
providers:
  google:
    api_key: ${FF_TEST_GOOGLE_KEY}
    model_id: test-model
cors:
  allowed_origins:
    - http://localhost:5173
`
	if err := os.WriteFile(filepath.Join(dir, "gateway.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, testLogger())
	if err := l.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := l.Config()
	if cfg.Server.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Server.Port)
	}
	if cfg.Providers.Google.APIKey != "secret-key" {
		t.Errorf("expected expanded api key, got %q", cfg.Providers.Google.APIKey)
	}
	if cfg.Providers.Google.ModelID != "test-model" {
		t.Errorf("expected model id test-model, got %q", cfg.Providers.Google.ModelID)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("unexpected allowed origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoader_InvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gateway.yaml"), []byte("server: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, testLogger())
	if err := l.Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestEffective_DoesNotShareOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Google.APIKey = "baseline"

	eff := cfg.Effective()
	eff.KeyOverride = "per-request"

	if cfg.Providers.Google.APIKey != "baseline" {
		t.Error("baseline config was mutated")
	}
	other := cfg.Effective()
	if other.KeyOverride != "" {
		t.Errorf("override leaked across effective views: %q", other.KeyOverride)
	}
}
