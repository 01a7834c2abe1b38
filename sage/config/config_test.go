package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_USER", "sage")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "sage")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COMPLETION_API_KEY", "key")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPort != "5432" {
		t.Errorf("expected default port 5432, got %q", cfg.DBPort)
	}
	if cfg.PrimaryModel == "" || cfg.FallbackModel == "" {
		t.Error("model identifiers must have defaults")
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COMPLETION_API_KEY", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error for missing completion credential")
	}
	if !strings.Contains(err.Error(), "COMPLETION_API_KEY") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}
