package weaviate

import (
	"testing"
	"time"
)

func TestResolveConfigFromEnvValid(t *testing.T) {
	t.Setenv("WEAVIATE_URL", "http://weaviate:8080")
	t.Setenv("WEAVIATE_API_KEY", "secret")
	t.Setenv("WEAVIATE_CLASS", "Game")
	t.Setenv("WEAVIATE_TIMEOUT_SECONDS", "20")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.URL != "http://weaviate:8080" {
		t.Fatalf("URL: want=%q got=%q", "http://weaviate:8080", cfg.URL)
	}
	if cfg.APIKey != "secret" {
		t.Fatalf("APIKey: want=%q got=%q", "secret", cfg.APIKey)
	}
	if cfg.Class != "Game" {
		t.Fatalf("Class: want=%q got=%q", "Game", cfg.Class)
	}
	if cfg.Timeout != 20*time.Second {
		t.Fatalf("Timeout: want=%v got=%v", 20*time.Second, cfg.Timeout)
	}
}

func TestResolveConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("WEAVIATE_URL", "http://weaviate:8080")
	t.Setenv("WEAVIATE_API_KEY", "")
	t.Setenv("WEAVIATE_CLASS", "")
	t.Setenv("WEAVIATE_TIMEOUT_SECONDS", "")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Class != "Game" {
		t.Fatalf("Class default: want=%q got=%q", "Game", cfg.Class)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout default: want=%v got=%v", 10*time.Second, cfg.Timeout)
	}
}

func TestResolveConfigFromEnvMissingURL(t *testing.T) {
	t.Setenv("WEAVIATE_URL", "")
	t.Setenv("WEAVIATE_CLASS", "Game")

	_, err := ResolveConfigFromEnv()
	if err == nil {
		t.Fatalf("ResolveConfigFromEnv: expected error, got nil")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got=%T", err)
	}
	if cfgErr.Code != ConfigErrorMissingURL {
		t.Fatalf("code: want=%q got=%q", ConfigErrorMissingURL, cfgErr.Code)
	}
}

func TestResolveConfigFromEnvInvalidURL(t *testing.T) {
	t.Setenv("WEAVIATE_URL", "weaviate:8080")
	t.Setenv("WEAVIATE_CLASS", "Game")

	_, err := ResolveConfigFromEnv()
	if err == nil {
		t.Fatalf("ResolveConfigFromEnv: expected error, got nil")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got=%T", err)
	}
	if cfgErr.Code != ConfigErrorInvalidURL {
		t.Fatalf("code: want=%q got=%q", ConfigErrorInvalidURL, cfgErr.Code)
	}
}

func TestResolveConfigFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("WEAVIATE_URL", "http://weaviate:8080")
	t.Setenv("WEAVIATE_TIMEOUT_SECONDS", "zero")

	_, err := ResolveConfigFromEnv()
	if err == nil {
		t.Fatalf("ResolveConfigFromEnv: expected error, got nil")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got=%T", err)
	}
	if cfgErr.Code != ConfigErrorInvalidTimeout {
		t.Fatalf("code: want=%q got=%q", ConfigErrorInvalidTimeout, cfgErr.Code)
	}
}

func TestValidateConfigMissingClass(t *testing.T) {
	err := ValidateConfig(Config{URL: "http://weaviate:8080", Class: "  ", Timeout: time.Second})
	if err == nil {
		t.Fatalf("ValidateConfig: expected error, got nil")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got=%T", err)
	}
	if cfgErr.Code != ConfigErrorMissingClass {
		t.Fatalf("code: want=%q got=%q", ConfigErrorMissingClass, cfgErr.Code)
	}
}
