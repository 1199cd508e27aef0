package weaviate

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	URL     string
	APIKey  string
	Class   string
	Timeout time.Duration
}

type ConfigErrorCode string

const (
	ConfigErrorMissingURL     ConfigErrorCode = "missing_url"
	ConfigErrorInvalidURL     ConfigErrorCode = "invalid_url"
	ConfigErrorMissingClass   ConfigErrorCode = "missing_class"
	ConfigErrorInvalidTimeout ConfigErrorCode = "invalid_timeout"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid weaviate config"
	}
	switch e.Code {
	case ConfigErrorMissingURL:
		return "WEAVIATE_URL is required"
	case ConfigErrorInvalidURL:
		return fmt.Sprintf(
			"invalid WEAVIATE_URL=%q; expected absolute URL like http://weaviate:8080",
			e.Value,
		)
	case ConfigErrorMissingClass:
		return "WEAVIATE_CLASS is required"
	case ConfigErrorInvalidTimeout:
		return fmt.Sprintf(
			"invalid WEAVIATE_TIMEOUT_SECONDS=%q; expected positive integer",
			e.Value,
		)
	default:
		return "invalid weaviate config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ResolveConfigFromEnv() (Config, error) {
	timeout := 10 * time.Second
	rawTimeout := strings.TrimSpace(os.Getenv("WEAVIATE_TIMEOUT_SECONDS"))
	if rawTimeout != "" {
		parsed, err := strconv.Atoi(rawTimeout)
		if err != nil || parsed <= 0 {
			return Config{}, &ConfigError{
				Code:  ConfigErrorInvalidTimeout,
				Value: rawTimeout,
				Cause: err,
			}
		}
		timeout = time.Duration(parsed) * time.Second
	}

	cfg := Config{
		URL:     strings.TrimSpace(os.Getenv("WEAVIATE_URL")),
		APIKey:  strings.TrimSpace(os.Getenv("WEAVIATE_API_KEY")),
		Class:   strings.TrimSpace(os.Getenv("WEAVIATE_CLASS")),
		Timeout: timeout,
	}
	if cfg.Class == "" {
		cfg.Class = "Game"
	}

	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	if cfg.URL == "" {
		return &ConfigError{Code: ConfigErrorMissingURL}
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil || strings.TrimSpace(parsed.Scheme) == "" || strings.TrimSpace(parsed.Host) == "" {
		return &ConfigError{
			Code:  ConfigErrorInvalidURL,
			Value: cfg.URL,
			Cause: err,
		}
	}
	if strings.TrimSpace(cfg.Class) == "" {
		return &ConfigError{Code: ConfigErrorMissingClass}
	}
	if cfg.Timeout <= 0 {
		return &ConfigError{
			Code:  ConfigErrorInvalidTimeout,
			Value: cfg.Timeout.String(),
		}
	}
	return nil
}
