package config

import (
	"fmt"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Price is the USD price per 1K tokens of a model. Model is matched as a
// prefix, so "gpt-4o-mini" also prices "gpt-4o-mini-2024-07-18".
type Price struct {
	Model  string  `mapstructure:"model"`
	Input  float64 `mapstructure:"input"`
	Output float64 `mapstructure:"output"`
}

type AIConfig struct {
	Provider             string  `mapstructure:"provider"`
	Key                  string  `mapstructure:"key"`
	BaseURL              string  `mapstructure:"base_url"`
	Model                string  `mapstructure:"model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
	Prices               []Price `mapstructure:"prices"`
}

func (config AIConfig) validate() error {
	var missingFields []string

	if config.Key == "" {
		missingFields = append(missingFields, "key")
	}
	if config.Model == "" {
		missingFields = append(missingFields, "model")
	}
	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.Provider != ProviderGemini && config.Provider != ProviderOpenAI {
		return fmt.Errorf("unsupported ai provider: %q", config.Provider)
	}
	return nil
}

func (config AIConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"ai.provider":                "AI_PROVIDER",
		"ai.key":                     "AI_KEY",
		"ai.base_url":                "AI_BASE_URL",
		"ai.model":                   "AI_MODEL",
		"ai.max_requests_per_minute": "AI_MAX_REQUESTS_PER_MINUTE",
		"ai.max_requests_per_day":    "AI_MAX_REQUESTS_PER_DAY",
	})
}
