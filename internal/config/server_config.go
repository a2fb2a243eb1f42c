package config

import (
	"fmt"
	"github.com/maxaizer/job-assistant/internal/ratelimit"
	"time"
)

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	JWTSecret      string   `mapstructure:"jwt_secret"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (config ServerConfig) validate() error {
	if config.Port <= 0 {
		return fmt.Errorf("invalid port: %d", config.Port)
	}
	if len(config.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters")
	}
	return nil
}

func (config ServerConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"server.port":       "PORT",
		"server.mode":       "GIN_MODE",
		"server.jwt_secret": "JWT_SECRET",
	})
}

// LimitsConfig holds the per-user fixed window of every rate limited action.
type LimitsConfig struct {
	Ingest        ratelimit.Rule `mapstructure:"ingest"`
	Match         ratelimit.Rule `mapstructure:"match"`
	CoverGet      ratelimit.Rule `mapstructure:"cover_get"`
	CoverPost     ratelimit.Rule `mapstructure:"cover_post"`
	CoverPut      ratelimit.Rule `mapstructure:"cover_put"`
	ResumeUpload  ratelimit.Rule `mapstructure:"resume_upload"`
	ResumeAnalyze ratelimit.Rule `mapstructure:"resume_analyze"`
	SweepInterval time.Duration  `mapstructure:"sweep_interval"`
}

func (config LimitsConfig) rules() map[string]ratelimit.Rule {
	return map[string]ratelimit.Rule{
		"ingest":         config.Ingest,
		"match":          config.Match,
		"cover_get":      config.CoverGet,
		"cover_post":     config.CoverPost,
		"cover_put":      config.CoverPut,
		"resume_upload":  config.ResumeUpload,
		"resume_analyze": config.ResumeAnalyze,
	}
}

func (config LimitsConfig) validate() error {
	for name, rule := range config.rules() {
		if rule.Limit <= 0 || rule.Window <= 0 {
			return fmt.Errorf("invalid rule %s: limit and window must be positive", name)
		}
	}
	return nil
}

func (config LimitsConfig) bindEnvironmentVariables() error {
	return nil
}

type RedisConfig struct {
	// URL is optional; without it rate limits are kept in process memory.
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

func (config RedisConfig) validate() error {
	return nil
}

func (config RedisConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{"redis.url": "REDIS_URL"})
}

type FeedConfig struct {
	Path                 string  `mapstructure:"path"`
	URL                  string  `mapstructure:"url"`
	Schedule             string  `mapstructure:"schedule"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
}

func (config FeedConfig) validate() error {
	if config.Path == "" && config.URL == "" {
		return fmt.Errorf("either feed path or feed url must be set")
	}
	return nil
}

func (config FeedConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"feed.path":     "FEED_PATH",
		"feed.url":      "FEED_URL",
		"feed.schedule": "FEED_SCHEDULE",
	})
}

type UsageConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

func (config UsageConfig) validate() error {
	if config.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be greater than zero")
	}
	return nil
}

func (config UsageConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{"usage.retention_days": "USAGE_RETENTION_DAYS"})
}
