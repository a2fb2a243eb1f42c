package config

import (
	"github.com/spf13/viper"
	"time"
)

func setDefaults() {
	viper.SetDefault("logger.log_level", LevelInfo)
	viper.SetDefault("logger.dir", "./logs")
	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("ai.provider", ProviderGemini)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("redis.prefix", "rl:")
	viper.SetDefault("feed.path", "data/jobs-feed.json")
	viper.SetDefault("usage.retention_days", 90)

	viper.SetDefault("limits.sweep_interval", time.Minute)
	rules := map[string]struct {
		limit  int
		window time.Duration
	}{
		"ingest":         {5, 10 * time.Minute},
		"match":          {30, time.Minute},
		"cover_get":      {30, time.Minute},
		"cover_post":     {5, 10 * time.Minute},
		"cover_put":      {20, time.Minute},
		"resume_upload":  {10, 10 * time.Minute},
		"resume_analyze": {5, 10 * time.Minute},
	}
	for name, rule := range rules {
		viper.SetDefault("limits."+name+".limit", rule.limit)
		viper.SetDefault("limits."+name+".window", rule.window)
	}
}
