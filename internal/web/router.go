// Package web exposes the job assistant over HTTP.
package web

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-assistant/internal/config"
	"github.com/maxaizer/job-assistant/internal/metrics"
	"github.com/maxaizer/job-assistant/internal/ratelimit"
	"time"
)

// Rate limited actions. They prefix the per-user limiter key and label the
// rejection metric.
const (
	ActionIngest        = "ingest"
	ActionMatch         = "match"
	ActionCoverGet      = "cover:get"
	ActionCoverPost     = "cover:post"
	ActionCoverPut      = "cover:put"
	ActionResumeUpload  = "resume:upload"
	ActionResumeAnalyze = "resume:analyze"
)

func NewRouter(deps Dependencies, limiter ratelimit.Store, server config.ServerConfig,
	limits config.LimitsConfig) *gin.Engine {

	if server.Mode != "" {
		gin.SetMode(server.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), observeRequests())

	if len(server.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			ExposeHeaders:    []string{ratelimit.HeaderLimit, ratelimit.HeaderRemaining, ratelimit.HeaderReset, ratelimit.HeaderRetryAfter},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := newHandlers(deps)
	limited := func(action string, rule ratelimit.Rule) gin.HandlerFunc {
		return rateLimit(limiter, action, rule)
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/health", h.health)
	api.GET("/jobs/list", h.listJobs)
	api.GET("/jobs/:id", h.getJob)

	private := api.Group("", authenticate([]byte(server.JWTSecret), deps.Users))
	private.POST("/jobs/ingest", limited(ActionIngest, limits.Ingest), h.ingestJobs)
	private.GET("/jobs/:id/match", limited(ActionMatch, limits.Match), h.computeMatch)
	private.GET("/jobs/:id/cover-letter", limited(ActionCoverGet, limits.CoverGet), h.getCoverLetter)
	private.POST("/jobs/:id/cover-letter", limited(ActionCoverPost, limits.CoverPost), h.generateCoverLetter)
	private.PUT("/jobs/:id/cover-letter", limited(ActionCoverPut, limits.CoverPut), h.saveCoverLetter)
	private.POST("/resume/upload", limited(ActionResumeUpload, limits.ResumeUpload), h.uploadResume)
	private.POST("/resume/analyze", limited(ActionResumeAnalyze, limits.ResumeAnalyze), h.analyzeResume)
	private.GET("/metrics/summary", h.summary)

	return router
}
