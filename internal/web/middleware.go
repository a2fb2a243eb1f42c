package web

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/maxaizer/job-assistant/internal/metrics"
	"github.com/maxaizer/job-assistant/internal/ratelimit"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strconv"
	"time"
)

// rateLimit counts the request against the user's window for the action.
// It runs before the body is read or any entity is loaded.
func rateLimit(store ratelimit.Store, action string, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := action + ":" + currentUserID(c)

		result, err := store.Touch(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Errorf("rate limit store failed: %v", err)
			abortWithCode(c, http.StatusInternalServerError, CodeInternal)
			return
		}

		for name, value := range ratelimit.Headers(result, rule.Limit) {
			c.Header(name, value)
		}

		if !result.OK {
			metrics.RateLimitedCounter.WithLabelValues(action).Inc()
			abortWithCode(c, http.StatusTooManyRequests, CodeRateLimited)
			return
		}
		c.Next()
	}
}

func observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"route":   route,
			"status":  status,
			"latency": elapsed.Milliseconds(),
		}).Debug("request handled")
	}
}
