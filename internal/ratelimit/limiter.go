// Package ratelimit implements fixed-window request counting keyed by an
// opaque string such as "cover:post:<userID>".
//
// A window opens on the first touch of a key and every touch inside it shares
// one counter. Once the counter reaches the limit further touches are rejected
// without being counted, until the window expires and the next touch opens a
// fresh one.
package ratelimit

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

type Store interface {
	Touch(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

type Result struct {
	OK            bool
	Remaining     int
	ResetAt       time.Time
	RetryAfterSec int
}

// Rule is a limit applied to one action, e.g. 5 requests per 10 minutes.
type Rule struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		OK            bool  `json:"ok"`
		Remaining     int   `json:"remaining"`
		ResetAt       int64 `json:"resetAt"`
		RetryAfterSec int   `json:"retryAfterSec"`
	}{
		OK:            r.OK,
		Remaining:     r.Remaining,
		ResetAt:       resetUnixSeconds(r.ResetAt),
		RetryAfterSec: r.RetryAfterSec,
	})
}

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// Headers renders a result the way HTTP clients expect it. Retry-After is
// present only on rejections.
func Headers(result Result, limit int) map[string]string {
	remaining := result.Remaining
	if !result.OK {
		remaining = 0
	}

	headers := map[string]string{
		HeaderLimit:     strconv.Itoa(limit),
		HeaderRemaining: strconv.Itoa(remaining),
		HeaderReset:     strconv.FormatInt(resetUnixSeconds(result.ResetAt), 10),
	}
	if !result.OK {
		headers[HeaderRetryAfter] = strconv.Itoa(result.RetryAfterSec)
	}
	return headers
}

func resetUnixSeconds(resetAt time.Time) int64 {
	return int64(math.Ceil(float64(resetAt.UnixMilli()) / 1000))
}

// retryAfter is never below one second so clients always back off.
func retryAfter(resetAt, now time.Time) int {
	seconds := int(math.Ceil(float64(resetAt.Sub(now).Milliseconds()) / 1000))
	return max(1, seconds)
}
