package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-assistant/internal/events"
	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/maxaizer/job-assistant/internal/metrics"
	log "github.com/sirupsen/logrus"
	"time"
)

const (
	EndpointCoverLetter   = "/api/jobs/:id/cover-letter"
	EndpointResumeAnalyze = "/api/resume/analyze"
)

// completeAndReport runs one language model call and publishes its usage,
// whether it succeeded or not.
func completeAndReport(ctx context.Context, bus EventBus.Bus, client llm.Client, userID, endpoint, method string,
	request llm.Request) (llm.Response, error) {

	start := time.Now()
	response, err := client.Complete(ctx, request)
	latency := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("%s %s: language model call failed: %v",
			method, endpoint, err)
	}
	metrics.AiCallDuration.WithLabelValues(endpoint, status).Observe(latency.Seconds())

	model := response.Model
	if model == "" {
		model = client.Model()
	}

	bus.Publish(events.AiCallFinishedTopic, events.AiCallFinished{
		UserID:           userID,
		Endpoint:         endpoint,
		Method:           method,
		Model:            model,
		PromptTokens:     response.PromptTokens,
		CompletionTokens: response.CompletionTokens,
		TotalTokens:      response.TotalTokens,
		Latency:          latency,
		Err:              err,
	})

	if err != nil {
		return response, &AiCallError{Err: err}
	}
	return response, nil
}
