package gemini

import (
	"context"
	"fmt"
	"github.com/google/generative-ai-go/genai"
	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"strings"
	"time"
)

type Model string

const (
	//Model15Flash is fastest multimodal model with great performance for diverse, repetitive tasks
	Model15Flash Model = "gemini-1.5-flash"
	//Model15Flash8b is the smallest model for lower intelligence use cases
	Model15Flash8b Model = "gemini-1.5-flash-8b"
	//Model15Pro is next-generation model with a breakthrough 2 million context window
	Model15Pro Model = "gemini-1.5-pro"
	//Model20Flash is the default for resume analysis and cover letters
	Model20Flash Model = "gemini-2.0-flash"
)

const jsonMIMEType = "application/json"

type Client struct {
	client            *genai.Client
	model             Model
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Model() string {
	return string(c.model)
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
}

func (c *Client) Complete(ctx context.Context, request llm.Request) (llm.Response, error) {

	var resp llm.Response
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.WithField("error_type", "ai_api").Warn("gemini api returned server error, retrying...")
		}
		resp, err = c.waitAndComplete(ctx, request)
		return err, isServerError(err)
	})

	return resp, err
}

func (c *Client) waitAndComplete(ctx context.Context, request llm.Request) (llm.Response, error) {

	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return llm.Response{}, err
			}
		}
	}

	return c.tryComplete(ctx, request)
}

func (c *Client) tryComplete(ctx context.Context, request llm.Request) (llm.Response, error) {

	model := c.generativeModel(request)

	userParts := lo.FilterMap(request.Messages, func(m llm.Message, _ int) (genai.Part, bool) {
		return genai.Text(m.Content), m.Role == llm.RoleUser
	})
	if len(userParts) == 0 {
		return llm.Response{}, fmt.Errorf("request has no user message")
	}

	response, err := model.GenerateContent(ctx, userParts...)
	if err != nil {
		return llm.Response{}, err
	}

	result := llm.Response{Model: string(c.model)}
	if usage := response.UsageMetadata; usage != nil {
		result.PromptTokens = int(usage.PromptTokenCount)
		result.CompletionTokens = int(usage.CandidatesTokenCount)
		result.TotalTokens = int(usage.TotalTokenCount)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return result, nil
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			text.WriteString(string(textPart))
		}
	}
	result.Text = text.String()
	return result, nil
}

// generativeModel is built per call since temperature and response format
// vary between requests.
func (c *Client) generativeModel(request llm.Request) *genai.GenerativeModel {
	model := c.client.GenerativeModel(string(c.model))
	model.SetTemperature(request.Temperature)

	if request.JSON {
		model.ResponseMIMEType = jsonMIMEType
	}

	system := lo.FilterMap(request.Messages, func(m llm.Message, _ int) (genai.Part, bool) {
		return genai.Text(m.Content), m.Role == llm.RoleSystem
	})
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}
	return model
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 500") || strings.Contains(msg, "Error 503")
}
