package openai

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

const DefaultModel = "gpt-4o-mini"

type Client struct {
	client      *openai.Client
	model       string
	rateLimiter *rate.Limiter
}

// NewClient talks to the OpenAI API, or to any compatible endpoint when
// baseURL is set.
func NewClient(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: openai.NewClient(opts...), model: model}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) Complete(ctx context.Context, request llm.Request) (llm.Response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return llm.Response{}, err
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(lo.Map(request.Messages, toParam)),
		Model:       openai.F(c.model),
		Temperature: openai.F(float64(request.Temperature)),
	}
	if request.JSON {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject)},
		)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.Response{}, err
	}

	result := llm.Response{
		Model:            completion.Model,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
	}
	if result.Model == "" {
		result.Model = c.model
	}
	if len(completion.Choices) > 0 {
		result.Text = completion.Choices[0].Message.Content
	}
	return result, nil
}

func toParam(message llm.Message, _ int) openai.ChatCompletionMessageParamUnion {
	if message.Role == llm.RoleSystem {
		return openai.SystemMessage(message.Content)
	}
	return openai.UserMessage(message.Content)
}
