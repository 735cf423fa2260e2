package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/wonny/analystlens/pkg/config"
	"github.com/wonny/analystlens/pkg/httputil"
	"github.com/wonny/analystlens/pkg/logger"
	"github.com/wonny/analystlens/pkg/metrics"
)

// DefaultModel is used when no model is configured
const DefaultModel = openai.GPT4oMini

// OpenAIClient implements Completer on the chat completions API.
// Transport goes through httputil.Client for retries and pacing.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewOpenAIClient builds the client. It returns ErrNotConfigured without an API key.
func NewOpenAIClient(cfg config.OpenAIConfig, m *metrics.Metrics, log *logger.Logger) (*OpenAIClient, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	httpClient := httputil.New(log, cfg.Timeout).WithRateLimit(cfg.RequestsPerSecond)
	return newOpenAIClient(cfg, httpClient, m, log), nil
}

func newOpenAIClient(cfg config.OpenAIConfig, doer openai.HTTPDoer, m *metrics.Metrics, log *logger.Logger) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = doer

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(oc),
		model:   model,
		metrics: m,
		log:     log.WithComponent("insights.openai"),
	}
}

// Model returns the chat model in use
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete implements Completer
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	start := time.Now()

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err == nil && len(resp.Choices) == 0 {
		err = ErrEmptyCompletion
	}
	c.metrics.LLMCall(req.Operation, err, time.Since(start))

	if err != nil {
		c.log.WithError(err).WithContext(ctx).WithFields(map[string]interface{}{
			"operation": req.Operation,
			"model":     c.model,
		}).Error("chat completion failed")
		return "", fmt.Errorf("%s completion: %w", req.Operation, err)
	}

	c.log.WithContext(ctx).WithFields(map[string]interface{}{
		"operation":         req.Operation,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"elapsed_ms":        time.Since(start).Milliseconds(),
	}).Debug("chat completion done")

	return resp.Choices[0].Message.Content, nil
}
