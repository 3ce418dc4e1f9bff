package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"poassist/config"
	"poassist/model"
)

// OpenAIProvider implements model.Provider using OpenAI's official API.
type OpenAIProvider struct {
	client openai.Client
	model  string
	apiKey string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Defaults: base URL "https://api.openai.com/v1", model "gpt-4". A missing
// API key is not an error here; SendPrompt reports it.
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	m := cfg.Model
	if m == "" {
		m = string(model.ModelGPT4)
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(openAIMaxRetries),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  m,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}
}

func (p *OpenAIProvider) SendPrompt(ctx context.Context, prompt string) model.Result {
	if p.apiKey == "" {
		return failure("OpenAI", "OpenAI API key is missing", nil)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(openAITemperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return failure("OpenAI", openAIErrorMessage(err), err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return failure("OpenAI", msgNoResponse, nil)
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[OpenAI] Received %d chars from %s", len(resp.Choices[0].Message.Content), p.model)
	}

	return model.Result{Content: resp.Choices[0].Message.Content}
}

func openAIErrorMessage(err error) string {
	if msg, ok := contextMessage(err); ok {
		return msg
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || strings.Contains(apiErr.Message, "API key"):
			return "Invalid OpenAI API key. Please check your settings."
		case apiErr.StatusCode == http.StatusTooManyRequests || strings.Contains(strings.ToLower(apiErr.Message), "rate limit"):
			return msgRateLimit
		case apiErr.Message != "":
			return apiErr.Message
		}
	}

	if isNetworkError(err) {
		return msgNetwork
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"):
		return "Invalid OpenAI API key. Please check your settings."
	case strings.Contains(strings.ToLower(msg), "rate limit"):
		return msgRateLimit
	}
	return msg
}

// Ping lists models to check the key and endpoint.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if p.apiKey == "" {
		return errors.New("OpenAI API key is missing")
	}
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %s", openAIErrorMessage(err))
	}
	return nil
}
