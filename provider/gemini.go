package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"poassist/config"
	"poassist/model"
)

// GeminiProvider talks to the Gemini API through the genai SDK.
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGeminiProvider(cfg Config) *GeminiProvider {
	m := cfg.Model
	if m == "" {
		m = geminiDefaultModel
	}

	return &GeminiProvider{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      m,
		httpClient: cfg.HTTPClient,
	}
}

// newClient builds a client per call; an empty base URL keeps the SDK's
// public endpoint.
func (p *GeminiProvider) newClient(ctx context.Context) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	return genai.NewClient(ctx, cc)
}

func (p *GeminiProvider) SendPrompt(ctx context.Context, prompt string) model.Result {
	if p.apiKey == "" {
		return failure("Gemini", errGeminiKeyMissing.Error(), nil)
	}

	client, err := p.newClient(ctx)
	if err != nil {
		return failure("Gemini", fmt.Sprintf("failed to create gemini client: %v", err), err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](geminiTemperature),
		MaxOutputTokens:   maxOutputTokens,
	})
	if err != nil {
		return failure("Gemini", geminiErrorMessage(err), err)
	}

	text := resp.Text()
	if text == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return failure("Gemini", fmt.Sprintf("The request was blocked by Gemini (%s).", resp.PromptFeedback.BlockReason), nil)
		}
		return failure("Gemini", msgNoResponse, nil)
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Gemini] Received %d chars from %s", len(text), p.model)
	}

	return model.Result{Content: text}
}

var errGeminiKeyMissing = errors.New("Google Gemini API key is missing")

// geminiAPIError unwraps the SDK's APIError, returned by value or pointer.
func geminiAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func geminiErrorMessage(err error) string {
	if msg, ok := contextMessage(err); ok {
		return msg
	}

	apiErr, ok := geminiAPIError(err)
	if !ok {
		if isNetworkError(err) {
			return msgNetwork
		}
		return err.Error()
	}

	invalidKey := false
	for _, d := range apiErr.Details {
		if reason, _ := d["reason"].(string); reason == "API_KEY_INVALID" {
			invalidKey = true
		}
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized || invalidKey:
		return "Invalid Google Gemini API key. Please check your settings."
	case apiErr.Code == http.StatusForbidden:
		return "Access denied. Please verify your Google Gemini API key has access to this model."
	case apiErr.Code == http.StatusTooManyRequests:
		return msgRateLimit
	case apiErr.Message != "":
		return apiErr.Message
	}
	return fmt.Sprintf("Gemini API error [%d]: %s", apiErr.Code, apiErr.Status)
}

// Ping fetches the model resource to check the key.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	if p.apiKey == "" {
		return errGeminiKeyMissing
	}

	client, err := p.newClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}

	if _, err := client.Models.Get(ctx, p.model, nil); err != nil {
		return fmt.Errorf("Gemini ping failed: %s", geminiErrorMessage(err))
	}
	return nil
}
