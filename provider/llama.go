package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ollama/ollama/api"

	"poassist/config"
	"poassist/model"
	"poassist/ollama"
)

// LlamaProvider talks to a local Ollama server.
type LlamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewLlamaProvider(cfg Config) *LlamaProvider {
	m := cfg.Model
	if m == "" {
		m = ollama.DefaultModel
	}
	return &LlamaProvider{
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		model:      m,
		httpClient: cfg.HTTPClient,
	}
}

func (p *LlamaProvider) client() (*ollama.Client, error) {
	if !config.ValidEndpoint(p.baseURL) {
		return nil, errors.New("LLaMA endpoint URL is missing or invalid")
	}
	return ollama.NewClient(p.baseURL, p.model, p.httpClient)
}

func (p *LlamaProvider) SendPrompt(ctx context.Context, prompt string) model.Result {
	client, err := p.client()
	if err != nil {
		return failure("Llama", "LLaMA endpoint URL is missing or invalid", err)
	}

	messages := []api.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: prompt},
	}
	options := map[string]any{
		"temperature": llamaTemperature,
		"num_predict": maxOutputTokens,
	}

	content, err := client.Chat(ctx, messages, options)
	if err != nil {
		return failure("Llama", llamaErrorMessage(err), err)
	}

	if strings.TrimSpace(content) == "" {
		return failure("Llama", msgNoResponse, nil)
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Llama] Received %d chars from %s", len(content), p.model)
	}

	return model.Result{Content: content}
}

// Ping checks that the server answers and has the configured model pulled.
func (p *LlamaProvider) Ping(ctx context.Context) error {
	client, err := p.client()
	if err != nil {
		return err
	}

	installed, err := client.ListModels(ctx)
	if err != nil {
		return errors.New(llamaErrorMessage(err))
	}
	if !ollama.HasModel(installed, client.GetModel()) {
		return fmt.Errorf("model %q is not installed on the LLaMA server (ollama pull %s)", client.GetModel(), client.GetModel())
	}
	return nil
}

func llamaErrorMessage(err error) string {
	if msg, ok := contextMessage(err); ok {
		return msg
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.ErrorMessage != "" {
			return statusErr.ErrorMessage
		}
		return statusErr.Status
	}

	if isNetworkError(err) {
		return msgNetwork
	}
	return err.Error()
}
