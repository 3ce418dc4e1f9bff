package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const DefaultModel = "llama2"

type Client struct {
	client  *api.Client
	model   string
	baseURL string
}

// NewClient requires an absolute http(s) base URL.
func NewClient(baseURL, model string, httpClient *http.Client) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL: %q", baseURL)
	}

	return &Client{
		client:  api.NewClient(parsedURL, httpClient),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat sends a non-streaming chat request and returns the reply text.
func (c *Client) Chat(ctx context.Context, messages []api.Message, options map[string]any) (string, error) {
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Options:  options,
		Stream:   func(b bool) *bool { return &b }(false),
	}

	var content strings.Builder
	respFunc := func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	}

	if err := c.client.Chat(ctx, req, respFunc); err != nil {
		return "", err
	}

	return content.String(), nil
}

// ListModels returns the names of the models installed on the server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	names := make([]string, len(resp.Models))
	for i, m := range resp.Models {
		names[i] = m.Name
	}
	return names, nil
}

func (c *Client) GetModel() string {
	return c.model
}

// HasModel reports whether name is among installed. A bare name matches any
// tag of that model, so "llama2" matches "llama2:latest".
func HasModel(installed []string, name string) bool {
	for _, m := range installed {
		if m == name {
			return true
		}
		if !strings.Contains(name, ":") && strings.HasPrefix(m, name+":") {
			return true
		}
	}
	return false
}
