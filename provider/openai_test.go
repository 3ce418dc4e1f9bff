package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOpenAITestServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("x-should-retry", "false")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestOpenAISendPrompt(t *testing.T) {
	var req map[string]any
	srv := newOpenAITestServer(t, http.StatusOK, `{
		"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"1,Bolts,500"}}]
	}`, &req)
	defer srv.Close()

	p := NewOpenAIProvider(Config{Type: ProviderTypeOpenAI, BaseURL: srv.URL, APIKey: "sk-test", Model: "gpt-3.5-turbo"})
	res := p.SendPrompt(context.Background(), "list items")

	if res.Error != "" || res.Content != "1,Bolts,500" {
		t.Fatalf("SendPrompt() = %+v", res)
	}

	if req["model"] != "gpt-3.5-turbo" {
		t.Errorf("model = %v", req["model"])
	}
	if req["temperature"] != 0.7 {
		t.Errorf("temperature = %v", req["temperature"])
	}
	if req["max_tokens"] != float64(2000) {
		t.Errorf("max_tokens = %v", req["max_tokens"])
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", req["messages"])
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" {
		t.Errorf("first message role = %v, want system", first["role"])
	}
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "invalid key",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided: sk-bad.","type":"invalid_request_error","code":"invalid_api_key"}}`,
			want:   "Invalid OpenAI API key. Please check your settings.",
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached for requests","type":"requests","code":"rate_limit_exceeded"}}`,
			want:   "Rate limit exceeded. Please try again later.",
		},
		{
			name:   "other vendor error",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"This model's maximum context length is 8192 tokens.","type":"invalid_request_error"}}`,
			want:   "This model's maximum context length is 8192 tokens.",
		},
		{
			name:   "empty choices",
			status: http.StatusOK,
			body:   `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4","choices":[]}`,
			want:   "No response generated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAITestServer(t, tt.status, tt.body, nil)
			defer srv.Close()

			p := NewOpenAIProvider(Config{Type: ProviderTypeOpenAI, BaseURL: srv.URL, APIKey: "sk-bad"})
			res := p.SendPrompt(context.Background(), "hi")

			if res.Content != "" || res.Error != tt.want {
				t.Errorf("SendPrompt() = %+v, want error %q", res, tt.want)
			}
		})
	}
}

func TestOpenAIMissingKey(t *testing.T) {
	p := NewOpenAIProvider(Config{Type: ProviderTypeOpenAI, BaseURL: "http://127.0.0.1:1"})
	res := p.SendPrompt(context.Background(), "hi")
	if res.Error != "OpenAI API key is missing" {
		t.Errorf("SendPrompt() = %+v", res)
	}
}

func TestOpenAINetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewOpenAIProvider(Config{Type: ProviderTypeOpenAI, BaseURL: url, APIKey: "sk"})
	res := p.SendPrompt(context.Background(), "hi")
	if res.Error != "Network error. Please check your internet connection and try again." {
		t.Errorf("SendPrompt() = %+v", res)
	}
}
