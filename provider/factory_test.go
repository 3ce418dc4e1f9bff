package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"poassist/config"
	"poassist/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{"bedrock", Config{Type: ProviderTypeBedrock, Region: "us-east-1"}, false},
		{"openai without key", Config{Type: ProviderTypeOpenAI}, false},
		{"gemini", Config{Type: ProviderTypeGemini, APIKey: "k"}, false},
		{"llama with bad url", Config{Type: ProviderTypeLlama, BaseURL: "nope"}, false},
		{"unknown provider type", Config{Type: ProviderType("unknown")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Error("expected provider, got nil")
			}
		})
	}
}

func TestResolverBackendPerSelection(t *testing.T) {
	reg := config.NewRegistry()
	set := func(id config.ProviderID, upd config.SettingsUpdate) {
		if err := reg.UpdateSettings(id, upd); err != nil {
			t.Fatal(err)
		}
	}
	key := "key"
	secret := "secret"
	akid := "AKIATEST"
	set(config.ProviderBedrock, config.SettingsUpdate{AccessKeyID: &akid, SecretAccessKey: &secret})
	set(config.ProviderOpenAI, config.SettingsUpdate{APIKey: &key})
	set(config.ProviderGemini, config.SettingsUpdate{APIKey: &key})

	r := NewResolver(reg)

	tests := []struct {
		sel       model.ModelSelection
		check     func(p model.Provider) bool
		wantModel string
	}{
		{model.ModelClaudeV2, func(p model.Provider) bool { _, ok := p.(*BedrockProvider); return ok }, "anthropic.claude-v2"},
		{model.ModelGPT4, func(p model.Provider) bool { _, ok := p.(*OpenAIProvider); return ok }, "gpt-4"},
		{model.ModelGPT35Turbo, func(p model.Provider) bool { _, ok := p.(*OpenAIProvider); return ok }, "gpt-3.5-turbo"},
		{model.ModelGeminiPro, func(p model.Provider) bool { _, ok := p.(*GeminiProvider); return ok }, "gemini-1.5-flash"},
		{model.ModelLlama2, func(p model.Provider) bool { _, ok := p.(*LlamaProvider); return ok }, "llama2"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sel), func(t *testing.T) {
			p, err := r.Resolve(tt.sel)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !tt.check(p) {
				t.Fatalf("Resolve(%s) returned %T", tt.sel, p)
			}

			var got string
			switch v := p.(type) {
			case *BedrockProvider:
				got = v.model
			case *OpenAIProvider:
				got = v.model
			case *GeminiProvider:
				got = v.model
			case *LlamaProvider:
				got = v.model
			}
			if got != tt.wantModel {
				t.Errorf("vendor model = %q, want %q", got, tt.wantModel)
			}
		})
	}
}

func TestResolverConfigurationError(t *testing.T) {
	r := NewResolver(config.NewRegistry())

	_, err := r.Resolve(model.ModelClaudeV2)

	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve() error = %v, want *model.ConfigurationError", err)
	}
	if cfgErr.Backend != config.ProviderBedrock {
		t.Errorf("Backend = %s", cfgErr.Backend)
	}
	if cfgErr.Error() != "AWS Bedrock credentials are not configured." {
		t.Errorf("message = %q", cfgErr.Error())
	}

	if _, err := r.Resolve(model.ModelSelection("gpt-5")); err == nil {
		t.Error("Resolve(unknown selection) expected error")
	}
}

func TestResolverSeesSettingsUpdates(t *testing.T) {
	reg := config.NewRegistry()
	r := NewResolver(reg)

	if _, err := r.Resolve(model.ModelGPT4); err == nil {
		t.Fatal("expected configuration error before key is set")
	}

	key := "sk-new"
	if err := reg.UpdateSettings(config.ProviderOpenAI, config.SettingsUpdate{APIKey: &key}); err != nil {
		t.Fatal(err)
	}

	p, err := r.Resolve(model.ModelGPT4)
	if err != nil {
		t.Fatalf("Resolve() after update error = %v", err)
	}
	if p.(*OpenAIProvider).apiKey != "sk-new" {
		t.Error("resolver used stale settings")
	}
}

type countingTransport struct {
	calls int
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return c.next.RoundTrip(r)
}

func TestResolverHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/chat/completions"):
			fmt.Fprint(w, `{"id":"c","object":"chat.completion","created":1,"model":"gpt-4",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"openai ok"}}]}`)
		case strings.HasSuffix(r.URL.Path, ":generateContent"):
			fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"gemini ok"}]}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	reg := config.NewRegistry()
	key := "key"
	enabled := true
	baseURL := srv.URL
	for _, id := range []config.ProviderID{config.ProviderOpenAI, config.ProviderGemini} {
		if err := reg.UpdateSettings(id, config.SettingsUpdate{Enabled: &enabled, APIKey: &key, BaseURL: &baseURL}); err != nil {
			t.Fatal(err)
		}
	}

	transport := &countingTransport{next: http.DefaultTransport}
	r := NewResolver(reg).WithHTTPClient(&http.Client{Transport: transport})

	tests := []struct {
		sel  model.ModelSelection
		want string
	}{
		{model.ModelGPT4, "openai ok"},
		{model.ModelGeminiPro, "gemini ok"},
	}

	for _, tt := range tests {
		p, err := r.Resolve(tt.sel)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", tt.sel, err)
		}
		res := p.SendPrompt(context.Background(), "hi")
		if res.Content != tt.want {
			t.Errorf("SendPrompt(%s) = %+v, want %q", tt.sel, res, tt.want)
		}
	}

	if transport.calls != 2 {
		t.Errorf("requests through injected client = %d, want 2", transport.calls)
	}
}
