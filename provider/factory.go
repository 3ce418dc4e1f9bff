package provider

import (
	"fmt"
	"net/http"

	"poassist/config"
	"poassist/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// Constructors never validate credentials; each adapter reports missing or
// malformed settings from SendPrompt so the failure lands in the transcript.
//
// Returns an error only for an unknown provider type.
//
// Example:
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeOpenAI,
//	    Model:  "gpt-4",
//	    APIKey: "sk-...",
//	})
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeBedrock:
		return NewBedrockProvider(cfg), nil
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg), nil
	case ProviderTypeGemini:
		return NewGeminiProvider(cfg), nil
	case ProviderTypeLlama:
		return NewLlamaProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// configBuilder turns registry settings into a factory Config for one
// backend.
type configBuilder func(s config.ProviderSettings, sel model.ModelSelection) Config

// builders is the backend lookup table used by Resolver.
var builders = map[config.ProviderID]configBuilder{
	config.ProviderBedrock: func(s config.ProviderSettings, _ model.ModelSelection) Config {
		return Config{
			Type:            ProviderTypeBedrock,
			Model:           s.Model,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			Region:          s.Region,
		}
	},
	config.ProviderOpenAI: func(s config.ProviderSettings, sel model.ModelSelection) Config {
		// The selection names the OpenAI model
		return Config{
			Type:    ProviderTypeOpenAI,
			BaseURL: s.BaseURL,
			Model:   string(sel),
			APIKey:  s.APIKey,
		}
	},
	config.ProviderGemini: func(s config.ProviderSettings, _ model.ModelSelection) Config {
		return Config{
			Type:    ProviderTypeGemini,
			BaseURL: s.BaseURL,
			Model:   s.Model,
			APIKey:  s.APIKey,
		}
	},
	config.ProviderLlama: func(s config.ProviderSettings, _ model.ModelSelection) Config {
		return Config{
			Type:    ProviderTypeLlama,
			BaseURL: s.BaseURL,
			Model:   s.Model,
		}
	},
}

// Resolver implements model.ProviderResolver on top of config.Registry.
// A fresh adapter is built per call so settings changes apply immediately.
type Resolver struct {
	registry   *config.Registry
	httpClient *http.Client
}

func NewResolver(registry *config.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// WithHTTPClient makes every resolved adapter use client.
func (r *Resolver) WithHTTPClient(client *http.Client) *Resolver {
	r.httpClient = client
	return r
}

// Resolve returns the adapter for sel, or a *model.ConfigurationError when
// its backend lacks required settings.
func (r *Resolver) Resolve(sel model.ModelSelection) (model.Provider, error) {
	backend := sel.Backend()
	build, ok := builders[backend]
	if !ok {
		return nil, fmt.Errorf("no backend for model %q", sel)
	}

	if ok, warning := r.registry.IsConfigured(backend); !ok {
		return nil, &model.ConfigurationError{Backend: backend, Message: warning}
	}

	cfg := build(r.registry.GetSettings(backend), sel)
	cfg.HTTPClient = r.httpClient

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Resolved %s to backend %s", sel, backend)
	}

	return NewProvider(cfg)
}
