// Package provider implements the AI backends behind model.Provider.
//
// Each backend (AWS Bedrock, OpenAI, Google Gemini, a local LLaMA server)
// is one flat type with a single SendPrompt method. Adapters never return
// Go errors or panic for expected failures: missing credentials, vendor
// rejections and network problems come back as model.Result.Error with a
// message fit for the transcript.
//
// # Architecture
//
//   - model.Provider defines the contract (interface)
//   - BedrockProvider, OpenAIProvider, GeminiProvider, LlamaProvider implement it
//   - NewProvider() builds one adapter from a Config
//   - Resolver maps a model.ModelSelection to an adapter using the
//     settings held by config.Registry
//
// # Usage
//
//	resolver := provider.NewResolver(registry)
//	p, err := resolver.Resolve(model.ModelGPT4)
//	if err != nil {
//	    // *model.ConfigurationError: backend not configured
//	}
//	res := p.SendPrompt(ctx, prompt)
package provider

import "net/http"

// Note: The Provider interface and Result are defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeBedrock ProviderType = "bedrock"
	ProviderTypeOpenAI  ProviderType = "openai"
	ProviderTypeGemini  ProviderType = "gemini"
	ProviderTypeLlama   ProviderType = "llama"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string // OpenAI/Gemini endpoint override, LLaMA server URL
	Model   string // Vendor model id; each adapter has a default
	APIKey  string // OpenAI, Gemini

	// AWS Bedrock
	AccessKeyID     string
	SecretAccessKey string
	Region          string

	// HTTPClient overrides the transport; nil uses the adapter default.
	HTTPClient *http.Client
}
