package model

import (
	"context"

	"poassist/config"
)

// Provider is the contract every AI backend adapter implements.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the Orchestrator
// uses Provider without importing the provider package.
type Provider interface {
	// SendPrompt sends a fully built prompt and returns the completion.
	// Expected failures are reported in Result.Error, never as panics.
	SendPrompt(ctx context.Context, prompt string) Result
}

// Result is the outcome of a single SendPrompt call. Exactly one of Content
// and Error is meaningful.
type Result struct {
	Content string
	Error   string
}

func (r Result) Failed() bool {
	return r.Error != ""
}

// ProviderResolver maps the active ModelSelection to a ready Provider.
type ProviderResolver interface {
	Resolve(sel ModelSelection) (Provider, error)
}

// ConfigurationError reports a backend that lacks the settings it needs.
type ConfigurationError struct {
	Backend config.ProviderID
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}
