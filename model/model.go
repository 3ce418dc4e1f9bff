package model

import (
	"poassist/config"
	"poassist/storage"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config    *config.Config
	Registry  *config.Registry
	Resolver  ProviderResolver
	ChatStore *storage.ChatStore

	// Application data
	Conversation *Conversation
	Orchestrator *Orchestrator

	// Runtime state (not UI)
	Quitting bool

	// Application metadata
	Version string
	License string
}

// NewModel wires the orchestrator. store may be nil, in which case nothing
// is persisted.
func NewModel(cfg *config.Config, registry *config.Registry, resolver ProviderResolver, store *storage.ChatStore, conv *Conversation, version, license string) *Model {
	if conv == nil {
		conv = NewConversation(selectionOrDefault(cfg.Model()))
	}

	var opts []Option
	if store != nil {
		opts = append(opts, WithStateStore(NewChatStateStore(store)))
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] NewModel: %d turns restored, model %s", len(conv.Turns()), conv.Model())
	}

	return &Model{
		Config:       cfg,
		Registry:     registry,
		Resolver:     resolver,
		ChatStore:    store,
		Conversation: conv,
		Orchestrator: NewOrchestrator(conv, resolver, opts...),
		Version:      version,
		License:      license,
	}
}

func selectionOrDefault(s string) ModelSelection {
	sel, err := ParseModelSelection(s)
	if err != nil {
		return DefaultModelSelection
	}
	return sel
}

// DefaultSelection is the configured start-up model, or the default one
// when the configured value is unknown.
func DefaultSelection(cfg *config.Config) ModelSelection {
	return selectionOrDefault(cfg.Model())
}
