package provider

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"poassist/config"
	"poassist/model"
)

// Pinger is implemented by adapters that can check connectivity without
// spending tokens. Bedrock has no such call.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingProviderMsg is sent when provider ping completes
type PingProviderMsg struct {
	Selection model.ModelSelection
	Valid     bool
	Err       error
}

// PingProvider checks that the backend behind sel answers. It touches the
// network, unlike Registry.ValidateAll.
func PingProvider(resolver model.ProviderResolver, sel model.ModelSelection) tea.Cmd {
	return func() tea.Msg {
		p, err := resolver.Resolve(sel)
		if err != nil {
			return PingProviderMsg{Selection: sel, Err: err}
		}

		pinger, ok := p.(Pinger)
		if !ok {
			return PingProviderMsg{
				Selection: sel,
				Err:       fmt.Errorf("%s does not support connectivity checks", sel.Info().Provider),
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			return PingProviderMsg{Selection: sel, Err: fmt.Errorf("connection failed: %w", err)}
		}

		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Provider for %s ping successful", sel)
		}

		return PingProviderMsg{Selection: sel, Valid: true}
	}
}
