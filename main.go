package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"poassist/config"
	appmodel "poassist/model"
	"poassist/provider"
	"poassist/storage"
	"poassist/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

// showError runs a standalone error modal and exits.
func showError(title, msg string) {
	p := tea.NewProgram(ui.NewErrorModal(title, msg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(0)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		showError("Configuration Error", err.Error())
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	// Two instances would overwrite each other's chat.db state
	lock := storage.NewInstanceLock(cfg.DataDir())
	isLocked, runningPID, err := lock.Check()
	if err != nil {
		fmt.Printf("Failed to check instance lock: %v\n", err)
		os.Exit(1)
	}
	if isLocked {
		showError("⚠️  Already Running  ⚠️", fmt.Sprintf(
			"Another instance is already using this data directory (PID %d).\n\n"+
				"Close the other instance, or set POASSIST_DATA_DIR\n"+
				"to use a separate data directory.",
			runningPID))
	}

	if err := lock.Acquire(); err != nil {
		fmt.Printf("Failed to lock data directory: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := lock.Release(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to release instance lock: %v", err)
		}
	}()

	if err := loadCredentials(cfg); err != nil {
		lock.Release()
		showError("Credential Error", err.Error())
	}
	if cfg.CredentialStore == nil {
		// Passphrase prompt cancelled
		lock.Release()
		os.Exit(0)
	}

	registry, err := config.LoadRegistry(cfg.DataDir(), cfg.CredentialStore)
	if err != nil {
		lock.Release()
		showError("Provider Settings Error", err.Error())
	}

	chatStore, err := storage.NewChatStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open chat storage: %v\n", err)
		lock.Release()
		os.Exit(1)
	}
	defer chatStore.Close()

	conv, err := appmodel.LoadConversation(chatStore, appmodel.DefaultSelection(cfg))
	if err != nil {
		// Start fresh rather than refuse to open
		if config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to restore conversation: %v", err)
		}
		conv = nil
	}

	resolver := provider.NewResolver(registry)
	dataModel := appmodel.NewModel(cfg, registry, resolver, chatStore, conv, Version, License)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running poassist: %v\n", err)
		chatStore.Close()
		lock.Release()
		os.Exit(1)
	}
}

// loadCredentials opens the credential store, prompting for the SSH key
// passphrase when the key is encrypted. A cancelled prompt leaves
// cfg.CredentialStore nil.
func loadCredentials(cfg *config.Config) error {
	if cfg.CredentialSecurity != config.SecuritySSHKey {
		return cfg.LoadCredentials("")
	}

	encrypted, err := config.IsSSHKeyEncrypted(cfg.SSHKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key: %w", err)
	}
	if !encrypted {
		return cfg.LoadCredentials("")
	}

	final, err := tea.NewProgram(ui.NewPassphraseModal(cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if pm, ok := final.(ui.PassphraseModal); !ok || !pm.Unlocked() {
		cfg.CredentialStore = nil
	}
	return nil
}
