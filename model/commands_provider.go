package model

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"poassist/config"
)

// ChangeModel switches the active model and remembers it as the default
// for the next start.
func (m *Model) ChangeModel(sel ModelSelection) tea.Cmd {
	return func() tea.Msg {
		if err := m.Orchestrator.HandleModelChange(sel); err != nil {
			return ModelChangedMsg{Selection: sel, Err: err}
		}

		if m.Config == nil {
			return ModelChangedMsg{Selection: sel}
		}

		m.Config.DefaultModel = string(sel)
		dataDir := m.Config.DataDir()
		userCfg, err := config.LoadUserConfig(dataDir)
		if err == nil {
			userCfg.DefaultModel = string(sel)
			err = config.SaveUserConfig(userCfg, dataDir)
		}
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Failed to save default model: %v", err)
		}

		return ModelChangedMsg{Selection: sel, Err: err}
	}
}

// UpdateProviderSetting applies one field change to a backend and persists
// the registry.
func (m *Model) UpdateProviderSetting(id config.ProviderID, field, value string) tea.Cmd {
	return func() tea.Msg {
		upd, err := config.ParseSettingsField(field, value)
		if err != nil {
			return SettingsSavedMsg{Provider: id, Field: field, Err: err}
		}

		if err := m.Registry.UpdateSettings(id, upd); err != nil {
			return SettingsSavedMsg{Provider: id, Field: field, Err: err}
		}

		if err := m.Registry.Save(); err != nil {
			return SettingsSavedMsg{Provider: id, Field: field, Err: fmt.Errorf("failed to save settings: %w", err)}
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Updated %s.%s", id, field)
		}

		return SettingsSavedMsg{Provider: id, Field: field}
	}
}

// ValidateProviders runs the structural check over all enabled backends.
func (m *Model) ValidateProviders() tea.Cmd {
	return func() tea.Msg {
		return ValidationResultMsg{Result: m.Registry.ValidateAll()}
	}
}
