package model

import "poassist/config"

// TurnCompleteMsg is sent after the orchestrator has finished with a user
// action and the transcript changed.
type TurnCompleteMsg struct {
	Err error
}

type DocumentLoadedMsg struct {
	SourceName string
	Chars      int
	Err        error
}

type ModelChangedMsg struct {
	Selection ModelSelection
	// ErrUnknownModel when the switch was refused; any other error means
	// the switch happened but saving the new default failed.
	Err error
}

type ConversationClearedMsg struct{}

type SettingsSavedMsg struct {
	Provider config.ProviderID
	Field    string
	Err      error
}

type ValidationResultMsg struct {
	Result config.ValidationResult
}
