package model

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"poassist/config"
	"poassist/document"
)

// SendText runs one free-text user turn.
func (m *Model) SendText(text string) tea.Cmd {
	return m.sendItems([]ContentItem{NewTextItem(text)})
}

func (m *Model) sendItems(items []ContentItem) tea.Cmd {
	return func() tea.Msg {
		m.Orchestrator.HandleTurn(context.Background(), items)
		return TurnCompleteMsg{}
	}
}

// UploadDocument extracts path and sends it as a document turn, with text
// as an optional message alongside.
func (m *Model) UploadDocument(path, text string) tea.Cmd {
	return func() tea.Msg {
		doc, err := document.Extract(path)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Model] Document extraction failed for %s: %v", path, err)
			}
			return DocumentLoadedMsg{Err: err}
		}

		items := []ContentItem{NewDocumentItem(doc.Text, doc.SourceName)}
		if strings.TrimSpace(text) != "" {
			items = append(items, NewTextItem(text))
		}

		m.Orchestrator.HandleTurn(context.Background(), items)

		return DocumentLoadedMsg{SourceName: doc.SourceName, Chars: len(doc.Text)}
	}
}

// ReplayAction runs canned action n (1-based) against the current document.
func (m *Model) ReplayAction(n int) tea.Cmd {
	return func() tea.Msg {
		if n < 1 || n > len(PurchaseOrderActions) {
			return TurnCompleteMsg{Err: fmt.Errorf("no action %d (choose 1-%d)", n, len(PurchaseOrderActions))}
		}
		m.Orchestrator.ReplayAction(context.Background(), PurchaseOrderActions[n-1])
		return TurnCompleteMsg{}
	}
}

// ClearConversation empties the transcript; the document is kept.
func (m *Model) ClearConversation() tea.Cmd {
	return func() tea.Msg {
		m.Orchestrator.HandleClear()
		return ConversationClearedMsg{}
	}
}
