package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"poassist/config"
	appmodel "poassist/model"
	"poassist/provider/testutil"
)

func newTestView(t *testing.T) (AppView, *appmodel.Model) {
	t.Helper()

	conv := appmodel.NewConversation(appmodel.ModelGPT4)
	m := appmodel.NewModel(&config.Config{}, config.NewRegistry(), testutil.NewMockResolver(testutil.NewMockProvider("ok")), nil, conv, "test", "MIT")

	view := NewAppView(m)
	updated, _ := view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(AppView), m
}

func TestSubmitRefusedWhileLoading(t *testing.T) {
	view, m := newTestView(t)
	m.Conversation.SetLoading(true)

	view.textarea.SetValue("1")
	updated, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(AppView)

	if cmd != nil {
		t.Error("expected no command while loading")
	}
	if got.textarea.Value() != "1" {
		t.Errorf("input was cleared: %q", got.textarea.Value())
	}
	if !strings.Contains(got.notice, "Still waiting") {
		t.Errorf("notice = %q", got.notice)
	}
	if len(m.Conversation.Turns()) != 0 {
		t.Error("turn was sent while loading")
	}
}

func TestSubmitSendStartsRequest(t *testing.T) {
	view, _ := newTestView(t)

	view.textarea.SetValue("hello")
	updated, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(AppView)

	if cmd == nil {
		t.Fatal("expected a command")
	}
	if !got.busy {
		t.Error("view not marked busy")
	}
	if got.textarea.Value() != "" {
		t.Errorf("input not cleared: %q", got.textarea.Value())
	}

	updated, _ = got.Update(appmodel.TurnCompleteMsg{})
	if updated.(AppView).busy {
		t.Error("busy not cleared after TurnCompleteMsg")
	}
}

func TestUnknownCommandSetsNotice(t *testing.T) {
	view, _ := newTestView(t)

	view.textarea.SetValue("/bogus")
	updated, _ := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(AppView)

	if got.noticeType != ModalTypeError || !strings.Contains(got.notice, "/bogus") {
		t.Errorf("notice = %q (type %d)", got.notice, got.noticeType)
	}
}

func TestRenderUserItemsHidesDocumentText(t *testing.T) {
	turn := appmodel.Turn{Role: appmodel.RoleUser, Items: testutil.DocumentTurn(testutil.PurchaseOrderText, "po.pdf")}

	out := stripANSI(renderUserItems(turn))
	if !strings.Contains(out, "📄 po.pdf") {
		t.Errorf("document chip missing: %q", out)
	}
	if strings.Contains(out, "Unit Price") {
		t.Errorf("raw document text rendered: %q", out)
	}
}

func TestProviderTableMasksSecrets(t *testing.T) {
	reg := config.NewRegistry()
	key := "sk-very-secret-1234"
	if err := reg.UpdateSettings(config.ProviderOpenAI, config.SettingsUpdate{APIKey: &key}); err != nil {
		t.Fatal(err)
	}

	out := renderProviderTable(reg)
	if strings.Contains(out, "very-secret") {
		t.Errorf("secret leaked: %q", out)
	}
	if !strings.Contains(out, "1234") {
		t.Errorf("masked key suffix missing: %q", out)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("disabled backends not shown: %q", out)
	}
}

func TestResultNotices(t *testing.T) {
	view, _ := newTestView(t)

	tests := []struct {
		name     string
		msg      tea.Msg
		want     string
		wantType ModalType
	}{
		{
			name:     "unknown model refused",
			msg:      appmodel.ModelChangedMsg{Selection: "gpt-5", Err: fmt.Errorf("%w: %q", appmodel.ErrUnknownModel, "gpt-5")},
			want:     "unknown model",
			wantType: ModalTypeError,
		},
		{
			name:     "default not saved",
			msg:      appmodel.ModelChangedMsg{Selection: appmodel.ModelGPT4, Err: errors.New("disk full")},
			want:     "could not save it as default",
			wantType: ModalTypeWarning,
		},
		{
			name:     "document without text",
			msg:      appmodel.DocumentLoadedMsg{SourceName: "scan.pdf"},
			want:     "No text found in scan.pdf",
			wantType: ModalTypeWarning,
		},
		{
			name:     "document loaded",
			msg:      appmodel.DocumentLoadedMsg{SourceName: "po.pdf", Chars: 120},
			want:     "Loaded po.pdf (120 chars)",
			wantType: ModalTypeInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, _ := view.Update(tt.msg)
			got := updated.(AppView)
			if !strings.Contains(got.notice, tt.want) || got.noticeType != tt.wantType {
				t.Errorf("notice = %q (%v), want %q (%v)", got.notice, got.noticeType, tt.want, tt.wantType)
			}
		})
	}
}
