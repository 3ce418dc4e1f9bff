package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"poassist/config"
	appmodel "poassist/model"
	"poassist/provider"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title, blank line, textarea (3 lines) and status bar
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 6
		a.textarea.SetWidth(a.width)

		// Markdown is wrapped to the old width
		a.rendered = make(map[string]string)
		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.updateViewportContent(true)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case appmodel.TurnCompleteMsg:
		a.busy = false
		if msg.Err != nil {
			a.setNotice(msg.Err.Error(), ModalTypeError)
		}
		a.updateViewportContent(true)
		return a, nil

	case appmodel.DocumentLoadedMsg:
		a.busy = false
		if msg.Err != nil {
			a.setNotice("Could not load document: "+msg.Err.Error(), ModalTypeError)
		} else if msg.Chars == 0 {
			a.setNotice(fmt.Sprintf("No text found in %s; the previous document is kept", msg.SourceName), ModalTypeWarning)
		} else {
			a.setNotice(fmt.Sprintf("Loaded %s (%d chars)", msg.SourceName, msg.Chars), ModalTypeInfo)
		}
		a.updateViewportContent(true)
		return a, nil

	case appmodel.ModelChangedMsg:
		if errors.Is(msg.Err, appmodel.ErrUnknownModel) {
			a.setNotice(msg.Err.Error(), ModalTypeError)
		} else if msg.Err != nil {
			a.setNotice("Switched model, but could not save it as default: "+msg.Err.Error(), ModalTypeWarning)
		}
		a.updateViewportContent(true)
		return a, nil

	case appmodel.ConversationClearedMsg:
		a.rendered = make(map[string]string)
		a.setNotice("Chat cleared. The loaded document is kept.", ModalTypeInfo)
		a.updateViewportContent(true)
		return a, nil

	case appmodel.SettingsSavedMsg:
		if msg.Err != nil {
			a.setNotice(fmt.Sprintf("Could not update %s.%s: %v", msg.Provider, msg.Field, msg.Err), ModalTypeError)
			return a, nil
		}
		a.setNotice(fmt.Sprintf("Saved %s.%s", msg.Provider, msg.Field), ModalTypeInfo)
		a.validation = a.dataModel.Registry.ValidateAll()
		return a, nil

	case appmodel.ValidationResultMsg:
		a.validation = msg.Result
		return a, nil

	case validateRequestedMsg:
		a.validation = msg.Result
		if msg.Result.IsValid {
			a.showModal("Provider Settings", "All enabled providers are configured.", ModalTypeInfo, false)
		} else {
			a.showModal("Provider Settings", "• "+strings.Join(msg.Result.Errors, "\n• "), ModalTypeWarning, true)
		}
		return a, nil

	case provider.PingProviderMsg:
		a.busy = false
		if msg.Valid {
			a.setNotice(fmt.Sprintf("%s is reachable", msg.Selection.Info().Name), ModalTypeInfo)
		} else {
			a.setNotice(fmt.Sprintf("%s: %v", msg.Selection.Info().Name, msg.Err), ModalTypeError)
		}
		a.updateViewportContent(true)
		return a, nil
	}

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// validateRequestedMsg is a ValidateAll result the user asked to see.
type validateRequestedMsg struct {
	Result config.ValidationResult
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showAcknowledgeModal {
		switch msg.String() {
		case "enter", "esc":
			a.showAcknowledgeModal = false
		}
		return a, nil
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "enter", "?":
			a.showHelp = false
		}
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c":
		a.dataModel.Quitting = true
		return a, tea.Quit

	case "ctrl+y":
		a.copyLastReply()
		return a, nil

	case "pgup", "alt+k", "alt+up":
		a.viewport.HalfPageUp()
		return a, nil

	case "pgdown", "alt+j", "alt+down":
		a.viewport.HalfPageDown()
		return a, nil

	case "enter":
		return a.submit()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a *AppView) copyLastReply() {
	turns := a.dataModel.Conversation.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != appmodel.RoleAssistant {
			continue
		}
		if err := clipboard.WriteAll(turns[i].Text()); err != nil {
			a.setNotice("Clipboard unavailable: "+err.Error(), ModalTypeError)
			return
		}
		a.setNotice("Copied last reply to clipboard", ModalTypeInfo)
		return
	}
	a.setNotice("Nothing to copy yet", ModalTypeInfo)
}

// submit parses the input line and dispatches it. Anything that reaches a
// provider is refused while a previous request is still running.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	c, err := parseCommand(a.textarea.Value())
	if err != nil {
		a.setNotice(err.Error(), ModalTypeError)
		return a, nil
	}

	loading := a.busy || a.dataModel.Conversation.Loading()
	switch c.kind {
	case cmdNone:
		return a, nil
	case cmdSend, cmdUpload, cmdAction, cmdPing, cmdClear, cmdModel:
		if loading {
			a.setNotice("Still waiting for the previous response...", ModalTypeWarning)
			return a, nil
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[AppView] Dispatching %s command", c.kind)
	}

	a.textarea.Reset()
	a.notice = ""

	switch c.kind {
	case cmdSend:
		return a.startRequest(a.dataModel.SendText(c.text))

	case cmdUpload:
		return a.startRequest(a.dataModel.UploadDocument(c.path, c.text))

	case cmdAction:
		return a.startRequest(a.dataModel.ReplayAction(c.n))

	case cmdClear:
		return a, a.dataModel.ClearConversation()

	case cmdModel:
		return a.selectModel(c.arg)

	case cmdSet:
		return a, a.dataModel.UpdateProviderSetting(c.provider, c.field, c.value)

	case cmdValidate:
		reg := a.dataModel.Registry
		return a, func() tea.Msg { return validateRequestedMsg{Result: reg.ValidateAll()} }

	case cmdPing:
		sel := a.dataModel.Conversation.Model()
		if c.arg != "" {
			chosen, candidates, err := matchModel(c.arg)
			if err != nil || len(candidates) > 0 {
				a.setNotice(fmt.Sprintf("Unknown or ambiguous model %q", c.arg), ModalTypeError)
				return a, nil
			}
			sel = chosen
		}
		a.setNotice(fmt.Sprintf("Pinging %s...", sel.Info().Name), ModalTypeInfo)
		return a.startRequest(provider.PingProvider(a.dataModel.Resolver, sel))

	case cmdProviders:
		a.showModal("Providers", renderProviderTable(a.dataModel.Registry), ModalTypeInfo, true)
		return a, nil

	case cmdHelp:
		a.showHelp = true
		return a, nil

	case cmdQuit:
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	return a, nil
}

func (a AppView) startRequest(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	a.busy = true
	a.updateViewportContent(true)
	return a, tea.Batch(cmd, a.loadingSpinner.Tick)
}

func (a AppView) selectModel(query string) (tea.Model, tea.Cmd) {
	current := a.dataModel.Conversation.Model()

	if query == "" {
		a.showModal("Models", renderModelList(appmodel.AllModelSelections(), current)+"\n\nUse /model <id> to switch.", ModalTypeInfo, true)
		return a, nil
	}

	sel, candidates, err := matchModel(query)
	if err != nil {
		a.setNotice(err.Error(), ModalTypeError)
		return a, nil
	}
	if len(candidates) > 0 {
		a.showModal("Which model?", renderModelList(candidates, current), ModalTypeInfo, true)
		return a, nil
	}

	return a, a.dataModel.ChangeModel(sel)
}

func (a *AppView) setNotice(text string, t ModalType) {
	a.notice = text
	a.noticeType = t
}

func (a *AppView) showModal(title, msg string, t ModalType, leftAlign bool) {
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = msg
	a.acknowledgeModalType = t
	a.acknowledgeLeftAlign = leftAlign
}
