package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"poassist/config"
	appmodel "poassist/model"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// busy is set from submit until the command's result message arrives
	busy bool

	// Rendered markdown per assistant turn ID; reset on resize
	rendered map[string]string

	// One-line feedback shown in the status bar until the next action
	notice     string
	noticeType ModalType

	// Cached ValidateAll outcome for the header badge
	validation config.ValidationResult

	showHelp bool

	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType
	acknowledgeLeftAlign  bool
}

func NewAppView(m *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about your purchase order, or /upload <path> to load one (/help for commands)"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter submits; Alt+Enter inserts a newline
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return AppView{
		dataModel:      m,
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		rendered:       make(map[string]string),
		validation:     m.Registry.ValidateAll(),
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.ValidateProviders(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showAcknowledgeModal {
		if a.acknowledgeLeftAlign {
			return RenderThreeSectionModal(
				a.acknowledgeModalTitle,
				leftLines(a.acknowledgeModalMsg, 66),
				"Press Enter to acknowledge",
				a.acknowledgeModalType,
				70,
				a.width,
				a.height,
			)
		}
		return RenderAcknowledgeModal(
			a.acknowledgeModalTitle,
			a.acknowledgeModalMsg,
			a.acknowledgeModalType,
			a.width,
			a.height,
		)
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderHeader(),
		"",
		a.viewport.View(),
		a.textarea.View(),
		a.renderStatusBar(),
	)
}

// renderHeader: "PO Assistant - <model> (<provider>) | 📄 doc | badge"
func (a AppView) renderHeader() string {
	conv := a.dataModel.Conversation
	info := conv.Model().Info()

	header := AssistantStyle.Render("PO Assistant") +
		TitleStyle.Render(fmt.Sprintf(" - %s (%s)", info.Name, info.Provider))

	if doc, ok := conv.Document(); ok {
		header += DimStyle.Render(" | ") + DocumentStyle.Render(documentChip(doc.SourceName, len(doc.RawText)))
	}

	if ok, _ := a.dataModel.Registry.IsConfigured(conv.Model().Backend()); !ok {
		header += DimStyle.Render(" | ") + WarningStyle.Render("⚠ not configured")
	} else if !a.validation.IsValid {
		header += DimStyle.Render(" | ") + WarningStyle.Render(fmt.Sprintf("⚠ %d settings issue(s)", len(a.validation.Errors)))
	}

	return truncateToWidth(header, a.width)
}

func (a AppView) renderStatusBar() string {
	if a.notice != "" {
		style := DimStyle
		switch a.noticeType {
		case ModalTypeError:
			style = ErrorStyle
		case ModalTypeWarning:
			style = WarningStyle
		}
		return truncateToWidth(style.Render(a.notice), a.width)
	}

	return StatusStyle.Render(truncateToWidth(FormatFooter(
		"Enter", "Send",
		"Alt+Enter", "New Line",
		"Ctrl+Y", "Copy",
		"/help", "Commands",
		"Ctrl+C", "Quit",
	), a.width))
}

// truncateToWidth cuts styled text to the terminal width.
func truncateToWidth(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return runewidth.Truncate(stripANSI(s), width, "…")
}
