package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	appmodel "poassist/model"
)

func renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().Bold(true).Foreground(successColor)
	blue := lipgloss.NewStyle().Foreground(accentColor)

	title := green.Render("Purchase Order Assistant - Help")

	commands := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Commands"),
		"• /upload <path> [-- msg]  Load a PDF or text document",
		"• /action <n>              Run menu action n on the document",
		"• /model [id|query]        Switch model or list models",
		"• /clear                   Clear chat (document is kept)",
		"• /set <backend>.<field> <value>",
		"                           Change provider settings",
		"• /providers               Show provider settings",
		"• /validate                Check provider settings",
		"• /ping [model]            Test connectivity",
		"• /quit                    Quit",
	)

	var actions []string
	actions = append(actions, blue.Render("## Menu Actions"))
	for i, action := range appmodel.PurchaseOrderActions {
		actions = append(actions, wrapIndented(fmt.Sprintf("%d. %s", i+1, action), 60))
	}

	keys := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Keys"),
		"• Enter       Send",
		"• Alt+Enter   New line",
		"• Ctrl+Y      Copy last reply",
		"• PgUp/PgDn   Scroll",
		"• Ctrl+C      Quit",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		commands,
		"",
		lipgloss.JoinVertical(lipgloss.Left, actions...),
		"",
		keys,
		"",
		lipgloss.NewStyle().Foreground(dimColor).Render("Press Esc to close this help"),
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpBox.Render(content))
}

// wrapIndented wraps text at width and indents continuation lines.
func wrapIndented(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = "   " + w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
