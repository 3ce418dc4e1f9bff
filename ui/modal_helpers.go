package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModalType determines the title color of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

// RenderThreeSectionModal renders the borderless title / message / footer
// modal used everywhere in the app. messageLines are rendered as given;
// desiredWidth 0 means 60 columns.
func RenderThreeSectionModal(title string, messageLines []string, footer string, modalType ModalType, desiredWidth, width, height int) string {
	modalWidth := desiredWidth
	if modalWidth == 0 {
		modalWidth = 60
	}
	if width < modalWidth+10 {
		modalWidth = width - 10
	}
	if modalWidth < 10 {
		modalWidth = 10
	}

	// runewidth keeps emoji titles centered
	titleWidth := runewidth.StringWidth(title)
	leftPad := (modalWidth - titleWidth) / 2
	if leftPad < 0 {
		leftPad = 0
	}
	rightPad := modalWidth - titleWidth - leftPad
	if rightPad < 0 {
		rightPad = 0
	}
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Render(strings.Repeat(" ", leftPad) + title + strings.Repeat(" ", rightPad))

	contentLines := []string{strings.Repeat(" ", modalWidth)}
	contentLines = append(contentLines, messageLines...)
	contentLines = append(contentLines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(contentLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// RenderAcknowledgeModal shows a centered message that is dismissed with
// Enter or Esc.
func RenderAcknowledgeModal(title, message string, modalType ModalType, width, height int) string {
	return RenderThreeSectionModal(title, centeredLines(message, 60), "Press Enter to acknowledge", modalType, 0, width, height)
}

func centeredLines(message string, width int) []string {
	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var lines []string
	for _, line := range strings.Split(message, "\n") {
		lines = append(lines, style.Render(line))
	}
	return lines
}

// leftLines is centeredLines for tabular content.
func leftLines(message string, width int) []string {
	style := lipgloss.NewStyle().Width(width)
	var lines []string
	for _, line := range strings.Split(message, "\n") {
		lines = append(lines, style.Render(line))
	}
	return lines
}
