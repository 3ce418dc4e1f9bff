package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"poassist/config"
	appmodel "poassist/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

const (
	emptyTranscript = "No messages yet. Upload a purchase order with /upload <path> or type a question."
	waitingText     = "Waiting for response..."
	errorPrefix     = "Error: "
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	turns := a.dataModel.Conversation.Turns()
	loading := a.busy || a.dataModel.Conversation.Loading()

	if len(turns) == 0 && !loading {
		a.viewport.SetContent(DimStyle.Render(emptyTranscript))
		return
	}

	var content strings.Builder
	for _, turn := range turns {
		timestamp := DimStyle.Render(turn.CreatedAt.Local().Format("[15:04]"))

		if turn.Role == appmodel.RoleUser {
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), renderUserItems(turn)))
			continue
		}

		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), a.renderAssistant(turn)))
	}

	if loading {
		content.WriteString(fmt.Sprintf("%s %s\n", a.loadingSpinner.View(), DimStyle.Render(waitingText)))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderUserItems shows text items verbatim and documents as a chip with
// their size; the raw document text is never echoed.
func renderUserItems(turn appmodel.Turn) string {
	var parts []string
	for _, item := range turn.Items {
		if item.IsDocument() {
			parts = append(parts, DocumentStyle.Render(documentChip(item.SourceName(), len(item.Text()))))
			continue
		}
		parts = append(parts, item.Text())
	}
	return strings.Join(parts, "\n")
}

func documentChip(name string, chars int) string {
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("📄 %s (%d chars)", name, chars)
}

// renderAssistant renders a reply as markdown, caching by turn ID. Error
// turns skip markdown so the message shows exactly.
func (a *AppView) renderAssistant(turn appmodel.Turn) string {
	text := turn.Text()
	if strings.HasPrefix(text, errorPrefix) {
		return ErrorStyle.Render(text)
	}

	if cached, ok := a.rendered[turn.ID]; ok {
		return cached
	}

	out := renderMarkdown(text, a.width)
	a.rendered[turn.ID] = out
	return out
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// renderMarkdown renders with go-term-markdown with autolinks off so
// terminals can detect URLs themselves.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 80
	}

	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	// Blue-background inline code reads poorly on transparent terminals
	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[AppView] Rendered %d chars of markdown", len(content))
	}

	return strings.TrimRight(rendered, "\n")
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes color codes for width calculations
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
