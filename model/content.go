package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemKind tags a ContentItem.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemDocument
)

func (k ItemKind) String() string {
	switch k {
	case ItemText:
		return "text"
	case ItemDocument:
		return "document"
	default:
		return "unknown"
	}
}

// ContentItem is one piece of a turn: either free text or an extracted
// document. Values are immutable; use NewTextItem / NewDocumentItem.
type ContentItem struct {
	kind       ItemKind
	text       string
	sourceName string
}

func NewTextItem(text string) ContentItem {
	return ContentItem{kind: ItemText, text: text}
}

func NewDocumentItem(rawText, sourceName string) ContentItem {
	return ContentItem{kind: ItemDocument, text: rawText, sourceName: sourceName}
}

func (c ContentItem) Kind() ItemKind { return c.kind }

// Text returns the text of a text item or the raw extracted text of a
// document item.
func (c ContentItem) Text() string { return c.text }

// SourceName is empty for text items.
func (c ContentItem) SourceName() string { return c.sourceName }

func (c ContentItem) IsDocument() bool { return c.kind == ItemDocument }

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the transcript.
type Turn struct {
	ID        string
	Role      Role
	Items     []ContentItem
	CreatedAt time.Time
}

func newTurn(role Role, items []ContentItem, now time.Time) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      role,
		Items:     append([]ContentItem(nil), items...),
		CreatedAt: now,
	}
}

// Text joins the text items of the turn with a space. Document items
// contribute nothing.
func (t Turn) Text() string {
	parts := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		if item.kind == ItemText {
			parts = append(parts, item.text)
		}
	}
	return strings.Join(parts, " ")
}

func (t Turn) clone() Turn {
	t.Items = append([]ContentItem(nil), t.Items...)
	return t
}

// DocumentContext is the most recently loaded document. At most one is
// active per conversation.
type DocumentContext struct {
	ID         string
	RawText    string
	SourceName string
	CapturedAt time.Time
}

const defaultSourceName = "document.pdf"

// documentFromItems merges the document items of a turn. Items without
// text, such as a scanned PDF, are skipped; ok is false when nothing is left.
func documentFromItems(items []ContentItem, now time.Time) (doc DocumentContext, ok bool) {
	var (
		texts []string
		name  string
	)
	for _, item := range items {
		if item.kind != ItemDocument || strings.TrimSpace(item.text) == "" {
			continue
		}
		if len(texts) == 0 {
			name = item.sourceName
		}
		texts = append(texts, item.text)
	}
	if len(texts) == 0 {
		return DocumentContext{}, false
	}
	if name == "" {
		name = defaultSourceName
	}

	return DocumentContext{
		ID:         uuid.New().String(),
		RawText:    strings.Join(texts, "\n"),
		SourceName: name,
		CapturedAt: now,
	}, true
}

// requestText joins the text items of a turn with newlines.
func requestText(items []ContentItem) string {
	var parts []string
	for _, item := range items {
		if item.kind == ItemText {
			parts = append(parts, item.text)
		}
	}
	return strings.Join(parts, "\n")
}
