package model

import "sync"

// Conversation holds the transcript, the active document and the selected
// model. The mutex only lets the ui render while a command goroutine
// mutates; operations are serialized by the Loading flag, not by a lock.
type Conversation struct {
	mu        sync.RWMutex
	turns     []Turn
	document  *DocumentContext
	selection ModelSelection
	loading   bool
}

// Snapshot is the persisted part of a Conversation. Loading is runtime
// state and never part of it.
type Snapshot struct {
	Turns    []Turn
	Document *DocumentContext
	Model    ModelSelection
}

// NewConversation starts an empty conversation. An invalid selection falls
// back to the default.
func NewConversation(sel ModelSelection) *Conversation {
	if !sel.Valid() {
		sel = DefaultModelSelection
	}
	return &Conversation{selection: sel}
}

// RestoreConversation rebuilds a conversation from a persisted snapshot.
func RestoreConversation(s Snapshot) *Conversation {
	c := NewConversation(s.Model)
	for _, t := range s.Turns {
		c.turns = append(c.turns, t.clone())
	}
	if s.Document != nil {
		doc := *s.Document
		c.document = &doc
	}
	return c
}

// Turns returns a copy of the transcript, oldest first.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Turn, len(c.turns))
	for i, t := range c.turns {
		out[i] = t.clone()
	}
	return out
}

// RecentTurns returns up to n of the latest turns, oldest first.
func (c *Conversation) RecentTurns(n int) []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start := len(c.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, 0, len(c.turns)-start)
	for _, t := range c.turns[start:] {
		out = append(out, t.clone())
	}
	return out
}

func (c *Conversation) Append(t Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, t.clone())
}

// Clear empties the transcript. The document context survives.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

func (c *Conversation) Document() (DocumentContext, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.document == nil {
		return DocumentContext{}, false
	}
	return *c.document, true
}

// SetDocument replaces the active document wholesale.
func (c *Conversation) SetDocument(d DocumentContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.document = &d
}

func (c *Conversation) Model() ModelSelection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

// SetModel switches the selection. An unknown selection is ignored and
// reported as false.
func (c *Conversation) SetModel(sel ModelSelection) bool {
	if !sel.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = sel
	return true
}

func (c *Conversation) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Conversation) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// Snapshot returns a deep copy of the persisted state.
func (c *Conversation) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Turns: make([]Turn, len(c.turns)),
		Model: c.selection,
	}
	for i, t := range c.turns {
		s.Turns[i] = t.clone()
	}
	if c.document != nil {
		doc := *c.document
		s.Document = &doc
	}
	return s
}
