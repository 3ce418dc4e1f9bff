package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poassist/config"
)

// StateStore persists conversation snapshots.
type StateStore interface {
	SaveSnapshot(s Snapshot) error
}

// Orchestrator decides, per user action, whether the input is a new
// document, a menu selection or a free-form request, builds the prompt and
// routes it to the backend for the active model selection.
type Orchestrator struct {
	conv     *Conversation
	resolver ProviderResolver
	store    StateStore
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStateStore persists the conversation after every operation.
func WithStateStore(s StateStore) Option {
	return func(o *Orchestrator) { o.store = s }
}

// WithClock overrides time.Now for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(conv *Conversation, resolver ProviderResolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		conv:     conv,
		resolver: resolver,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Conversation() *Conversation {
	return o.conv
}

// HandleTurn processes one user turn. Every outcome, including backend
// failures, ends up as transcript turns; nothing is returned.
func (o *Orchestrator) HandleTurn(ctx context.Context, items []ContentItem) {
	defer o.persist()

	// Captured before the user turn is appended so it is never quoted back.
	history := o.conv.RecentTurns(historyWindow)
	o.conv.Append(newTurn(RoleUser, items, o.now()))

	if doc, ok := documentFromItems(items, o.now()); ok {
		o.conv.SetDocument(doc)

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Orchestrator] Document %q captured (%d chars)", doc.SourceName, len(doc.RawText))
		}

		if IsPurchaseOrder(doc.RawText) {
			o.appendAssistant(PurchaseOrderMenu())
			return
		}
	}

	text := requestText(items)

	if idx, ok := menuChoice(text); ok {
		o.processWithContext(ctx, history, PurchaseOrderActions[idx])
		return
	}

	var docPtr *DocumentContext
	if doc, ok := o.conv.Document(); ok {
		docPtr = &doc
	}
	o.send(ctx, freeFormPrompt(docPtr, history, text))
}

// ReplayAction runs a canned action against the current document without
// appending a user turn. Returns false, doing nothing, when action is not
// one of PurchaseOrderActions.
func (o *Orchestrator) ReplayAction(ctx context.Context, action string) bool {
	if actionIndex(action) < 0 {
		return false
	}
	defer o.persist()

	o.processWithContext(ctx, o.conv.RecentTurns(historyWindow), action)
	return true
}

// HandleModelChange switches the active model and reports the switch in the
// transcript. An unconfigured backend only adds a warning. An unknown
// selection leaves the conversation untouched and returns ErrUnknownModel.
func (o *Orchestrator) HandleModelChange(sel ModelSelection) error {
	if !o.conv.SetModel(sel) {
		return fmt.Errorf("%w: %q", ErrUnknownModel, sel)
	}
	defer o.persist()

	info := sel.Info()

	msg := fmt.Sprintf("Switched to %s (%s)\n\n%s", info.Name, info.Provider, info.Description)
	if _, err := o.resolver.Resolve(sel); err != nil {
		msg += fmt.Sprintf("\n\n⚠️ Warning: %s Please configure it in the provider settings.", err.Error())
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] Model changed to %s", sel)
	}

	o.appendAssistant(msg)
	return nil
}

// HandleClear empties the transcript and keeps the document.
func (o *Orchestrator) HandleClear() {
	defer o.persist()
	o.conv.Clear()
}

func (o *Orchestrator) processWithContext(ctx context.Context, history []Turn, task string) {
	doc, ok := o.conv.Document()
	if !ok {
		o.appendAssistant(noDocumentText)
		return
	}
	o.send(ctx, contextPrompt(doc, history, task))
}

func (o *Orchestrator) send(ctx context.Context, prompt string) {
	o.conv.SetLoading(true)
	defer o.conv.SetLoading(false)

	content, err := o.call(ctx, prompt)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Orchestrator] Request failed: %v", err)
		}
		o.appendAssistant("Error: " + err.Error())
		return
	}
	o.appendAssistant(content)
}

// call resolves the backend and sends the prompt, converting a resolver
// error, a Result.Error or an adapter panic into an error.
func (o *Orchestrator) call(ctx context.Context, prompt string) (content string, err error) {
	sel := o.conv.Model()

	p, err := o.resolver.Resolve(sel)
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			content = ""
			err = fmt.Errorf("%v", r)
		}
	}()

	res := p.SendPrompt(ctx, prompt)
	if res.Failed() {
		return "", errors.New(res.Error)
	}
	return res.Content, nil
}

func (o *Orchestrator) appendAssistant(text string) {
	o.conv.Append(newTurn(RoleAssistant, []ContentItem{NewTextItem(text)}, o.now()))
}

func (o *Orchestrator) persist() {
	if o.store == nil {
		return
	}
	if err := o.store.SaveSnapshot(o.conv.Snapshot()); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] Failed to save conversation: %v", err)
	}
}
