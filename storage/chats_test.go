package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestChatStoreEmptyState(t *testing.T) {
	cs, err := NewChatStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewChatStore() error = %v", err)
	}
	defer cs.Close()

	state, err := cs.LoadState()
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if len(state.Turns) != 0 || state.Document != nil || state.Model != "" {
		t.Errorf("LoadState() on fresh db = %+v, want empty", state)
	}
}

func TestChatStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cs, err := NewChatStore(dir)
	if err != nil {
		t.Fatalf("NewChatStore() error = %v", err)
	}

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	want := ChatState{
		Turns: []TurnRecord{
			{ID: "t1", Role: "user", CreatedAt: ts, Items: []ItemRecord{
				{Kind: "document", Text: "PO Number: 42", SourceName: "po.pdf"},
				{Kind: "text", Text: "here you go"},
			}},
			{ID: "t2", Role: "assistant", CreatedAt: ts.Add(time.Second), Items: []ItemRecord{
				{Kind: "text", Text: "menu"},
			}},
		},
		Document: &DocumentRecord{ID: "d1", RawText: "PO Number: 42", SourceName: "po.pdf", CapturedAt: ts},
		Model:    "gpt-4",
	}

	if err := cs.SaveState(want); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	cs.Close()

	// Reopen to make sure it hit disk
	cs, err = NewChatStore(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer cs.Close()

	got, err := cs.LoadState()
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}

	if len(got.Turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(got.Turns))
	}
	for i := range want.Turns {
		w, g := want.Turns[i], got.Turns[i]
		if g.ID != w.ID || g.Role != w.Role || !g.CreatedAt.Equal(w.CreatedAt) || !reflect.DeepEqual(g.Items, w.Items) {
			t.Errorf("turn %d = %+v, want %+v", i, g, w)
		}
	}
	if got.Document == nil || got.Document.RawText != "PO Number: 42" || got.Document.SourceName != "po.pdf" {
		t.Errorf("document = %+v", got.Document)
	}
	if got.Model != "gpt-4" {
		t.Errorf("model = %q, want gpt-4", got.Model)
	}
}

func TestChatStoreSaveReplaces(t *testing.T) {
	cs, err := NewChatStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer cs.Close()

	first := ChatState{
		Turns:    []TurnRecord{{ID: "a", Role: "user", CreatedAt: time.Now()}},
		Document: &DocumentRecord{ID: "d", RawText: "x", CapturedAt: time.Now()},
		Model:    "claude-v2",
	}
	if err := cs.SaveState(first); err != nil {
		t.Fatal(err)
	}

	// Cleared transcript, document kept
	second := ChatState{Document: first.Document, Model: "llama-2"}
	if err := cs.SaveState(second); err != nil {
		t.Fatal(err)
	}

	got, err := cs.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Turns) != 0 {
		t.Errorf("turns after replace = %d, want 0", len(got.Turns))
	}
	if got.Document == nil || got.Document.ID != "d" {
		t.Errorf("document after replace = %+v", got.Document)
	}
	if got.Model != "llama-2" {
		t.Errorf("model = %q", got.Model)
	}
}

func TestInstanceLock(t *testing.T) {
	dir := t.TempDir()
	lock := NewInstanceLock(dir)

	locked, _, err := lock.Check()
	if err != nil || locked {
		t.Fatalf("Check() before acquire = %v, %v", locked, err)
	}

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	// Our own PID never counts as another instance
	locked, _, err = lock.Check()
	if err != nil || locked {
		t.Errorf("Check() own lock = %v, %v", locked, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "poassist.lock"), []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	locked, _, err = lock.Check()
	if err != nil || locked {
		t.Errorf("Check() garbage lock = %v, %v", locked, err)
	}

	if err := lock.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
}
