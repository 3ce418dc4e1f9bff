package model

import (
	"fmt"

	"poassist/config"
	"poassist/storage"
)

// chatStateStore adapts storage.ChatStore to StateStore.
type chatStateStore struct {
	store *storage.ChatStore
}

// NewChatStateStore returns a StateStore backed by chat.db.
func NewChatStateStore(store *storage.ChatStore) StateStore {
	return &chatStateStore{store: store}
}

func (s *chatStateStore) SaveSnapshot(snap Snapshot) error {
	return s.store.SaveState(snapshotToState(snap))
}

// LoadConversation restores the persisted conversation. fallback is used
// when nothing valid was stored for the model.
func LoadConversation(store *storage.ChatStore, fallback ModelSelection) (*Conversation, error) {
	state, err := store.LoadState()
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	snap := stateToSnapshot(state)
	if _, ok := modelInfo[snap.Model]; !ok {
		if state.Model != "" && config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Ignoring stored model %q", state.Model)
		}
		snap.Model = fallback
	}

	return RestoreConversation(snap), nil
}

func snapshotToState(snap Snapshot) storage.ChatState {
	state := storage.ChatState{
		Turns: make([]storage.TurnRecord, 0, len(snap.Turns)),
		Model: string(snap.Model),
	}

	for _, t := range snap.Turns {
		rec := storage.TurnRecord{
			ID:        t.ID,
			Role:      string(t.Role),
			CreatedAt: t.CreatedAt,
			Items:     make([]storage.ItemRecord, 0, len(t.Items)),
		}
		for _, item := range t.Items {
			rec.Items = append(rec.Items, storage.ItemRecord{
				Kind:       item.Kind().String(),
				Text:       item.Text(),
				SourceName: item.SourceName(),
			})
		}
		state.Turns = append(state.Turns, rec)
	}

	if d := snap.Document; d != nil {
		state.Document = &storage.DocumentRecord{
			ID:         d.ID,
			RawText:    d.RawText,
			SourceName: d.SourceName,
			CapturedAt: d.CapturedAt,
		}
	}

	return state
}

func stateToSnapshot(state *storage.ChatState) Snapshot {
	snap := Snapshot{Model: ModelSelection(state.Model)}

	for _, rec := range state.Turns {
		t := Turn{
			ID:        rec.ID,
			Role:      Role(rec.Role),
			CreatedAt: rec.CreatedAt,
		}
		for _, item := range rec.Items {
			switch item.Kind {
			case ItemDocument.String():
				t.Items = append(t.Items, NewDocumentItem(item.Text, item.SourceName))
			default:
				t.Items = append(t.Items, NewTextItem(item.Text))
			}
		}
		snap.Turns = append(snap.Turns, t)
	}

	if d := state.Document; d != nil {
		snap.Document = &DocumentContext{
			ID:         d.ID,
			RawText:    d.RawText,
			SourceName: d.SourceName,
			CapturedAt: d.CapturedAt,
		}
	}

	return snap
}
