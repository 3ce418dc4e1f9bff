package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ItemRecord is one persisted content item of a turn.
type ItemRecord struct {
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	SourceName string `json:"source_name,omitempty"`
}

type TurnRecord struct {
	ID        string
	Role      string
	Items     []ItemRecord
	CreatedAt time.Time
}

type DocumentRecord struct {
	ID         string
	RawText    string
	SourceName string
	CapturedAt time.Time
}

// ChatState is everything persisted about the conversation.
type ChatState struct {
	Turns    []TurnRecord
	Document *DocumentRecord
	Model    string
}

// ChatStore keeps the conversation in chat.db. It is separate from the
// provider settings store.
type ChatStore struct {
	db *sql.DB
}

func NewChatStore(dataDir string) (*ChatStore, error) {
	dbPath := filepath.Join(dataDir, "chat.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One writer at a time; sqlite would otherwise return SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &ChatStore{db: db}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (cs *ChatStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		items TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS document (
		id TEXT PRIMARY KEY,
		raw_text TEXT NOT NULL,
		captured_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := cs.db.Exec(schema); err != nil {
		return err
	}

	if err := cs.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds columns introduced after the first release.
func (cs *ChatStore) migrateSchema() error {
	hasSourceName, err := cs.columnExists("document", "source_name")
	if err != nil {
		return fmt.Errorf("failed to check for source_name column: %w", err)
	}

	if !hasSourceName {
		if _, err := cs.db.Exec(`ALTER TABLE document ADD COLUMN source_name TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("failed to add source_name column: %w", err)
		}
	}

	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info
func (cs *ChatStore) columnExists(tableName, columnName string) (bool, error) {
	rows, err := cs.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid          int
			name         string
			dataType     string
			notNull      int
			defaultValue any
			pk           int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}

	return false, rows.Err()
}

// SaveState replaces the stored conversation with state in one transaction.
func (cs *ChatStore) SaveState(state ChatState) error {
	tx, err := cs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM turns`); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}

	for i, t := range state.Turns {
		items, err := json.Marshal(t.Items)
		if err != nil {
			return fmt.Errorf("failed to encode turn %s: %w", t.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO turns (seq, id, role, items, created_at) VALUES (?, ?, ?, ?, ?)`,
			i, t.ID, t.Role, string(items), t.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert turn %s: %w", t.ID, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM document`); err != nil {
		return fmt.Errorf("failed to clear document: %w", err)
	}

	if d := state.Document; d != nil {
		if _, err := tx.Exec(
			`INSERT INTO document (id, raw_text, source_name, captured_at) VALUES (?, ?, ?, ?)`,
			d.ID, d.RawText, d.SourceName, d.CapturedAt,
		); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO state (key, value) VALUES ('model', ?)`,
		state.Model,
	); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}

	return tx.Commit()
}

// LoadState returns the stored conversation. A fresh database yields an
// empty state.
func (cs *ChatStore) LoadState() (*ChatState, error) {
	state := &ChatState{}

	rows, err := cs.db.Query(`SELECT id, role, items, created_at FROM turns ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t     TurnRecord
			items string
		)
		if err := rows.Scan(&t.ID, &t.Role, &items, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
			return nil, fmt.Errorf("failed to decode turn %s: %w", t.ID, err)
		}
		state.Turns = append(state.Turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var d DocumentRecord
	err = cs.db.QueryRow(`SELECT id, raw_text, source_name, captured_at FROM document LIMIT 1`).
		Scan(&d.ID, &d.RawText, &d.SourceName, &d.CapturedAt)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to load document: %w", err)
	default:
		state.Document = &d
	}

	err = cs.db.QueryRow(`SELECT value FROM state WHERE key = 'model'`).Scan(&state.Model)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	return state, nil
}

func (cs *ChatStore) Close() error {
	return cs.db.Close()
}
