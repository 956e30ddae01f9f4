// Package storage persists conversations and messages in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/joss/lawchat/internal/domain"
)

type Storage struct {
	db   *sql.DB
	path string
}

// Verify Storage implements domain.ServerStore
var _ domain.ServerStore = (*Storage)(nil)

func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lawchat.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Storage{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id INTEGER NOT NULL,
		sender TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Conversation operations

func (s *Storage) CreateConversation(ctx context.Context, title string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (title, created_at) VALUES (?, ?)
	`, title, time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Storage) GetConversation(ctx context.Context, id int64) (*domain.Conversation, error) {
	var c domain.Conversation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title FROM conversations WHERE id = ?
	`, id).Scan(&c.ID, &c.Title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Storage) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title FROM conversations ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, conversationID int64, msg domain.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, ulid.Make().String(), conversationID, string(msg.Sender), msg.Text, time.Now())
	return err
}

func (s *Storage) GetMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sender, text FROM messages
		WHERE conversation_id = ? ORDER BY id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var sender string
		if err := rows.Scan(&sender, &msg.Text); err != nil {
			return nil, err
		}
		msg.Sender = domain.Sender(sender)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
