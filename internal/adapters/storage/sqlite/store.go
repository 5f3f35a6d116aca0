// Package sqlite is a durable single-node store for local runs where
// Firestore credentials are not available.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/PabloGalante/applyai-api/internal/domain"
)

// Store implements domain.Store using SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (and creates if needed) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chats_user_ts ON chats(user_id, timestamp);

	CREATE TABLE IF NOT EXISTS tailored_resumes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		original_resume TEXT NOT NULL,
		job_description TEXT NOT NULL,
		tailored_resume TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		model_used TEXT NOT NULL,
		processing_time_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_resumes_user_created ON tailored_resumes(user_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

type messageJSON struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Store) AppendChatSession(ctx context.Context, session *domain.ChatSession) (domain.ChatSessionID, error) {
	msgs := make([]messageJSON, 0, len(session.Messages))
	for _, m := range session.Messages {
		msgs = append(msgs, messageJSON{Role: string(m.Role), Content: m.Content})
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		return "", fmt.Errorf("encode messages: %w", err)
	}

	ts := session.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chats (id, user_id, messages_json, timestamp) VALUES (?, ?, ?, ?)`,
		id, string(session.UserID), string(raw), ts.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert chat: %w", err)
	}
	return domain.ChatSessionID(id), nil
}

func (s *Store) ListChatSessionsByUser(ctx context.Context, userID domain.UserID) ([]*domain.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, messages_json, timestamp
		FROM chats WHERE user_id = ?
		ORDER BY timestamp DESC, rowid DESC`, string(userID))
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	out := []*domain.ChatSession{}
	for rows.Next() {
		var (
			id, uid, raw string
			ts           int64
		)
		if err := rows.Scan(&id, &uid, &raw, &ts); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}

		var msgs []messageJSON
		if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
			return nil, fmt.Errorf("decode messages of chat %s: %w", id, err)
		}

		sess := &domain.ChatSession{
			ID:        domain.ChatSessionID(id),
			UserID:    domain.UserID(uid),
			Messages:  make([]domain.ChatMessage, 0, len(msgs)),
			Timestamp: time.Unix(0, ts).UTC(),
		}
		for _, m := range msgs {
			sess.Messages = append(sess.Messages, domain.ChatMessage{Role: domain.Role(m.Role), Content: m.Content})
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return out, nil
}

func (s *Store) AppendResumeRecord(ctx context.Context, record *domain.ResumeTailorRecord) (domain.ResumeRecordID, error) {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tailored_resumes (
			id, user_id, original_resume, job_description, tailored_resume,
			created_at, model_used, processing_time_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(record.UserID), record.OriginalResume, record.JobDescription, record.TailoredResume,
		createdAt.UnixNano(), record.Meta.ModelUsed, record.Meta.ProcessingTimeMs,
	)
	if err != nil {
		return "", fmt.Errorf("insert tailored resume: %w", err)
	}
	return domain.ResumeRecordID(id), nil
}

func (s *Store) ListResumeRecordsByUser(ctx context.Context, userID domain.UserID) ([]*domain.ResumeTailorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, original_resume, job_description, tailored_resume,
		       created_at, model_used, processing_time_ms
		FROM tailored_resumes WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`, string(userID))
	if err != nil {
		return nil, fmt.Errorf("query tailored resumes: %w", err)
	}
	defer rows.Close()

	out := []*domain.ResumeTailorRecord{}
	for rows.Next() {
		var (
			rec       domain.ResumeTailorRecord
			id, uid   string
			createdAt int64
		)
		if err := rows.Scan(
			&id, &uid, &rec.OriginalResume, &rec.JobDescription, &rec.TailoredResume,
			&createdAt, &rec.Meta.ModelUsed, &rec.Meta.ProcessingTimeMs,
		); err != nil {
			return nil, fmt.Errorf("scan tailored resume row: %w", err)
		}
		rec.ID = domain.ResumeRecordID(id)
		rec.UserID = domain.UserID(uid)
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tailored resumes: %w", err)
	}
	return out, nil
}
