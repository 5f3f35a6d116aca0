package domain

import "context"

// LLMClient defines how the core application interacts with a model provider.
type LLMClient interface {
	GenerateText(ctx context.Context, model string, prompt string) (string, error)
}

// ChatStore defines chat session persistence. Sessions are append-only.
type ChatStore interface {
	AppendChatSession(ctx context.Context, session *ChatSession) (ChatSessionID, error)
	// ListChatSessionsByUser returns every session of the user, newest first.
	ListChatSessionsByUser(ctx context.Context, userID UserID) ([]*ChatSession, error)
}

// ResumeStore defines tailored resume persistence. Records are append-only.
type ResumeStore interface {
	AppendResumeRecord(ctx context.Context, record *ResumeTailorRecord) (ResumeRecordID, error)
	// ListResumeRecordsByUser returns every record of the user, newest first.
	ListResumeRecordsByUser(ctx context.Context, userID UserID) ([]*ResumeTailorRecord, error)
}

// Store is implemented by every storage backend.
type Store interface {
	ChatStore
	ResumeStore
	Close() error
}
