package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/applyai-api/internal/domain"
)

const (
	chatsCollection   = "chats"
	resumesCollection = "tailored_resumes"
)

// Config selects the project, database and credentials of the store.
type Config struct {
	// ProjectID may be empty, the project is then read from the credentials.
	ProjectID  string
	DatabaseID string
	// CredentialsFile is a service account JSON. Empty means ADC or emulator.
	CredentialsFile string
}

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store on the named database.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DatabaseID == "" {
		return nil, fmt.Errorf("databaseID is required for Firestore store")
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, cfg.DatabaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type chatMessageDoc struct {
	Role    string `firestore:"role"`
	Content string `firestore:"content"`
}

// A zero Timestamp is replaced by the server timestamp on write.
type chatDoc struct {
	UserID    string           `firestore:"user_id"`
	Messages  []chatMessageDoc `firestore:"messages"`
	Timestamp time.Time        `firestore:"timestamp,serverTimestamp"`
}

type resumeMetaDoc struct {
	ModelUsed        string `firestore:"modelUsed"`
	ProcessingTimeMs int64  `firestore:"processingTimeMs"`
}

type resumeDoc struct {
	UserID         string        `firestore:"user_id"`
	OriginalResume string        `firestore:"originalResume"`
	JobDescription string        `firestore:"jobDescription"`
	TailoredResume string        `firestore:"tailoredResume"`
	CreatedAt      time.Time     `firestore:"createdAt"`
	Meta           resumeMetaDoc `firestore:"meta"`
}

// ─────────────────────────────────────────
// ChatStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendChatSession(ctx context.Context, session *domain.ChatSession) (domain.ChatSessionID, error) {
	doc := chatDoc{
		UserID:    string(session.UserID),
		Messages:  make([]chatMessageDoc, 0, len(session.Messages)),
		Timestamp: session.Timestamp,
	}
	for _, m := range session.Messages {
		doc.Messages = append(doc.Messages, chatMessageDoc{Role: string(m.Role), Content: m.Content})
	}

	ref, _, err := s.client.Collection(chatsCollection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("firestore AppendChatSession: %w", err)
	}
	return domain.ChatSessionID(ref.ID), nil
}

func (s *Store) ListChatSessionsByUser(ctx context.Context, userID domain.UserID) ([]*domain.ChatSession, error) {
	q := s.client.Collection(chatsCollection).
		Where("user_id", "==", string(userID)).
		OrderBy("timestamp", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*domain.ChatSession{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, queryError("ListChatSessionsByUser", err)
		}

		var doc chatDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode chatDoc %s: %w", snap.Ref.ID, err)
		}

		sess := &domain.ChatSession{
			ID:        domain.ChatSessionID(snap.Ref.ID),
			UserID:    domain.UserID(doc.UserID),
			Messages:  make([]domain.ChatMessage, 0, len(doc.Messages)),
			Timestamp: doc.Timestamp,
		}
		for _, m := range doc.Messages {
			sess.Messages = append(sess.Messages, domain.ChatMessage{Role: domain.Role(m.Role), Content: m.Content})
		}
		out = append(out, sess)
	}
	return out, nil
}

// ─────────────────────────────────────────
// ResumeStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendResumeRecord(ctx context.Context, record *domain.ResumeTailorRecord) (domain.ResumeRecordID, error) {
	doc := resumeDoc{
		UserID:         string(record.UserID),
		OriginalResume: record.OriginalResume,
		JobDescription: record.JobDescription,
		TailoredResume: record.TailoredResume,
		CreatedAt:      record.CreatedAt,
		Meta: resumeMetaDoc{
			ModelUsed:        record.Meta.ModelUsed,
			ProcessingTimeMs: record.Meta.ProcessingTimeMs,
		},
	}

	ref, _, err := s.client.Collection(resumesCollection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("firestore AppendResumeRecord: %w", err)
	}
	return domain.ResumeRecordID(ref.ID), nil
}

func (s *Store) ListResumeRecordsByUser(ctx context.Context, userID domain.UserID) ([]*domain.ResumeTailorRecord, error) {
	q := s.client.Collection(resumesCollection).
		Where("user_id", "==", string(userID)).
		OrderBy("createdAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*domain.ResumeTailorRecord{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, queryError("ListResumeRecordsByUser", err)
		}

		var doc resumeDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode resumeDoc %s: %w", snap.Ref.ID, err)
		}

		out = append(out, &domain.ResumeTailorRecord{
			ID:             domain.ResumeRecordID(snap.Ref.ID),
			UserID:         domain.UserID(doc.UserID),
			OriginalResume: doc.OriginalResume,
			JobDescription: doc.JobDescription,
			TailoredResume: doc.TailoredResume,
			CreatedAt:      doc.CreatedAt,
			Meta: domain.ResumeMeta{
				ModelUsed:        doc.Meta.ModelUsed,
				ProcessingTimeMs: doc.Meta.ProcessingTimeMs,
			},
		})
	}
	return out, nil
}

// queryError points at the usual cause of FailedPrecondition on these
// queries: the user_id + time composite index has not been created yet.
func queryError(op string, err error) error {
	if status.Code(err) == codes.FailedPrecondition {
		return fmt.Errorf("firestore %s (missing composite index?): %w", op, err)
	}
	return fmt.Errorf("firestore %s: %w", op, err)
}
