package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/PabloGalante/applyai-api/internal/domain"
	"github.com/PabloGalante/applyai-api/internal/observability"
)

type Service struct {
	llm   domain.LLMClient
	store domain.ChatStore
	model string
	now   func() time.Time
}

// NewService builds the chat service. store may be nil, in which case
// exchanges are never persisted and history is unavailable.
func NewService(llm domain.LLMClient, store domain.ChatStore, model string) *Service {
	return &Service{
		llm:   llm,
		store: store,
		model: model,
		now:   time.Now,
	}
}

type SendMessageInput struct {
	UserID domain.UserID
	Text   string
}

type SendMessageOutput struct {
	Reply string
	// SessionID is empty when the exchange was not persisted.
	SessionID domain.ChatSessionID
}

// SendMessage forwards the text verbatim to the model. When a user id is
// present the exchange is saved as a new session; a failed save is logged
// and does not fail the call.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	const op = "conversation.SendMessage"

	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.ValidationError(op, "message", "must not be empty")
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.UserID,
		"model", s.model,
	)
	start := s.now()
	log.Info("sending message", "message_len", len(in.Text))

	reply, err := s.llm.GenerateText(ctx, s.model, in.Text)
	if err != nil {
		log.Error("model call failed", "error", err)
		return nil, domain.UpstreamProviderError(op, err)
	}

	out := &SendMessageOutput{Reply: reply}

	// only save when we have a real user
	if in.UserID != "" && s.store != nil {
		session := &domain.ChatSession{
			UserID: in.UserID,
			Messages: []domain.ChatMessage{
				{Role: domain.RoleUser, Content: in.Text},
				{Role: domain.RoleAI, Content: reply},
			},
			// zero Timestamp: assigned by the store
		}

		// the save must outlive a client that hangs up after the reply
		id, err := s.store.AppendChatSession(context.WithoutCancel(ctx), session)
		if err != nil {
			log.Error("failed to save chat session", "error", err)
		} else {
			out.SessionID = id
			log.Info("saved chat session", "chat_id", id)
		}
	}

	log.Info("send message completed", "elapsed_ms", s.now().Sub(start).Milliseconds())
	return out, nil
}

// ListSessions returns every chat session of the user, newest first.
// Sessions stored without a timestamp report the time of the read.
func (s *Service) ListSessions(ctx context.Context, userID domain.UserID) ([]*domain.ChatSession, error) {
	const op = "conversation.ListSessions"

	if strings.TrimSpace(string(userID)) == "" {
		return nil, domain.ValidationError(op, "user_id", "must not be empty")
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	if s.store == nil {
		log.Error("chat history requested without a store")
		return nil, domain.PersistenceError(op, errNoStore)
	}

	sessions, err := s.store.ListChatSessionsByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list chat sessions", "error", err)
		return nil, domain.PersistenceError(op, err)
	}

	now := s.now()
	for _, sess := range sessions {
		if sess.Timestamp.IsZero() {
			sess.Timestamp = now
		}
	}

	log.Info("fetched chat history", "session_count", len(sessions))
	return sessions, nil
}
