package conversation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PabloGalante/applyai-api/internal/adapters/llm"
	"github.com/PabloGalante/applyai-api/internal/adapters/storage/memory"
	"github.com/PabloGalante/applyai-api/internal/app/conversation"
	"github.com/PabloGalante/applyai-api/internal/domain"
)

const testModel = "gemini-2.5-flash"

// failingStore fails every call.
type failingStore struct {
	appends int
}

func (f *failingStore) AppendChatSession(context.Context, *domain.ChatSession) (domain.ChatSessionID, error) {
	f.appends++
	return "", errors.New("firestore unavailable")
}

func (f *failingStore) ListChatSessionsByUser(context.Context, domain.UserID) ([]*domain.ChatSession, error) {
	return nil, errors.New("firestore unavailable")
}

// fixedStore returns the sessions it was built with.
type fixedStore struct {
	sessions []*domain.ChatSession
}

func (f *fixedStore) AppendChatSession(context.Context, *domain.ChatSession) (domain.ChatSessionID, error) {
	return "fixed", nil
}

func (f *fixedStore) ListChatSessionsByUser(context.Context, domain.UserID) ([]*domain.ChatSession, error) {
	return f.sessions, nil
}

func TestSendMessageWithUser(t *testing.T) {
	ctx := context.Background()

	llmClient := llm.NewScriptedLLM("Hello! How can I help with your job search?")
	store := memory.NewChatStore()
	svc := conversation.NewService(llmClient, store, testModel)

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		UserID: "u1",
		Text:   "Hi",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if out.Reply != "Hello! How can I help with your job search?" {
		t.Fatalf("unexpected reply %q", out.Reply)
	}
	if out.SessionID == "" {
		t.Fatalf("expected session id")
	}

	calls := llmClient.Calls()
	if len(calls) != 1 || calls[0].Prompt != "Hi" || calls[0].Model != testModel {
		t.Fatalf("expected one verbatim call, got %+v", calls)
	}

	sessions, err := store.ListChatSessionsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	msgs := sessions[0].Messages
	if len(msgs) != 2 ||
		msgs[0] != (domain.ChatMessage{Role: domain.RoleUser, Content: "Hi"}) ||
		msgs[1] != (domain.ChatMessage{Role: domain.RoleAI, Content: out.Reply}) {
		t.Fatalf("unexpected messages %+v", msgs)
	}
}

func TestSendMessageWithoutUserIsNotSaved(t *testing.T) {
	ctx := context.Background()

	store := memory.NewChatStore()
	svc := conversation.NewService(llm.NewMockLLM(), store, testModel)

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{Text: "Hi"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if out.Reply == "" {
		t.Fatalf("expected reply")
	}
	if out.SessionID != "" {
		t.Fatalf("expected no session id, got %s", out.SessionID)
	}
	if n := store.Len(); n != 0 {
		t.Fatalf("expected empty store, got %d sessions", n)
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	llmClient := llm.NewMockLLM()
	svc := conversation.NewService(llmClient, memory.NewChatStore(), testModel)

	for _, text := range []string{"", "   \n\t"} {
		_, err := svc.SendMessage(context.Background(), conversation.SendMessageInput{UserID: "u1", Text: text})
		if !domain.IsKind(err, domain.KindValidation) {
			t.Fatalf("text %q: expected validation error, got %v", text, err)
		}
	}
	if n := len(llmClient.Calls()); n != 0 {
		t.Fatalf("expected no model calls, got %d", n)
	}
}

func TestSendMessageProviderFailure(t *testing.T) {
	providerErr := errors.New("quota exceeded")
	store := memory.NewChatStore()
	svc := conversation.NewService(llm.NewFailingLLM(providerErr), store, testModel)

	_, err := svc.SendMessage(context.Background(), conversation.SendMessageInput{UserID: "u1", Text: "Hi"})
	if !domain.IsKind(err, domain.KindUpstreamProvider) {
		t.Fatalf("expected upstream provider error, got %v", err)
	}
	if !errors.Is(err, providerErr) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if n := store.Len(); n != 0 {
		t.Fatalf("expected nothing saved, got %d sessions", n)
	}
}

func TestSendMessageSaveFailureIsSwallowed(t *testing.T) {
	store := &failingStore{}
	svc := conversation.NewService(llm.NewScriptedLLM("ok"), store, testModel)

	out, err := svc.SendMessage(context.Background(), conversation.SendMessageInput{UserID: "u1", Text: "Hi"})
	if err != nil {
		t.Fatalf("expected save failure to be ignored, got %v", err)
	}
	if out.Reply != "ok" || out.SessionID != "" {
		t.Fatalf("unexpected output %+v", out)
	}
	if store.appends != 1 {
		t.Fatalf("expected one save attempt, got %d", store.appends)
	}
}

func TestSendMessageSavesAfterClientCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	store := &cancelAwareStore{}
	svc := conversation.NewService(cancelingLLM{cancel: cancel}, store, testModel)

	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{UserID: "u1", Text: "Hi"}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if store.sawCanceled {
		t.Fatalf("save ran with a canceled context")
	}
}

func TestRepeatedMessagesCreateSeparateSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewChatStore()
	svc := conversation.NewService(llm.NewMockLLM(), store, testModel)

	var ids []domain.ChatSessionID
	for range 2 {
		out, err := svc.SendMessage(ctx, conversation.SendMessageInput{UserID: "u1", Text: "Hi"})
		if err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
		ids = append(ids, out.SessionID)
	}
	if ids[0] == ids[1] {
		t.Fatalf("expected distinct session ids, got %v", ids)
	}

	sessions, err := svc.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestListSessionsDefaultsMissingTimestamp(t *testing.T) {
	stored := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fixedStore{sessions: []*domain.ChatSession{
		{ID: "a", UserID: "u1", Timestamp: stored},
		{ID: "b", UserID: "u1"},
	}}
	svc := conversation.NewService(llm.NewMockLLM(), store, testModel)

	before := time.Now()
	sessions, err := svc.ListSessions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if !sessions[0].Timestamp.Equal(stored) {
		t.Fatalf("stored timestamp changed: %v", sessions[0].Timestamp)
	}
	if sessions[1].Timestamp.Before(before) {
		t.Fatalf("expected read time for missing timestamp, got %v", sessions[1].Timestamp)
	}
}

func TestListSessionsStoreFailure(t *testing.T) {
	svc := conversation.NewService(llm.NewMockLLM(), &failingStore{}, testModel)

	_, err := svc.ListSessions(context.Background(), "u1")
	if !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestListSessionsWithoutStore(t *testing.T) {
	svc := conversation.NewService(llm.NewMockLLM(), nil, testModel)

	if _, err := svc.SendMessage(context.Background(), conversation.SendMessageInput{UserID: "u1", Text: "Hi"}); err != nil {
		t.Fatalf("SendMessage without store failed: %v", err)
	}
	if _, err := svc.ListSessions(context.Background(), "u1"); !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

// cancelingLLM cancels the caller's context once it has produced a reply.
type cancelingLLM struct {
	cancel context.CancelFunc
}

func (c cancelingLLM) GenerateText(context.Context, string, string) (string, error) {
	c.cancel()
	return "done", nil
}

type cancelAwareStore struct {
	fixedStore
	sawCanceled bool
}

func (c *cancelAwareStore) AppendChatSession(ctx context.Context, s *domain.ChatSession) (domain.ChatSessionID, error) {
	c.sawCanceled = ctx.Err() != nil
	return "saved", nil
}
