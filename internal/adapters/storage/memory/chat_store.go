package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/applyai-api/internal/domain"
)

// ChatStore is a simple in-memory implementation of domain.ChatStore.
// It is NOT persistent and is only suitable for development / local mode.
type ChatStore struct {
	mu       sync.RWMutex
	sessions []*domain.ChatSession
}

func NewChatStore() *ChatStore {
	return &ChatStore{}
}

func (s *ChatStore) AppendChatSession(_ context.Context, session *domain.ChatSession) (domain.ChatSessionID, error) {
	stored := cloneChatSession(session)
	stored.ID = domain.ChatSessionID(uuid.NewString())
	if stored.Timestamp.IsZero() {
		// stands in for the server timestamp Firestore would assign
		stored.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	s.sessions = append(s.sessions, stored)
	s.mu.Unlock()

	return stored.ID, nil
}

func (s *ChatStore) ListChatSessionsByUser(_ context.Context, userID domain.UserID) ([]*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// walk backwards so equal timestamps keep newest-inserted first
	out := []*domain.ChatSession{}
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if s.sessions[i].UserID == userID {
			out = append(out, cloneChatSession(s.sessions[i]))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func cloneChatSession(in *domain.ChatSession) *domain.ChatSession {
	out := *in
	out.Messages = append([]domain.ChatMessage(nil), in.Messages...)
	return &out
}

// Len reports how many sessions are stored across all users.
func (s *ChatStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
