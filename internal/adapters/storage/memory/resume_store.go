package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/PabloGalante/applyai-api/internal/domain"
)

type ResumeStore struct {
	mu      sync.RWMutex
	records []*domain.ResumeTailorRecord
}

func NewResumeStore() *ResumeStore {
	return &ResumeStore{}
}

func (s *ResumeStore) AppendResumeRecord(_ context.Context, record *domain.ResumeTailorRecord) (domain.ResumeRecordID, error) {
	stored := *record
	stored.ID = domain.ResumeRecordID(uuid.NewString())

	s.mu.Lock()
	s.records = append(s.records, &stored)
	s.mu.Unlock()

	return stored.ID, nil
}

func (s *ResumeStore) ListResumeRecordsByUser(_ context.Context, userID domain.UserID) ([]*domain.ResumeTailorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.ResumeTailorRecord{}
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].UserID == userID {
			rec := *s.records[i]
			out = append(out, &rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ResumeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
