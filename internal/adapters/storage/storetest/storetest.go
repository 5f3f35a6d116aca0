// Package storetest holds the behaviour every domain.Store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/PabloGalante/applyai-api/internal/domain"
)

// Factory returns a fresh, empty store. Cleanup is the factory's job.
type Factory func(t *testing.T) domain.Store

// Run executes the shared store checks against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("ChatAppendAndList", func(t *testing.T) { testChatAppendAndList(t, newStore(t)) })
	t.Run("ChatDescendingOrder", func(t *testing.T) { testChatDescendingOrder(t, newStore(t)) })
	t.Run("ChatFilteredByUser", func(t *testing.T) { testChatFilteredByUser(t, newStore(t)) })
	t.Run("ChatEmptyIsNotNil", func(t *testing.T) { testChatEmpty(t, newStore(t)) })
	t.Run("ResumeAppendAndList", func(t *testing.T) { testResumeAppendAndList(t, newStore(t)) })
	t.Run("ResumeDescendingOrder", func(t *testing.T) { testResumeDescendingOrder(t, newStore(t)) })
	t.Run("DistinctIDs", func(t *testing.T) { testDistinctIDs(t, newStore(t)) })
}

var base = time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

func chatAt(user string, ts time.Time, text string) *domain.ChatSession {
	return &domain.ChatSession{
		UserID: domain.UserID(user),
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: text},
			{Role: domain.RoleAI, Content: "re: " + text},
		},
		Timestamp: ts,
	}
}

func resumeAt(user string, ts time.Time, original string) *domain.ResumeTailorRecord {
	return &domain.ResumeTailorRecord{
		UserID:         domain.UserID(user),
		OriginalResume: original,
		JobDescription: "We need a Go developer.",
		TailoredResume: "# Tailored\n" + original,
		CreatedAt:      ts,
		Meta: domain.ResumeMeta{
			ModelUsed:        "gemini-2.5-flash",
			ProcessingTimeMs: 1200,
		},
	}
}

func testChatAppendAndList(t *testing.T, s domain.Store) {
	ctx := context.Background()

	id, err := s.AppendChatSession(ctx, chatAt("u1", base, "Hello, AI!"))
	if err != nil {
		t.Fatalf("AppendChatSession failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	got, err := s.ListChatSessionsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListChatSessionsByUser failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 session, got %d", len(got))
	}

	sess := got[0]
	if sess.ID != id || sess.UserID != "u1" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if !sess.Timestamp.Equal(base) {
		t.Fatalf("expected timestamp %v, got %v", base, sess.Timestamp)
	}
	if len(sess.Messages) != 2 ||
		sess.Messages[0].Role != domain.RoleUser || sess.Messages[0].Content != "Hello, AI!" ||
		sess.Messages[1].Role != domain.RoleAI || sess.Messages[1].Content != "re: Hello, AI!" {
		t.Fatalf("unexpected messages %+v", sess.Messages)
	}
}

func testChatDescendingOrder(t *testing.T, s domain.Store) {
	ctx := context.Background()

	// inserted out of order on purpose
	for _, c := range []struct {
		offset time.Duration
		text   string
	}{
		{2 * time.Minute, "t2"},
		{1 * time.Minute, "t1"},
		{3 * time.Minute, "t3"},
	} {
		if _, err := s.AppendChatSession(ctx, chatAt("u1", base.Add(c.offset), c.text)); err != nil {
			t.Fatalf("AppendChatSession failed: %v", err)
		}
	}

	got, err := s.ListChatSessionsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListChatSessionsByUser failed: %v", err)
	}

	want := []string{"t3", "t2", "t1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sessions, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Messages[0].Content != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, got[i].Messages[0].Content)
		}
	}
}

func testChatFilteredByUser(t *testing.T, s domain.Store) {
	ctx := context.Background()

	if _, err := s.AppendChatSession(ctx, chatAt("alice", base, "mine")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.AppendChatSession(ctx, chatAt("bob", base, "theirs")); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.ListChatSessionsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Messages[0].Content != "mine" {
		t.Fatalf("expected only alice's session, got %+v", got)
	}
}

func testChatEmpty(t *testing.T, s domain.Store) {
	got, err := s.ListChatSessionsByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	resumes, err := s.ListResumeRecordsByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list resumes: %v", err)
	}
	if resumes == nil || len(resumes) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", resumes)
	}
}

func testResumeAppendAndList(t *testing.T, s domain.Store) {
	ctx := context.Background()

	in := resumeAt("u1", base, "I am a software engineer.")
	id, err := s.AppendResumeRecord(ctx, in)
	if err != nil {
		t.Fatalf("AppendResumeRecord failed: %v", err)
	}

	got, err := s.ListResumeRecordsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListResumeRecordsByUser failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	rec := got[0]
	if rec.ID != id {
		t.Fatalf("expected id %s, got %s", id, rec.ID)
	}
	if rec.OriginalResume != in.OriginalResume ||
		rec.JobDescription != in.JobDescription ||
		rec.TailoredResume != in.TailoredResume {
		t.Fatalf("record fields changed: %+v", rec)
	}
	if !rec.CreatedAt.Equal(base) {
		t.Fatalf("expected createdAt %v, got %v", base, rec.CreatedAt)
	}
	if rec.Meta.ModelUsed != "gemini-2.5-flash" || rec.Meta.ProcessingTimeMs != 1200 {
		t.Fatalf("unexpected meta %+v", rec.Meta)
	}
}

func testResumeDescendingOrder(t *testing.T, s domain.Store) {
	ctx := context.Background()

	for i, off := range []time.Duration{time.Hour, 0, 2 * time.Hour} {
		if _, err := s.AppendResumeRecord(ctx, resumeAt("u1", base.Add(off), string(rune('a'+i)))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := s.ListResumeRecordsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].CreatedAt.After(got[i].CreatedAt) {
			t.Fatalf("records not strictly descending at %d: %v then %v", i, got[i-1].CreatedAt, got[i].CreatedAt)
		}
	}
	if got[0].OriginalResume != "c" || got[2].OriginalResume != "b" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].OriginalResume, got[1].OriginalResume, got[2].OriginalResume)
	}
}

func testDistinctIDs(t *testing.T, s domain.Store) {
	ctx := context.Background()

	a, err := s.AppendChatSession(ctx, chatAt("u1", base, "same"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	b, err := s.AppendChatSession(ctx, chatAt("u1", base, "same"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct ids, both were %s", a)
	}
}
