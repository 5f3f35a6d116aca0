// Package resume tailors resumes to job descriptions and keeps a history
// of the results per user.
package resume

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PabloGalante/applyai-api/internal/domain"
	"github.com/PabloGalante/applyai-api/internal/observability"
)

var errNoStore = errors.New("no resume store configured")

type Service struct {
	llm   domain.LLMClient
	store domain.ResumeStore
	model string
	now   func() time.Time
}

func NewService(llm domain.LLMClient, store domain.ResumeStore, model string) *Service {
	return &Service{
		llm:   llm,
		store: store,
		model: model,
		now:   time.Now,
	}
}

type TailorInput struct {
	UserID         domain.UserID
	BaseResume     string
	JobDescription string
	// RequireUser rejects input without a user id.
	RequireUser bool
}

type TailorOutput struct {
	TailoredResume string
	// RecordID is empty when the result was not persisted.
	RecordID         domain.ResumeRecordID
	ProcessingTimeMs int64
}

func (in TailorInput) validate(op string) error {
	if strings.TrimSpace(in.BaseResume) == "" {
		return domain.ValidationError(op, "base_resume", "must not be empty")
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return domain.ValidationError(op, "job_description", "must not be empty")
	}
	if in.RequireUser && strings.TrimSpace(string(in.UserID)) == "" {
		return domain.ValidationError(op, "user_id", "must not be empty")
	}
	return nil
}

// Tailor asks the model to rewrite the resume for the job description.
// With a user id the result is recorded; a failed save is logged only.
func (s *Service) Tailor(ctx context.Context, in TailorInput) (*TailorOutput, error) {
	const op = "resume.Tailor"

	if err := in.validate(op); err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.UserID,
		"model", s.model,
	)
	log.Info("tailoring resume",
		"resume_len", len(in.BaseResume),
		"job_description_len", len(in.JobDescription),
	)

	start := s.now()
	tailored, err := s.llm.GenerateText(ctx, s.model, BuildTailorPrompt(in.BaseResume, in.JobDescription))
	if err != nil {
		log.Error("model call failed", "error", err)
		return nil, domain.UpstreamProviderError(op, err)
	}
	elapsed := s.now().Sub(start).Milliseconds()

	out := &TailorOutput{
		TailoredResume:   tailored,
		ProcessingTimeMs: elapsed,
	}

	if in.UserID != "" && s.store != nil {
		record := &domain.ResumeTailorRecord{
			UserID:         in.UserID,
			OriginalResume: in.BaseResume,
			JobDescription: in.JobDescription,
			TailoredResume: tailored,
			CreatedAt:      s.now().UTC(),
			Meta: domain.ResumeMeta{
				ModelUsed:        s.model,
				ProcessingTimeMs: elapsed,
			},
		}

		id, err := s.store.AppendResumeRecord(context.WithoutCancel(ctx), record)
		if err != nil {
			log.Error("failed to save tailored resume", "error", err)
		} else {
			out.RecordID = id
			log.Info("saved tailored resume", "resume_id", id)
		}
	}

	log.Info("tailor resume completed", "elapsed_ms", elapsed)
	return out, nil
}

// ListRecords returns the user's tailoring history, newest first.
func (s *Service) ListRecords(ctx context.Context, userID domain.UserID) ([]*domain.ResumeTailorRecord, error) {
	const op = "resume.ListRecords"

	if strings.TrimSpace(string(userID)) == "" {
		return nil, domain.ValidationError(op, "user_id", "must not be empty")
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	if s.store == nil {
		log.Error("resume history requested without a store")
		return nil, domain.PersistenceError(op, errNoStore)
	}

	records, err := s.store.ListResumeRecordsByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list tailored resumes", "error", err)
		return nil, domain.PersistenceError(op, err)
	}

	now := s.now()
	for _, rec := range records {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
	}

	log.Info("fetched resume history", "record_count", len(records))
	return records, nil
}
