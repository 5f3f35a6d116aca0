package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/PabloGalante/applyai-api/internal/app/conversation"
	"github.com/PabloGalante/applyai-api/internal/app/resume"
	"github.com/PabloGalante/applyai-api/internal/domain"
	"github.com/PabloGalante/applyai-api/internal/observability"
)

// Client-facing failure messages. Causes only go to the logs.
const (
	msgChatFailed    = "Failed to get response from AI model"
	msgResumeFailed  = "Failed to generate resume."
	msgTailorFailed  = "Failed to tailor resume."
	msgHistoryFailed = "Failed to fetch history"
)

type Options struct {
	CORSOrigins []string
}

type Server struct {
	chat   *conversation.Service
	resume *resume.Service
}

func NewServer(chatSvc *conversation.Service, resumeSvc *resume.Service, opts Options) http.Handler {
	s := &Server{chat: chatSvc, resume: resumeSvc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withRequestLogging)
	r.Use(middleware.Recoverer)
	r.Use(withCORS(opts.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		methodNotAllowed(w)
	})

	r.Get("/healthz", s.handleHealthz)

	r.Post("/chat", s.handleChat)
	r.Get("/chats/{userID}", s.handleListChats)

	r.Post("/resumes", s.handleCreateResume)
	r.Get("/resumes/{userID}", s.handleListResumes)

	// earlier client contract: no user required, nothing stored without one
	r.Post("/resume-tailor", s.handleResumeTailor)

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	UserIDAlt string `json:"userId"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type tailorResponse struct {
	TailoredResume string `json:"tailored_resume"`
}

type chatMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatSessionResponse struct {
	ID        string                `json:"id"`
	Messages  []chatMessageResponse `json:"messages"`
	Timestamp time.Time             `json:"timestamp"`
}

type resumeRecordResponse struct {
	ID             string    `json:"id"`
	OriginalResume string    `json:"originalResume"`
	TailoredResume string    `json:"tailoredResume"`
	CreatedAt      time.Time `json:"createdAt"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, msgChatFailed)
		return
	}

	out, err := s.chat.SendMessage(r.Context(), conversation.SendMessageInput{
		UserID: domain.UserID(firstNonEmpty(req.UserID, req.UserIDAlt)),
		Text:   req.Message,
	})
	if err != nil {
		writeError(w, r, err, msgChatFailed)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: out.Reply})
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	s.tailor(w, r, true, msgResumeFailed)
}

func (s *Server) handleResumeTailor(w http.ResponseWriter, r *http.Request) {
	s.tailor(w, r, false, msgTailorFailed)
}

func (s *Server) tailor(w http.ResponseWriter, r *http.Request, requireUser bool, failMsg string) {
	req, err := parseTailorRequest(w, r)
	if err != nil {
		writeError(w, r, err, failMsg)
		return
	}

	out, err := s.resume.Tailor(r.Context(), resume.TailorInput{
		UserID:         domain.UserID(req.UserID),
		BaseResume:     req.BaseResume,
		JobDescription: req.JobDescription,
		RequireUser:    requireUser,
	})
	if err != nil {
		writeError(w, r, err, failMsg)
		return
	}

	writeJSON(w, http.StatusOK, tailorResponse{TailoredResume: out.TailoredResume})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(chi.URLParam(r, "userID"))

	sessions, err := s.chat.ListSessions(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, msgHistoryFailed)
		return
	}

	writeJSON(w, http.StatusOK, toChatSessionsResponse(sessions))
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(chi.URLParam(r, "userID"))

	records, err := s.resume.ListRecords(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, msgHistoryFailed)
		return
	}

	writeJSON(w, http.StatusOK, toResumeRecordsResponse(records))
}

// ─────────────────────────────────────────────
// History Helpers
// ─────────────────────────────────────────────

func toChatSessionsResponse(sessions []*domain.ChatSession) []chatSessionResponse {
	out := make([]chatSessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		msgs := make([]chatMessageResponse, 0, len(sess.Messages))
		for _, m := range sess.Messages {
			msgs = append(msgs, chatMessageResponse{Role: string(m.Role), Content: m.Content})
		}
		out = append(out, chatSessionResponse{
			ID:        string(sess.ID),
			Messages:  msgs,
			Timestamp: sess.Timestamp,
		})
	}
	return out
}

func toResumeRecordsResponse(records []*domain.ResumeTailorRecord) []resumeRecordResponse {
	out := make([]resumeRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, resumeRecordResponse{
			ID:             string(rec.ID),
			OriginalResume: rec.OriginalResume,
			TailoredResume: rec.TailoredResume,
			CreatedAt:      rec.CreatedAt,
		})
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps validation failures to 422 and everything else to 500
// with the operation's fixed message.
func writeError(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Kind == domain.KindValidation {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("%s %s", derr.Field, derr.Msg),
			Field: derr.Field,
		})
		return
	}

	observability.LoggerFromContext(r.Context()).Error("request failed",
		"path", r.URL.Path,
		"kind", domain.KindOf(err).String(),
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: failMsg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
