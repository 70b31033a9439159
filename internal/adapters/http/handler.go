package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devmoka/interview-coach/internal/app/dialogue"
	"github.com/devmoka/interview-coach/internal/domain"
)

type Server struct {
	svc *dialogue.Service
}

func NewServer(svc *dialogue.Service) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(withRequestLogging)
	r.Use(withCORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/sessions", s.handleCreateSession)
	r.Delete("/sessions/{id}", s.handleDeleteSession)
	r.Get("/sessions/{id}/status", s.handleSessionStatus)
	r.Post("/sessions/{id}/turns", s.handleTurn)

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type sessionStatusResponse struct {
	SessionID     string `json:"session_id"`
	State         string `json:"state"`
	HasResumeInfo bool   `json:"has_resume_info"`
}

type turnRequest struct {
	Message    string `json:"message"`
	Career     string `json:"career,omitempty"`
	JobDuties  string `json:"job_duties,omitempty"`
	TechSkills string `json:"tech_skills,omitempty"`
	LongText   string `json:"long_text,omitempty"`
}

type turnResponse struct {
	Message string                        `json:"message"`
	Buttons []dialogue.Button             `json:"buttons,omitempty"`
	Form    map[string]dialogue.FormField `json:"form,omitempty"`
	State   string                        `json:"state"`
	Final   bool                          `json:"final,omitempty"`
	Error   bool                          `json:"error,omitempty"`
}

func toTurnResponse(res dialogue.TurnResult) turnResponse {
	return turnResponse{
		Message: res.Message,
		Buttons: res.Buttons,
		Form:    res.Form,
		State:   string(res.State),
		Final:   res.Final,
		Error:   res.Err,
	}
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.CreateSession(r.Context())
	if err != nil {
		internalError(w)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: string(sess.ID)})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))

	if err := s.svc.DeleteSession(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			notFound(w)
			return
		}
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "session removed successfully"})
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))

	status, err := s.svc.SessionStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			notFound(w)
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, sessionStatusResponse{
		SessionID:     string(status.ID),
		State:         string(status.State),
		HasResumeInfo: status.HasResumeInfo,
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	res, err := s.svc.HandleTurn(r.Context(), id, dialogue.TurnInput{
		Message:    req.Message,
		Career:     req.Career,
		JobDuties:  req.JobDuties,
		TechSkills: req.TechSkills,
		LongText:   req.LongText,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			notFound(w)
		case errors.Is(err, domain.ErrGenerationUnavailable):
			// Retryable: the session did not advance.
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "generation temporarily unavailable, please retry",
			})
		default:
			internalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, toTurnResponse(res))
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
