package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/model"
)

type messageRequest struct {
	Content string `json:"content"`
}

type reportRequest struct {
	ErrorType   string `json:"error_type"`
	Description string `json:"description"`
	CorrectInfo string `json:"correct_info"`
}

type sessionResponse struct {
	SessionID string              `json:"session_id"`
	Busy      bool                `json:"busy"`
	Topic     model.Topic         `json:"topic"`
	Messages  []model.ChatMessage `json:"messages"`
}

func newSessionResponse(sess *chat.Session) sessionResponse {
	return sessionResponse{
		SessionID: sess.ID(),
		Busy:      sess.Busy(),
		Topic:     sess.CurrentTopic(),
		Messages:  sess.Messages(),
	}
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	topics := append(s.engine.Selector().Catalog().Topics(), model.TopicGeneral)
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appended, err := s.engine.Submit(r.Context(), sess, req.Content, chat.Hooks{})
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, chat.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.logger.Warnw("submission interrupted", "session_id", sess.ID(), "error", err)
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID(),
		"messages":   appended,
	})
}

func (s *Server) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.ClearIfIdle(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="studyprep-`+sess.ID()+`.json"`)
	writeJSON(w, http.StatusOK, chat.Export(sess))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := chat.BuildErrorReport(sess, req.ErrorType, req.Description, req.CorrectInfo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.reports.Submit(r.Context(), report); err != nil {
		s.logger.Errorw("store error report", "session_id", sess.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	s.logger.Infow("error report received", "session_id", sess.ID(), "type", report.ErrorType)
	writeJSON(w, http.StatusCreated, report)
}

// session resolves the {id} parameter or writes 404
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
