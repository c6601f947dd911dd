package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

const msgSubmissionNotFound = "Submission not found."

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	if !decodeBody(w, r, &msg) {
		return
	}
	if err := msg.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	now := s.now().UTC()
	sub := &model.ContactSubmission{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(msg.Name),
		Email:     strings.TrimSpace(msg.Email),
		Subject:   strings.TrimSpace(msg.Subject),
		Message:   msg.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSubmission(r.Context(), sub); err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	s.logger.Info("contact submission received", "id", sub.ID)
	respondJSON(w, http.StatusCreated, model.ContactReceipt{
		Message:    "Thank you for your message! I will get back to you soon.",
		Submission: sub,
	})
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := store.SubmissionQuery{
		ListOptions: listOptions(r),
		IsRead:      boolParam(r, "isRead"),
		SortBy:      r.URL.Query().Get("sortBy"),
		SortOrder:   sortOrderParam(r),
	}
	items, total, err := s.store.ListSubmissions(r.Context(), q)
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, model.NewPage(items, total, q.ListOptions))
}

func (s *Server) handleSetSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsRead *bool `json:"isRead"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.IsRead == nil {
		respondMessage(w, http.StatusBadRequest, "isRead must be a boolean.")
		return
	}

	sub, err := s.store.SetSubmissionRead(r.Context(), chi.URLParam(r, "id"), *body.IsRead)
	if err != nil {
		s.respondStoreError(w, r, err, msgSubmissionNotFound, "")
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func (s *Server) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSubmission(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, r, err, msgSubmissionNotFound, "")
		return
	}
	respondMessage(w, http.StatusOK, "Submission deleted.")
}
