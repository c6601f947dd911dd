package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/folio/internal/formfield"
	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

const (
	msgProjectNotFound = "Project not found."
	msgTitleExists     = "Title already exists"
)

func projectQuery(r *http.Request) store.ProjectQuery {
	q := r.URL.Query()
	return store.ProjectQuery{
		ListOptions: listOptions(r),
		Status:      model.PublishStatus(q.Get("status")),
		Featured:    boolParam(r, "featured"),
		Technology:  q.Get("category"),
		Search:      q.Get("search"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   sortOrderParam(r),
	}
}

func (s *Server) handleListPublicProjects(w http.ResponseWriter, r *http.Request) {
	q := projectQuery(r)
	q.PublishedOnly = true
	s.listProjects(w, r, q)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	s.listProjects(w, r, projectQuery(r))
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request, q store.ProjectQuery) {
	items, total, err := s.store.ListProjects(r.Context(), q)
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, model.NewPage(items, total, q.ListOptions))
}

// handleGetPublicProject resolves an id first, then a slug. Drafts are hidden.
func (s *Server) handleGetPublicProject(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")
	p, err := s.store.GetProject(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		p, err = s.store.GetProjectBySlug(r.Context(), key)
	}
	if err == nil && p.Status != model.StatusPublished {
		err = store.ErrNotFound
	}
	if err != nil {
		s.respondStoreError(w, r, err, msgProjectNotFound, "")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, r, err, msgProjectNotFound, "")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Status == "" {
		in.Status = model.StatusDraft
	}
	if err := in.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	now := s.now().UTC()
	p := &model.Project{ID: uuid.NewString(), CreatedAt: now}
	applyProjectInput(p, in, now)

	if err := s.store.CreateProject(r.Context(), p); err != nil {
		s.respondStoreError(w, r, err, msgProjectNotFound, msgTitleExists)
		return
	}
	s.logger.Info("project created", "id", p.ID, "slug", p.Slug)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, r, err, msgProjectNotFound, "")
		return
	}

	var in model.ProjectInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Status == "" {
		in.Status = p.Status
	}
	if err := in.Validate(); err != nil {
		respondValidation(w, err)
		return
	}
	if !p.Status.CanTransitionTo(in.Status) {
		respondMessage(w, http.StatusBadRequest, "Invalid status.")
		return
	}

	applyProjectInput(p, in, s.now().UTC())
	if err := s.store.UpdateProject(r.Context(), p); err != nil {
		s.respondStoreError(w, r, err, msgProjectNotFound, msgTitleExists)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, r, err, msgProjectNotFound, "")
		return
	}
	respondMessage(w, http.StatusOK, "Project removed.")
}

func applyProjectInput(p *model.Project, in model.ProjectInput, now time.Time) {
	p.Title = strings.TrimSpace(in.Title)
	p.Slug = slugFor(p.Title, in.Slug)
	p.Description = in.Description
	p.ShortSummary = in.ShortSummary
	p.Technologies = in.Technologies
	p.Images = in.Images
	for i := range p.Images {
		if p.Images[i].ID == "" {
			p.Images[i].ID = uuid.NewString()
		}
	}
	p.LiveDemoURL = in.LiveDemoURL
	p.SourceCodeURL = in.SourceCodeURL
	p.Role = in.Role
	p.Challenges = in.Challenges
	p.Featured = in.Featured
	p.Order = in.Order
	p.Status = in.Status
	if p.Status == model.StatusPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
}

// slugFor keeps an explicit slug, otherwise derives one from the title
// using only lowercase letters, digits and single hyphens.
func slugFor(title, given string) string {
	if given != "" {
		return given
	}
	parts := strings.FieldsFunc(formfield.Slugify(title), func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return uuid.NewString()[:8]
	}
	return strings.Join(parts, "-")
}
