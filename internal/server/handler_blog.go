package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

const msgPostNotFound = "Blog post not found."

func postQuery(r *http.Request) store.PostQuery {
	q := r.URL.Query()
	return store.PostQuery{
		ListOptions: listOptions(r),
		Status:      model.PublishStatus(q.Get("status")),
		Category:    q.Get("category"),
		Tag:         q.Get("tag"),
		Search:      q.Get("search"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   sortOrderParam(r),
	}
}

func (s *Server) handleListPublicPosts(w http.ResponseWriter, r *http.Request) {
	q := postQuery(r)
	q.PublishedOnly = true
	s.listPosts(w, r, q)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.listPosts(w, r, postQuery(r))
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request, q store.PostQuery) {
	items, total, err := s.store.ListPosts(r.Context(), q)
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, model.NewPage(items, total, q.ListOptions))
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags(r.Context())
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, model.StringList{Data: tags})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, model.StringList{Data: cats})
}

func (s *Server) handleGetPublicPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err == nil && p.Status != model.StatusPublished {
		err = store.ErrNotFound
	}
	if err != nil {
		s.respondStoreError(w, r, err, msgPostNotFound, "")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, r, err, msgPostNotFound, "")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in model.BlogPostInput
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
	p := &model.BlogPost{ID: uuid.NewString(), CreatedAt: now}
	if u := UserFromContext(r.Context()); u != nil {
		p.Author = *u
	}
	applyPostInput(p, in, now)

	if err := s.store.CreatePost(r.Context(), p); err != nil {
		s.respondStoreError(w, r, err, msgPostNotFound, msgTitleExists)
		return
	}
	s.logger.Info("blog post created", "id", p.ID, "slug", p.Slug)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, r, err, msgPostNotFound, "")
		return
	}

	var in model.BlogPostInput
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

	applyPostInput(p, in, s.now().UTC())
	if err := s.store.UpdatePost(r.Context(), p); err != nil {
		s.respondStoreError(w, r, err, msgPostNotFound, msgTitleExists)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, r, err, msgPostNotFound, "")
		return
	}
	respondMessage(w, http.StatusOK, "Blog post removed.")
}

func applyPostInput(p *model.BlogPost, in model.BlogPostInput, now time.Time) {
	p.Title = strings.TrimSpace(in.Title)
	p.Slug = slugFor(p.Title, in.Slug)
	p.Content = in.Content
	p.Excerpt = in.Excerpt
	p.Categories = in.Categories
	p.Tags = in.Tags
	p.FeaturedImageURL = in.FeaturedImageURL
	p.SeoMetadata = in.SeoMetadata
	p.Status = in.Status
	if p.Status == model.StatusPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
}
