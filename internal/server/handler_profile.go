package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

const (
	msgProfileNotFound = "Profile not found."
	maxResumeBytes     = 5 << 20
)

// resumeTypes are the accepted resume extensions.
var resumeTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProfile(r.Context())
	if err != nil {
		s.respondStoreError(w, r, err, msgProfileNotFound, "")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p model.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	p.Clean()
	if err := p.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	// The resume is only changed through the upload endpoint.
	p.ResumeURL = ""
	assignProfileIDs(&p)
	if err := s.store.SaveProfile(r.Context(), &p); err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}

	saved, err := s.store.GetProfile(r.Context())
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func assignProfileIDs(p *model.Profile) {
	for i := range p.Skills {
		if p.Skills[i].ID == "" {
			p.Skills[i].ID = uuid.NewString()
		}
	}
	for i := range p.Education {
		if p.Education[i].ID == "" {
			p.Education[i].ID = uuid.NewString()
		}
	}
	for i := range p.WorkExperience {
		if p.WorkExperience[i].ID == "" {
			p.WorkExperience[i].ID = uuid.NewString()
		}
	}
	for i := range p.SocialLinks {
		if p.SocialLinks[i].ID == "" {
			p.SocialLinks[i].ID = uuid.NewString()
		}
	}
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeBytes+(64<<10))
	file, header, err := r.FormFile("resume")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "No resume file uploaded.")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !resumeTypes[ext] {
		respondMessage(w, http.StatusBadRequest, "Resume must be a PDF or Word document.")
		return
	}
	if header.Size > maxResumeBytes {
		respondMessage(w, http.StatusBadRequest, "Resume cannot exceed 5 MB.")
		return
	}

	if _, err := s.store.GetProfile(r.Context()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(w, http.StatusNotFound, "Profile not found. Create a profile first.")
			return
		}
		respondInternal(w, r, s.logger, err)
		return
	}

	name := "resume-" + uuid.NewString() + ext
	if err := s.saveUpload(name, file); err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}

	url := path.Join("/uploads", name)
	if err := s.store.SetResumeURL(r.Context(), url); err != nil {
		s.respondStoreError(w, r, err, msgProfileNotFound, "")
		return
	}
	s.logger.Info("resume uploaded", "file", name, "bytes", header.Size)
	respondJSON(w, http.StatusOK, model.ResumeUpload{ResumeURL: url, Message: "Resume uploaded successfully."})
}

func (s *Server) saveUpload(name string, src io.Reader) error {
	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	full := filepath.Join(s.config.UploadDir, name)
	dst, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(full)
		return fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(full)
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}
