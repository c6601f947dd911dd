package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondMessage writes the {message} body used for errors and deletes.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, model.MessageResponse{Message: msg})
}

// respondValidation writes 400 with the first failing field as the message.
func respondValidation(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, http.StatusBadRequest, model.ValidationError{Message: ve.Error(), Fields: ve.Fields})
		return
	}
	respondMessage(w, http.StatusBadRequest, err.Error())
}

func respondInternal(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", RequestIDFromContext(r.Context()),
	)
	respondMessage(w, http.StatusInternalServerError, "Server error.")
}

// respondStoreError maps store sentinels to 404 and 409.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrConflict):
		respondMessage(w, http.StatusConflict, conflict)
	default:
		respondInternal(w, r, s.logger, err)
	}
}

// decodeBody reads a JSON body into v, answering 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// listOptions reads page and limit, falling back to the defaults.
func listOptions(r *http.Request) model.ListOptions {
	q := r.URL.Query()
	opts := model.ListOptions{
		Page:  atoiOr(q.Get("page"), model.DefaultPage),
		Limit: atoiOr(q.Get("limit"), model.DefaultLimit),
	}
	opts.Clamp()
	return opts
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// boolParam returns nil when the parameter is absent or not a boolean.
func boolParam(r *http.Request, name string) *bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &b
}

func sortOrderParam(r *http.Request) model.SortOrder {
	o := model.SortOrder(r.URL.Query().Get("sortOrder"))
	if !o.Valid() {
		return ""
	}
	return o
}
