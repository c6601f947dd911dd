package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

const ctxKeyUser ctxKey = "user"

// UserFromContext extracts the authenticated admin from request context.
func UserFromContext(ctx context.Context) *model.User {
	if u, ok := ctx.Value(ctxKeyUser).(*model.User); ok {
		return u
	}
	return nil
}

// Claims are the JWT claims of an admin token.
type Claims struct {
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// tokenIssuer signs and verifies HS256 admin tokens.
type tokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func newTokenIssuer(key []byte, ttl time.Duration, now func() time.Time) *tokenIssuer {
	return &tokenIssuer{key: key, ttl: ttl, now: now}
}

func (ti *tokenIssuer) issue(u model.User) (string, error) {
	now := ti.now()
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key)
}

func (ti *tokenIssuer) parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return ti.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// bearerToken returns the token of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// requireAdmin rejects requests without a valid admin token with 401.
func requireAdmin(ti *tokenIssuer, st store.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				respondMessage(w, http.StatusUnauthorized, "Not authorized, no token.")
				return
			}

			claims, err := ti.parse(raw)
			if err != nil {
				logger.Debug("token rejected", "error", err, "request_id", RequestIDFromContext(r.Context()))
				respondMessage(w, http.StatusUnauthorized, "Not authorized, token failed.")
				return
			}

			u, err := st.GetUser(r.Context(), claims.Subject)
			if errors.Is(err, store.ErrNotFound) {
				respondMessage(w, http.StatusUnauthorized, "Not authorized, user not found.")
				return
			}
			if err != nil {
				respondInternal(w, r, logger, err)
				return
			}
			if !u.IsAdmin() {
				respondMessage(w, http.StatusUnauthorized, "Not authorized as an admin.")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, &u.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}
	if err := creds.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	u, err := s.store.GetUserByEmail(r.Context(), strings.TrimSpace(creds.Email))
	if errors.Is(err, store.ErrNotFound) {
		respondMessage(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		respondInternal(w, r, s.logger, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		respondMessage(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := s.tokens.issue(u.User)
	if err != nil {
		respondInternal(w, r, s.logger, fmt.Errorf("sign token: %w", err))
		return
	}
	s.logger.Info("admin login", "user_id", u.ID)
	respondJSON(w, http.StatusOK, model.AuthResponse{Token: token, User: u.User})
}
