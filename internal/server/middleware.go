package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const identityCookie = "userId"

type contextKey string

const (
	userIDKey      contextKey = "user_id"
	accessTokenKey contextKey = "access_token"
)

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logs.Infow("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}

// requireUser resolves the identity cookie. The value is trusted as is.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(identityCookie)
		if err != nil || cookie.Value == "" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireSession resolves the bearer token of a hosted session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := s.sessionToken(r)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), accessTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// sessionToken extracts the bearer token and, when a verifier is configured,
// checks its signature and expiry.
func (s *Server) sessionToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	if s.tokens != nil {
		if _, err := s.tokens.Validate(token); err != nil {
			s.logs.Infow("rejected access token",
				"error", err,
				"request_id", middleware.GetReqID(r.Context()))
			return "", false
		}
	}
	return token, true
}
