// Package hostedtest runs an in-memory stand-in for the hosted backend. It
// implements the subset of the auth and rest contract the hosted client uses,
// with row-level ownership on the todos table.
package hostedtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Tomlord1122/todo-by-zero/internal/hosted"
	tokenIssuer "github.com/Tomlord1122/todo-by-zero/pkg/jwt"

	"github.com/google/uuid"
)

const (
	AnonKey   = "test-anon-key"
	JWTSecret = "test-jwt-secret"
)

type account struct {
	id       string
	email    string
	password string
}

type Server struct {
	*httptest.Server

	mu         sync.Mutex
	jwt        *tokenIssuer.JWTService
	accounts   map[string]*account
	todos      []hosted.Todo
	revoked    map[string]bool
	recoveries []string
	redirects  []string
	clock      time.Time
}

func NewServer() *Server {
	s := &Server{
		jwt:      tokenIssuer.NewJWTService([]byte(JWTSecret)),
		accounts: map[string]*account{},
		revoked:  map[string]bool{},
		clock:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", s.handleToken)
	mux.HandleFunc("GET /auth/v1/user", s.handleGetUser)
	mux.HandleFunc("PUT /auth/v1/user", s.handleUpdateUser)
	mux.HandleFunc("POST /auth/v1/logout", s.handleLogout)
	mux.HandleFunc("POST /auth/v1/recover", s.handleRecover)
	mux.HandleFunc("GET /rest/v1/todos", s.handleSelect)
	mux.HandleFunc("POST /rest/v1/todos", s.handleInsert)
	mux.HandleFunc("PATCH /rest/v1/todos", s.handleUpdate)
	mux.HandleFunc("DELETE /rest/v1/todos", s.handleDelete)

	s.Server = httptest.NewServer(s.requireAPIKey(mux))
	return s
}

// AddUser registers an account and returns its id.
func (s *Server) AddUser(email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &account{id: uuid.NewString(), email: email, password: password}
	s.accounts[email] = a
	return a.id
}

// Token issues an access token for an existing account without a password round trip.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[email]
	if !ok {
		panic(fmt.Sprintf("hostedtest: unknown account %q", email))
	}
	return s.issue(a, time.Hour)
}

// ExpiredToken issues a correctly signed token that expired an hour ago.
func (s *Server) ExpiredToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.issue(s.accounts[email], -time.Hour)
}

func (s *Server) Password(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.accounts[email]; ok {
		return a.password
	}
	return ""
}

func (s *Server) Recoveries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.recoveries...)
}

// RecoveryRedirects returns the redirect_to sent with each recovery request.
func (s *Server) RecoveryRedirects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.redirects...)
}

// Rows returns every stored todo regardless of owner.
func (s *Server) Rows() []hosted.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]hosted.Todo(nil), s.todos...)
}

func (s *Server) issue(a *account, ttl time.Duration) string {
	signed, err := s.jwt.Sign(s.jwt.Generate(tokenIssuer.TokenInfo{
		Subject:    a.id,
		Email:      a.email,
		Role:       "authenticated",
		Expiration: ttl,
	}))
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != AnonKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller resolves the bearer token to an account; the mutex must be held.
func (s *Server) caller(r *http.Request) (*account, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == AnonKey || s.revoked[token] {
		return nil, false
	}
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, false
	}
	for _, a := range s.accounts {
		if a.id == claims.Subject {
			return a, true
		}
	}
	return nil, false
}

func (s *Server) unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid JWT: unable to parse or verify signature"})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[creds.Email]
	if !ok || a.password != creds.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
		return
	}

	writeJSON(w, http.StatusOK, hosted.Session{
		AccessToken:  s.issue(a, time.Hour),
		TokenType:    "bearer",
		ExpiresIn:    3600,
		RefreshToken: uuid.NewString(),
		User:         hosted.User{ID: a.id, Email: a.email, Role: "authenticated"},
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.caller(r)
	if !ok {
		s.unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, hosted.User{ID: a.id, Email: a.email, Role: "authenticated"})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var attrs hosted.UserAttributes
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.caller(r)
	if !ok {
		s.unauthorized(w)
		return
	}
	if attrs.Password != "" {
		if utf8.RuneCountInString(attrs.Password) < 6 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": "Password should be at least 6 characters."})
			return
		}
		if attrs.Password == a.password {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": "New password should be different from the old password."})
			return
		}
		a.password = attrs.Password
	}
	writeJSON(w, http.StatusOK, hosted.User{ID: a.id, Email: a.email, Role: "authenticated"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.caller(r); !ok {
		s.unauthorized(w)
		return
	}
	s.revoked[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")] = true
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "email is required"})
		return
	}

	s.mu.Lock()
	s.recoveries = append(s.recoveries, body.Email)
	s.redirects = append(s.redirects, r.URL.Query().Get("redirect_to"))
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.caller(r)
	if !ok {
		s.unauthorized(w)
		return
	}

	rows := []hosted.Todo{}
	for _, t := range s.todos {
		if t.UserID == a.id {
			rows = append(rows, t)
		}
	}
	if strings.HasPrefix(r.URL.Query().Get("order"), "created_at.desc") {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].CreatedAt.After(rows[j].CreatedAt.Time)
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	inputs, err := decodeInputs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.caller(r)
	if !ok {
		s.unauthorized(w)
		return
	}

	created := make([]hosted.Todo, 0, len(inputs))
	for _, in := range inputs {
		if in.Title == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"message": `null value in column "title" violates not-null constraint`,
			})
			return
		}
		s.clock = s.clock.Add(time.Second)
		t := hosted.Todo{
			ID:        uuid.NewString(),
			UserID:    a.id,
			Title:     in.Title,
			Body:      in.Body,
			CreatedAt: hosted.Timestamp{Time: s.clock},
		}
		s.todos = append(s.todos, t)
		created = append(created, t)
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in hosted.TodoInput
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.caller(r)
	if !ok {
		s.unauthorized(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
	updated := []hosted.Todo{}
	for i := range s.todos {
		if s.todos[i].ID == id && s.todos[i].UserID == a.id {
			s.todos[i].Title = in.Title
			s.todos[i].Body = in.Body
			updated = append(updated, s.todos[i])
		}
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.caller(r)
	if !ok {
		s.unauthorized(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
	kept := s.todos[:0]
	deleted := []hosted.Todo{}
	for _, t := range s.todos {
		if t.ID == id && t.UserID == a.id {
			deleted = append(deleted, t)
			continue
		}
		kept = append(kept, t)
	}
	s.todos = kept
	if strings.Contains(r.Header.Get("Prefer"), "return=minimal") {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

// decodeInputs accepts a single row object or an array of rows.
func decodeInputs(r *http.Request) ([]hosted.TodoInput, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var in hosted.TodoInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return []hosted.TodoInput{in}, nil
	}
	var inputs []hosted.TodoInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
