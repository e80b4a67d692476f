package server

import (
	"errors"
	"net/http"

	"github.com/Tomlord1122/todo-by-zero/internal/service"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	registerRoute       = "POST /auth/register"
	loginRoute          = "POST /auth/login"
	forgotPasswordRoute = "POST /auth/forgot-password"
)

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req service.RegisterRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Message)
		case errors.Is(err, service.ErrUserExists):
			respondWithError(w, http.StatusBadRequest, "User already exists")
		default:
			s.logs.Errorw("registration failed",
				"error", err,
				"handler", registerRoute,
				"request_id", requestID)
			respondWithError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	s.setRegisterCookie(w, user.ID)
	respondWithJSON(w, http.StatusOK, success)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req service.LoginRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := s.auth.Login(r.Context(), req)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Message)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			s.logs.Errorw("login failed",
				"error", err,
				"handler", loginRoute,
				"request_id", requestID)
			respondWithError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	s.setLoginCookie(w, user.ID)
	respondWithJSON(w, http.StatusOK, success)
}

func (s *Server) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req service.ForgotPasswordRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.auth.ForgotPassword(r.Context(), req); err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			respondWithError(w, http.StatusBadRequest, vErr.Message)
			return
		}
		s.logs.Errorw("password reset request failed",
			"error", err,
			"handler", forgotPasswordRoute,
			"request_id", requestID)
		respondWithError(w, http.StatusInternalServerError, "Request failed")
		return
	}

	respondWithJSON(w, http.StatusOK, success)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.clearCookie(w)
	respondWithJSON(w, http.StatusOK, success)
}
