package server

import (
	"errors"
	"net/http"

	"github.com/Tomlord1122/todo-by-zero/internal/hosted"
	"github.com/Tomlord1122/todo-by-zero/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	dashboardSessionRoute = "POST /dashboard/session"
	dashboardUserRoute    = "GET /dashboard/user"
	dashboardListRoute    = "GET /dashboard/todos"
	dashboardAddRoute     = "POST /dashboard/todos"
	dashboardUpdateRoute  = "PUT /dashboard/todos/{id}"
	dashboardDeleteRoute  = "DELETE /dashboard/todos/{id}"
	dashboardSignOutRoute = "POST /dashboard/sign-out"
	resetPasswordRoute    = "POST /dashboard/reset-password"

	resetLinkExpiredMessage = "Invalid or expired reset link. Please request a new one."
)

func (s *Server) dashboardSignInHandler(w http.ResponseWriter, r *http.Request) {
	var req service.SignInRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	session, err := s.dashboard.SignIn(r.Context(), req)
	if err != nil {
		s.dashboardError(w, r, err, dashboardSessionRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]*hosted.Session{"session": session})
}

func (s *Server) dashboardUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.dashboard.CurrentUser(r.Context(), accessTokenFrom(r.Context()))
	if err != nil {
		s.dashboardError(w, r, err, dashboardUserRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]*hosted.User{"user": user})
}

func (s *Server) dashboardListHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.dashboard.ListTodos(r.Context(), accessTokenFrom(r.Context()))
	if err != nil {
		s.dashboardError(w, r, err, dashboardListRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]hosted.Todo{"todos": todos})
}

func (s *Server) dashboardAddHandler(w http.ResponseWriter, r *http.Request) {
	var req service.DashboardTodoRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	todo, err := s.dashboard.AddTodo(r.Context(), accessTokenFrom(r.Context()), req)
	if err != nil {
		s.dashboardError(w, r, err, dashboardAddRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]*hosted.Todo{"todo": todo})
}

func (s *Server) dashboardUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req service.DashboardTodoRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	todo, err := s.dashboard.UpdateTodo(r.Context(), accessTokenFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		s.dashboardError(w, r, err, dashboardUpdateRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]*hosted.Todo{"todo": todo})
}

func (s *Server) dashboardDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.DeleteTodo(r.Context(), accessTokenFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.dashboardError(w, r, err, dashboardDeleteRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, success)
}

func (s *Server) dashboardSignOutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.SignOut(r.Context(), accessTokenFrom(r.Context())); err != nil {
		s.dashboardError(w, r, err, dashboardSignOutRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, success)
}

// resetPasswordHandler checks the recovery session itself so that a missing
// or expired one gets the reset specific message.
func (s *Server) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	token, valid := s.sessionToken(r)
	if !valid {
		respondWithError(w, http.StatusUnauthorized, resetLinkExpiredMessage)
		return
	}

	var req service.ResetPasswordRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.dashboard.ResetPassword(r.Context(), token, req); err != nil {
		s.dashboardError(w, r, err, resetPasswordRoute)
		return
	}

	respondWithJSON(w, http.StatusOK, success)
}

// dashboardError passes hosted client errors through and maps everything the
// hosted backend could not answer to 502.
func (s *Server) dashboardError(w http.ResponseWriter, r *http.Request, err error, handler string) {
	var vErr *service.ValidationError
	var apiErr *hosted.APIError
	switch {
	case errors.As(err, &vErr):
		respondWithError(w, http.StatusBadRequest, vErr.Message)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case errors.Is(err, service.ErrResetLinkExpired):
		respondWithError(w, http.StatusUnauthorized, resetLinkExpiredMessage)
		return
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	case errors.Is(err, service.ErrTodoNotFound):
		respondWithError(w, http.StatusNotFound, "Todo not found")
		return
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		respondWithError(w, apiErr.StatusCode, apiErr.Message)
		return
	}

	s.logs.Errorw("hosted backend request failed",
		"error", err,
		"handler", handler,
		"request_id", middleware.GetReqID(r.Context()))

	message := "Request failed"
	if apiErr != nil {
		message = apiErr.Message
	}
	respondWithError(w, http.StatusBadGateway, message)
}
