package server

import (
	"errors"
	"net/http"

	"github.com/Tomlord1122/todo-by-zero/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	listTodosRoute  = "GET /todos"
	createTodoRoute = "POST /todos"
	getTodoRoute    = "GET /todos/{id}"
	updateTodoRoute = "PUT /todos/{id}"
	deleteTodoRoute = "DELETE /todos/{id}"
)

type todoEnvelope struct {
	Todo *service.TodoResponse `json:"todo"`
}

type todosEnvelope struct {
	Todos []service.TodoResponse `json:"todos"`
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todos.ListTodos(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.todoError(w, r, err, listTodosRoute, "Failed to fetch todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todosEnvelope{Todos: todos})
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	todo, err := s.todos.CreateTodo(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		s.todoError(w, r, err, createTodoRoute, "Failed to create todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todoEnvelope{Todo: todo})
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	todo, err := s.todos.GetTodoByID(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.todoError(w, r, err, getTodoRoute, "Failed to fetch todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todoEnvelope{Todo: todo})
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateTodoRequest
	if msg, err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	todo, err := s.todos.UpdateTodo(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		s.todoError(w, r, err, updateTodoRoute, "Failed to update todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todoEnvelope{Todo: todo})
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.todos.DeleteTodo(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.todoError(w, r, err, deleteTodoRoute, "Failed to delete todo")
		return
	}

	respondWithJSON(w, http.StatusOK, success)
}

func (s *Server) todoError(w http.ResponseWriter, r *http.Request, err error, handler, fallback string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrTodoNotFound):
		respondWithError(w, http.StatusNotFound, "Todo not found")
	default:
		s.logs.Errorw("todo request failed",
			"error", err,
			"handler", handler,
			"request_id", middleware.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
