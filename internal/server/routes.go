package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)

	r.Get("/health", s.healthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.registerHandler)
		r.Post("/login", s.loginHandler)
		r.Post("/forgot-password", s.forgotPasswordHandler)
		r.Post("/logout", s.logoutHandler)
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/", s.createTodoHandler)
		r.Get("/", s.listTodosHandler)
		r.Get("/{id}", s.getTodoByIDHandler)
		r.Put("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	if s.dashboard != nil {
		r.Route("/dashboard", func(r chi.Router) {
			r.Post("/session", s.dashboardSignInHandler)
			r.Post("/reset-password", s.resetPasswordHandler)

			r.Group(func(r chi.Router) {
				r.Use(s.requireSession)
				r.Get("/user", s.dashboardUserHandler)
				r.Get("/todos", s.dashboardListHandler)
				r.Post("/todos", s.dashboardAddHandler)
				r.Put("/todos/{id}", s.dashboardUpdateHandler)
				r.Delete("/todos/{id}", s.dashboardDeleteHandler)
				r.Post("/sign-out", s.dashboardSignOutHandler)
			})
		})
	}

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World from Todo by Zero!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.store.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}
