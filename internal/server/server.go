package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Tomlord1122/todo-by-zero/internal/config"
	"github.com/Tomlord1122/todo-by-zero/internal/service"
	tokenIssuer "github.com/Tomlord1122/todo-by-zero/pkg/jwt"

	"go.uber.org/zap"
)

// HealthChecker reports the state of the store behind the custom routes.
type HealthChecker interface {
	Health() map[string]string
}

// TokenVerifier checks hosted access tokens locally before any round trip.
type TokenVerifier interface {
	Validate(token string) (*tokenIssuer.Claims, error)
}

// Dependencies are the collaborators the routes are served by. Dashboard and
// Tokens are optional.
type Dependencies struct {
	Logger    *zap.SugaredLogger
	Auth      *service.AuthService
	Todos     service.TodoService
	Dashboard *service.DashboardService
	Tokens    TokenVerifier
	Store     HealthChecker
}

type Server struct {
	port           int
	allowedOrigins []string
	cookieSecure   bool

	logs      *zap.SugaredLogger
	auth      *service.AuthService
	todos     service.TodoService
	dashboard *service.DashboardService
	tokens    TokenVerifier
	store     HealthChecker
}

func New(cfg config.App, deps Dependencies) *Server {
	return &Server{
		port:           cfg.Port,
		allowedOrigins: cfg.AllowedOrigins,
		cookieSecure:   cfg.CookieSecure,
		logs:           deps.Logger,
		auth:           deps.Auth,
		todos:          deps.Todos,
		dashboard:      deps.Dashboard,
		tokens:         deps.Tokens,
		store:          deps.Store,
	}
}

func NewServer(cfg config.App, deps Dependencies) *http.Server {
	appServer := New(cfg, deps)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
