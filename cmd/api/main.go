package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/todo-by-zero/internal/config"
	"github.com/Tomlord1122/todo-by-zero/internal/database"
	"github.com/Tomlord1122/todo-by-zero/internal/filestore"
	"github.com/Tomlord1122/todo-by-zero/internal/hosted"
	"github.com/Tomlord1122/todo-by-zero/internal/repository"
	"github.com/Tomlord1122/todo-by-zero/internal/server"
	"github.com/Tomlord1122/todo-by-zero/internal/service"
	"github.com/Tomlord1122/todo-by-zero/pkg/jwt"
	"github.com/Tomlord1122/todo-by-zero/pkg/log"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
)

const serviceName = "todo-by-zero"

// store is the persistence behind the custom routes.
type store interface {
	Health() map[string]string
	Close() error
}

func gracefulShutdown(logger *zap.SugaredLogger, apiServer *http.Server, st store, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Infow("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Errorw("server forced to shutdown", "error", err)
	}

	if err := st.Close(); err != nil {
		logger.Errorw("closing store", "error", err)
	}

	logger.Infow("server exiting")
	done <- true
}

func openStorage(ctx context.Context, cfg config.App, logger *zap.SugaredLogger) (repository.UserRepository, repository.TodoRepository, store, error) {
	if cfg.StorageDriver == config.DriverPostgres {
		dbService, err := database.New(cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := dbService.Migrate(ctx); err != nil {
			_ = dbService.Close()
			return nil, nil, nil, err
		}
		gormDB := dbService.GetDB()
		return repository.NewGormUserRepository(gormDB), repository.NewGormTodoRepository(gormDB), dbService, nil
	}

	health := filestore.NewHealth(cfg.DataDir, repository.UsersTable, repository.TodosTable)
	return repository.NewFileUserRepository(cfg.DataDir), repository.NewFileTodoRepository(cfg.DataDir), health, nil
}

func main() {
	logger := log.NewZapLogger(serviceName, zapcore.InfoLevel)

	cfg, err := config.NewApp()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	logger = log.NewZapLogger(serviceName, log.ParseLevel(cfg.LogLevel))
	defer func() { _ = logger.Sync() }()

	users, todos, st, err := openStorage(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalw("failed to open storage", "error", err, "driver", cfg.StorageDriver)
	}
	logger.Infow("storage ready", "driver", cfg.StorageDriver)

	deps := server.Dependencies{
		Logger: logger,
		Todos:  service.NewTodoService(logger, todos),
		Store:  st,
	}

	var recoverer service.PasswordRecoverer
	if cfg.Hosted.Enabled() {
		client := hosted.NewClient(cfg.Hosted.URL, cfg.Hosted.AnonKey)
		recoverer = client
		deps.Dashboard = service.NewDashboardService(logger, client)
		if cfg.Hosted.JWTSecret != "" {
			deps.Tokens = jwt.NewJWTService([]byte(cfg.Hosted.JWTSecret))
		}
		logger.Infow("dashboard routes enabled", "hosted_url", cfg.Hosted.URL, "local_token_check", deps.Tokens != nil)
	}
	deps.Auth = service.NewAuthService(logger, users, service.NewPasswordHasher(bcrypt.DefaultCost), recoverer, cfg.Hosted.ResetRedirectURL)

	apiServer := server.NewServer(cfg, deps)

	done := make(chan bool, 1)
	go gracefulShutdown(logger, apiServer, st, done)

	logger.Infow("starting server", "addr", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("http server error", "error", err)
	}

	<-done
	logger.Infow("graceful shutdown complete")
}
