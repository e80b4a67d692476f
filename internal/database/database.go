package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Tomlord1122/todo-by-zero/internal/config"
	"github.com/Tomlord1122/todo-by-zero/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Service exposes the GORM connection pool backing the postgres storage driver.
type Service interface {
	Health() map[string]string
	Migrate(ctx context.Context) error
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db   *gorm.DB
	logs *zap.SugaredLogger
	name string
}

// New opens the pool described by cfg.
func New(cfg config.Database, logs *zap.SugaredLogger) (Service, error) {
	gormLogger := logger.New(
		zap.NewStdLog(logs.Desugar()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &service{db: db, logs: logs, name: cfg.Database}, nil
}

// FromGorm wraps an already opened connection.
func FromGorm(db *gorm.DB, logs *zap.SugaredLogger) Service {
	return &service{db: db, logs: logs}
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Migrate creates or alters the users and todos tables.
func (s *service) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.Todo{}); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	return nil
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := map[string]string{"driver": config.DriverPostgres}
	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("failed to get underlying DB for health check: %v", err)
		s.logs.Errorw("getting db for health check", "error", err)
		return stats
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.logs.Errorw("db down", "error", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := sqlDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > 80 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	if dbStats.MaxIdleClosed > int64(dbStats.OpenConnections)/2 && dbStats.OpenConnections > dbStats.Idle {
		stats["message"] = "Many idle connections are being closed, consider revising the connection pool settings (MaxIdleConns, ConnMaxIdleTime)."
	}

	if dbStats.MaxLifetimeClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many connections are being closed due to max lifetime, consider increasing ConnMaxLifetime or revising the connection usage pattern."
	}

	return stats
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB: %w", err)
	}
	s.logs.Infow("closing connection pool", "database", s.name)
	return sqlDB.Close()
}
