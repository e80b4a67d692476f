package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

var errInvalidEnvVar error = errors.New("invalid environment variable")

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

const (
	portEnvKey          = "PORT"
	logLevelEnvKey      = "LOG_LEVEL"
	storageDriverEnvKey = "STORAGE_DRIVER"
	dataDirEnvKey       = "DATA_DIR"
	corsOriginsEnvKey   = "CORS_ALLOWED_ORIGINS"
	cookieSecureEnvKey  = "COOKIE_SECURE"

	dbHostEnvKey     = "BLUEPRINT_DB_HOST"
	dbPortEnvKey     = "BLUEPRINT_DB_PORT"
	dbDatabaseEnvKey = "BLUEPRINT_DB_DATABASE"
	dbUsernameEnvKey = "BLUEPRINT_DB_USERNAME"
	dbPasswordEnvKey = "BLUEPRINT_DB_PASSWORD"
	dbSchemaEnvKey   = "BLUEPRINT_DB_SCHEMA"

	hostedURLEnvKey       = "SUPABASE_URL"
	hostedAnonKeyEnvKey   = "SUPABASE_ANON_KEY"
	hostedJWTSecretEnvKey = "SUPABASE_JWT_SECRET"
	resetRedirectEnvKey   = "PASSWORD_RESET_REDIRECT_URL"
)

type Database struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
}

// DSN renders the keyword/value connection string understood by pgx.
func (d Database) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.Username, d.Password, d.Database, d.Port)
	if d.Schema != "" {
		dsn += " search_path=" + d.Schema
	}
	return dsn
}

// Hosted holds the settings of the hosted database/auth service used by the dashboard.
type Hosted struct {
	URL              string
	AnonKey          string
	JWTSecret        string
	ResetRedirectURL string
}

// Enabled reports whether the dashboard routes should be mounted.
func (h Hosted) Enabled() bool {
	return h.URL != "" && h.AnonKey != ""
}

type App struct {
	Port           int
	LogLevel       string
	StorageDriver  string
	DataDir        string
	AllowedOrigins []string
	CookieSecure   bool
	Database       Database
	Hosted         Hosted
}

func NewApp() (App, error) {
	port, err := intEnv(portEnvKey, 8080)
	if err != nil {
		return App{}, err
	}

	cookieSecure, err := boolEnv(cookieSecureEnvKey, false)
	if err != nil {
		return App{}, err
	}

	app := App{
		Port:           port,
		LogLevel:       stringEnv(logLevelEnvKey, "info"),
		StorageDriver:  strings.ToLower(stringEnv(storageDriverEnvKey, DriverFile)),
		DataDir:        stringEnv(dataDirEnvKey, "data"),
		AllowedOrigins: listEnv(corsOriginsEnvKey, []string{"https://*", "http://*"}),
		CookieSecure:   cookieSecure,
		Database: Database{
			Host:     stringEnv(dbHostEnvKey, ""),
			Port:     stringEnv(dbPortEnvKey, "5432"),
			Database: stringEnv(dbDatabaseEnvKey, ""),
			Username: stringEnv(dbUsernameEnvKey, ""),
			Password: stringEnv(dbPasswordEnvKey, ""),
			Schema:   stringEnv(dbSchemaEnvKey, ""),
		},
		Hosted: Hosted{
			URL:              strings.TrimRight(stringEnv(hostedURLEnvKey, ""), "/"),
			AnonKey:          stringEnv(hostedAnonKeyEnvKey, ""),
			JWTSecret:        stringEnv(hostedJWTSecretEnvKey, ""),
			ResetRedirectURL: stringEnv(resetRedirectEnvKey, ""),
		},
	}

	if err := app.Validate(); err != nil {
		return App{}, fmt.Errorf("validate config: %w", err)
	}

	return app, nil
}

func (a App) Validate() error {
	usesPostgres := a.StorageDriver == DriverPostgres

	err := validation.ValidateStruct(&a,
		validation.Field(&a.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&a.StorageDriver, validation.Required, validation.In(DriverFile, DriverPostgres)),
		validation.Field(&a.DataDir, validation.When(!usesPostgres, validation.Required)),
	)
	if err != nil {
		return err
	}

	if usesPostgres {
		db := a.Database
		err = validation.ValidateStruct(&db,
			validation.Field(&db.Host, validation.Required),
			validation.Field(&db.Port, validation.Required, is.Port),
			validation.Field(&db.Database, validation.Required),
			validation.Field(&db.Username, validation.Required),
		)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if a.Hosted.URL != "" {
		hosted := a.Hosted
		err = validation.ValidateStruct(&hosted,
			validation.Field(&hosted.URL, is.URL),
			validation.Field(&hosted.AnonKey, validation.Required),
		)
		if err != nil {
			return fmt.Errorf("hosted: %w", err)
		}
	}

	return nil
}

func stringEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func intEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errInvalidEnvVar, key, v)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", errInvalidEnvVar, key, v)
	}
	return b, nil
}

func listEnv(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
