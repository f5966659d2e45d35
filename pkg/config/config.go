package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Settings store backends.
const (
	SettingsStoreFile     = "file"
	SettingsStoreRedis    = "redis"
	SettingsStorePostgres = "postgres"
	SettingsStoreMemory   = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Backend  BackendConfig
	Settings SettingsConfig
	Catalog  CatalogConfig
	Console  ConsoleConfig
	Exports  ExportsConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
}

// BackendConfig points the console at the remote fee/activity service.
type BackendConfig struct {
	BaseURL string
	// Timeout of zero leaves remote calls unbounded.
	Timeout time.Duration
}

// SettingsConfig selects where theme, term and token are persisted.
type SettingsConfig struct {
	Store       string
	FileDir     string
	RedisPrefix string
	DefaultTerm string
}

// CatalogConfig carries the fixed enumerations the console is parameterised with.
type CatalogConfig struct {
	Terms      []string
	GradeCount int
	FeeTarget  int64
	Currency   string
	Activities []ActivityEntry
}

// ActivityEntry is a single activity in the configured catalog.
type ActivityEntry struct {
	ID   int64
	Name string
	Fee  int64
}

// ConsoleConfig tunes per-view state containers.
type ConsoleConfig struct {
	NotificationBuffer int
	MaxViews           int
}

// ExportsConfig controls where rendered exports are written.
type ExportsConfig struct {
	Dir string
	// Keep bounds archived report files; zero keeps all of them.
	Keep int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DefaultActivityCatalog mirrors the activity ids stored by the fee service.
const DefaultActivityCatalog = "4:Drama Club:1000,5:Music Club:1200,6:Football Club:800,7:Chess Club:600,8:Debate Club:700,9:Badminton:900,10:Swimming:1500"

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 0),
	}

	cfg.Settings = SettingsConfig{
		Store:       strings.ToLower(strings.TrimSpace(v.GetString("SETTINGS_STORE"))),
		FileDir:     v.GetString("SETTINGS_FILE_DIR"),
		RedisPrefix: v.GetString("SETTINGS_REDIS_PREFIX"),
		DefaultTerm: v.GetString("DEFAULT_TERM"),
	}

	activities, err := ParseActivityCatalog(v.GetString("ACTIVITY_CATALOG"))
	if err != nil {
		return nil, err
	}
	cfg.Catalog = CatalogConfig{
		Terms:      splitAndTrim(v.GetString("TERMS")),
		GradeCount: v.GetInt("GRADE_COUNT"),
		FeeTarget:  v.GetInt64("FEE_TARGET"),
		Currency:   v.GetString("CURRENCY"),
		Activities: activities,
	}
	if err := validateCatalog(cfg.Catalog, cfg.Settings.DefaultTerm); err != nil {
		return nil, err
	}

	cfg.Console = ConsoleConfig{
		NotificationBuffer: v.GetInt("NOTIFICATION_BUFFER"),
		MaxViews:           v.GetInt("MAX_VIEWS"),
	}

	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR"), Keep: v.GetInt("EXPORTS_KEEP")}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("BACKEND_BASE_URL", "https://backendd-8.onrender.com")
	v.SetDefault("BACKEND_TIMEOUT", "0s")

	v.SetDefault("SETTINGS_STORE", SettingsStoreFile)
	v.SetDefault("SETTINGS_FILE_DIR", "./data")
	v.SetDefault("SETTINGS_REDIS_PREFIX", "fee-console:settings:")
	v.SetDefault("DEFAULT_TERM", "Term 1")

	v.SetDefault("TERMS", "Term 1,Term 2,Term 3")
	v.SetDefault("GRADE_COUNT", 12)
	v.SetDefault("FEE_TARGET", 50000)
	v.SetDefault("CURRENCY", "KES")
	v.SetDefault("ACTIVITY_CATALOG", DefaultActivityCatalog)

	v.SetDefault("NOTIFICATION_BUFFER", 50)
	v.SetDefault("MAX_VIEWS", 256)
	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_KEEP", 20)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fee_console")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// ParseActivityCatalog reads "id:name:fee" entries separated by commas.
func ParseActivityCatalog(raw string) ([]ActivityEntry, error) {
	parts := splitAndTrim(raw)
	entries := make([]ActivityEntry, 0, len(parts))
	for _, part := range parts {
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, errors.New("activity catalog entry must be id:name:fee: " + part)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
		if err != nil {
			return nil, errors.New("invalid activity id in catalog entry: " + part)
		}
		fee, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return nil, errors.New("invalid activity fee in catalog entry: " + part)
		}
		name := strings.TrimSpace(fields[1])
		if name == "" {
			return nil, errors.New("activity name missing in catalog entry: " + part)
		}
		entries = append(entries, ActivityEntry{ID: id, Name: name, Fee: fee})
	}
	return entries, nil
}

func validateCatalog(catalog CatalogConfig, defaultTerm string) error {
	if catalog.GradeCount <= 0 {
		return fmt.Errorf("GRADE_COUNT must be positive, got %d", catalog.GradeCount)
	}
	if catalog.FeeTarget <= 0 {
		return fmt.Errorf("FEE_TARGET must be positive, got %d", catalog.FeeTarget)
	}
	if len(catalog.Terms) == 0 || defaultTerm == "" {
		return nil
	}
	for _, term := range catalog.Terms {
		if term == defaultTerm {
			return nil
		}
	}
	return fmt.Errorf("DEFAULT_TERM %q is not one of TERMS %v", defaultTerm, catalog.Terms)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
