package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Tenant     TenantConfig
	Solver     SolverConfig
	Projection ProjectionConfig
	Metrics    MetricsConfig
	Export     ExportConfig
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

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TenantConfig holds the tenant used when a request carries no token.
type TenantConfig struct {
	DefaultID string
}

// SolverConfig points at the external timetable solver.
type SolverConfig struct {
	Enabled bool
	BaseURL string
	Timeout time.Duration
}

// ProjectionConfig tunes cell text budgets for timetable views.
type ProjectionConfig struct {
	NameBudget     int
	TitleBudget    int
	HomeroomBudget int
}

// ExportConfig tunes file exports.
type ExportConfig struct {
	PDFFontPath string
	CSVWithBOM  bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

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
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Tenant = TenantConfig{DefaultID: strings.TrimSpace(v.GetString("TENANT_DEFAULT_ID"))}

	cfg.Solver = SolverConfig{
		Enabled: v.GetBool("ENABLE_SOLVER"),
		BaseURL: strings.TrimRight(v.GetString("SOLVER_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("SOLVER_TIMEOUT"), 60*time.Second),
	}

	cfg.Projection = ProjectionConfig{
		NameBudget:     positiveOr(v.GetInt("PROJECTION_NAME_BUDGET"), 6),
		TitleBudget:    positiveOr(v.GetInt("PROJECTION_TITLE_BUDGET"), 8),
		HomeroomBudget: positiveOr(v.GetInt("PROJECTION_HOMEROOM_BUDGET"), 8),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Export = ExportConfig{
		PDFFontPath: strings.TrimSpace(v.GetString("EXPORT_PDF_FONT")),
		CSVWithBOM:  v.GetBool("EXPORT_CSV_BOM"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TENANT_DEFAULT_ID", "default")

	v.SetDefault("ENABLE_SOLVER", false)
	v.SetDefault("SOLVER_BASE_URL", "http://localhost:8000")
	v.SetDefault("SOLVER_TIMEOUT", "60s")

	v.SetDefault("PROJECTION_NAME_BUDGET", 6)
	v.SetDefault("PROJECTION_TITLE_BUDGET", 8)
	v.SetDefault("PROJECTION_HOMEROOM_BUDGET", 8)

	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("EXPORT_PDF_FONT", "")
	v.SetDefault("EXPORT_CSV_BOM", true)
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

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
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
