package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/patrocinios/internal/entity"
)

const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendRedis     = "redis"
)

type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
	}
	Store struct {
		Backend    string
		Timeout    time.Duration
		Collection string
	}
	DatabaseURL string
	Firestore   struct {
		ProjectID string
		APIKey    string
		BaseURL   string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	RabbitMQURL string
	Mail        struct {
		Host     string
		Port     int
		User     string
		Password string
		From     string
	}
	SessionIdleTTL time.Duration
	Log            struct {
		Level  string
		Format string
	}
}

// Load lê as variáveis de ambiente (o .env já deve ter sido carregado) e
// valida as combinações obrigatórias do backend escolhido.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))

	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", BackendMemory))
	cfg.Store.Timeout = parseDuration(getEnv("STORE_TIMEOUT", "10s"), 10*time.Second)
	cfg.Store.Collection = getEnv("SPONSORS_COLLECTION", entity.DefaultSponsorsCollection)

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")

	cfg.Firestore.ProjectID = getEnv("FIRESTORE_PROJECT_ID", "")
	cfg.Firestore.APIKey = getEnv("FIRESTORE_API_KEY", "")
	cfg.Firestore.BaseURL = getEnv("FIRESTORE_BASE_URL", "")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", "")

	cfg.Mail.Host = getEnv("MAIL_HOST", "")
	cfg.Mail.Port = parseInt(getEnv("MAIL_PORT", "587"), 587)
	cfg.Mail.User = getEnv("MAIL_USER", "")
	cfg.Mail.Password = getEnv("MAIL_PASS", "")
	cfg.Mail.From = getEnv("MAIL_FROM", cfg.Mail.User)

	cfg.SessionIdleTTL = parseDuration(getEnv("SESSION_IDLE_TTL", "12h"), 12*time.Hour)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("STORE_BACKEND=firestore exige FIRESTORE_PROJECT_ID")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres exige DATABASE_URL")
		}
	default:
		return fmt.Errorf("STORE_BACKEND inválido: %q", c.Store.Backend)
	}
	return nil
}

// MailEnabled indica se o envio de dossier está configurado.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != "" && c.Mail.From != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
