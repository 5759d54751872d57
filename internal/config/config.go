// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/iyunix/go-chatfront/internal/domain"
)

const (
	// LocalAPIBase is used when the front-end runs on localhost.
	LocalAPIBase = "http://localhost:4000/api"
	// RelativeAPIBase is the application-relative fallback.
	RelativeAPIBase = "/api"
)

type Config struct {
	// Front-end
	APIBaseOverride string // CHAT_API_BASE, the only base URL override
	WebPort         string

	// Reference API server
	ServerPort         string
	DBPath             string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	Models             []domain.Model
	AllowedOrigins     []string
	SendLimitPerMinute int

	Environment string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("GO_ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	return &Config{
		APIBaseOverride:    getEnv("CHAT_API_BASE", ""),
		WebPort:            getEnv("WEB_PORT", "8090"),
		ServerPort:         getEnv("SERVER_PORT", "4000"),
		DBPath:             getEnv("DB_PATH", "chat.db"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		Models:             ParseModels(getEnv("CHAT_MODELS", "echo=Echo")),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8090")),
		SendLimitPerMinute: getEnvAsInt("SEND_LIMIT_PER_MINUTE", 30),
		Environment:        env,
	}
}

// ResolveBaseURL picks the API base once at startup: the override when set,
// the local development endpoint when running on localhost, otherwise the
// application-relative path. A trailing slash is stripped.
func ResolveBaseURL(override, hostname string) string {
	base := strings.TrimSpace(override)
	if base == "" {
		if hostname == "localhost" {
			base = LocalAPIBase
		} else {
			base = RelativeAPIBase
		}
	}
	return strings.TrimSuffix(base, "/")
}

// Hostname is the running host, as ResolveBaseURL expects it.
func Hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}
	return h
}

// ParseModels reads a comma separated "id=Name" list. Entries without a name
// use the id for both.
func ParseModels(s string) []domain.Model {
	var models []domain.Model
	for _, entry := range splitList(s) {
		id, name, found := strings.Cut(entry, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		name = strings.TrimSpace(name)
		if !found || name == "" {
			name = id
		}
		models = append(models, domain.Model{ID: id, Name: name})
	}
	return models
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
