package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	QuestionsPath   string
	PlanPath        string
	ResultsDir      string
	LogLevel        string
	PushWorkerCount int
	PushQueueSize   int
	GitHubOwner     string
	GitHubRepo      string
	GitHubToken     string
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:assessments.db"),
		QuestionsPath:   envOr("QUESTIONS_PATH", "merged_file.json"),
		PlanPath:        envOr("PLAN_PATH", "plan.yaml"),
		ResultsDir:      envOr("RESULTS_DIR", "results"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		PushWorkerCount: envIntOr("PUSH_WORKER_COUNT", 1),
		PushQueueSize:   envIntOr("PUSH_QUEUE_SIZE", 32),
		GitHubOwner:     envOr("GITHUB_OWNER", ""),
		GitHubRepo:      envOr("GITHUB_REPO", ""),
		GitHubToken:     envOr("GITHUB_TOKEN", ""),
	}
}

// Validate checks that the configuration is usable. The GitHub settings are
// optional; when any of them is empty the mirror is simply disabled.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.QuestionsPath == "" {
		problems = append(problems, "QUESTIONS_PATH cannot be empty")
	}
	if c.PlanPath == "" {
		problems = append(problems, "PLAN_PATH cannot be empty")
	}
	if c.ResultsDir == "" {
		problems = append(problems, "RESULTS_DIR cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG/INFO/WARN/ERROR", c.LogLevel))
	}
	if c.PushWorkerCount <= 0 {
		problems = append(problems, "PUSH_WORKER_COUNT must be positive")
	}
	if c.PushQueueSize <= 0 {
		problems = append(problems, "PUSH_QUEUE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
