package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultServiceName      = "teashop"
	DefaultDatabaseURL      = "site.db"
	DefaultOrderEventsTopic = "order_events"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	LogLevel string

	KafkaBrokers     []string
	OrderEventsTopic string
}

// LoadEnvFile reads path into the process environment. A missing file is not
// an error: the service then runs on plain environment variables.
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v. Using system environment variables", path, err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", DefaultServiceName),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: EnvDefault("DATABASE_URL", DefaultDatabaseURL),

		LogLevel: os.Getenv("LOG_LEVEL"),

		KafkaBrokers:     CSV(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic: EnvDefault("ORDER_EVENTS_TOPIC", DefaultOrderEventsTopic),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
