package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Responder ResponderConfig
	Probe     ProbeConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type ResponderConfig struct {
	WsLogFilePath  string
	MaxMessageSize int
	PongWait       time.Duration
	WriteWait      time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

// ProbeConfig holds the literal endpoints and seed the probe CLI talks to.
type ProbeConfig struct {
	ServerURL  string
	DecryptURL string
	UserSeed   string
	SecretName string
	Input      string
}

// DefaultMaxMessageSize is the largest inbound frame accepted on /qa (16 MiB).
const DefaultMaxMessageSize = 16 * 1024 * 1024

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Responder: ResponderConfig{
			WsLogFilePath:  getEnv("WS_LOG_FILE_PATH", "logs/responder.log"),
			MaxMessageSize: getEnvAsInt("WS_MAX_MESSAGE_SIZE", DefaultMaxMessageSize),
			PongWait:       getEnvAsDuration("WS_PONG_WAIT", 60*time.Second),
			WriteWait:      getEnvAsDuration("WS_WRITE_WAIT", 10*time.Second),
		},
		Probe: ProbeConfig{
			ServerURL:  getEnv("PROBE_SERVER_URL", "http://localhost:5000/api/chat"),
			DecryptURL: getEnv("PROBE_DECRYPT_URL", "https://nillion-storage-apis-v0.onrender.com/api/secret/retrieve"),
			UserSeed:   getEnv("PROBE_USER_SEED", "example_secret_seed"),
			SecretName: getEnv("PROBE_SECRET_NAME", "encrypted_response"),
			Input:      getEnv("PROBE_INPUT", "What is the capital of France?"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "markov-qa-responder"),
			Environment: getEnv("GO_ENV", "development"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}

// getEnvAsDuration ignores zero and negative values; tickers and deadlines need a positive span.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
