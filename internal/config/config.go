package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Port        string
	Env         string
	InstanceID  string
	JWTSecret   string
	CORSOrigins []string

	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	Kafka    KafkaConfig

	LobbyIdleTTL       time.Duration
	LobbySweepInterval time.Duration
}

type DatabaseConfig struct {
	Type     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	TLS      bool
}

type AIConfig struct {
	URL         string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func Load() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	aiTimeout, err := getEnvDuration("AI_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	temperature, err := getEnvFloat("AI_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}
	maxTokens, err := getEnvInt("AI_MAX_TOKENS", 8192)
	if err != nil {
		return nil, err
	}
	idleTTL, err := getEnvDuration("LOBBY_IDLE_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	sweepEvery, err := getEnvDuration("LOBBY_SWEEP_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "production"),
		InstanceID:  getEnv("INSTANCE_ID", uuid.NewString()),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		Database: DatabaseConfig{
			Type:     strings.ToLower(getEnv("DB_TYPE", "postgres")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "codeclash"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "codeclash.db"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Username: os.Getenv("REDIS_USERNAME"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TLS:      os.Getenv("REDIS_TLS") == "true",
		},
		AI: AIConfig{
			URL:         getEnv("AI_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
			APIKey:      os.Getenv("AI_API_KEY"),
			Model:       getEnv("AI_MODEL", "llama-3.3-70b-versatile"),
			Timeout:     aiTimeout,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "match-events"),
		},
		LobbyIdleTTL:       idleTTL,
		LobbySweepInterval: sweepEvery,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.Database.Type)
	}
	if c.AI.MaxTokens <= 0 {
		return errors.New("AI_MAX_TOKENS must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
