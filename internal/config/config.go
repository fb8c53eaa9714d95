package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	LogLevel   string

	DatabaseURL string

	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	RedisAddr     string
	RedisPassword string

	KafkaBrokers      []string
	ResetTopic        string
	ResetPasswordLink string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPublicURL string
	MinioUseSSL    bool

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServerPort: EnvDefault("SERVER_PORT", "8080"),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		AccessTokenTTL:  time.Duration(EnvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
		RefreshTokenTTL: time.Duration(EnvIntDefault("REFRESH_TOKEN_EXPIRE_MINUTES", 7*24*60)) * time.Minute,
		ResetTokenTTL:   time.Duration(EnvIntDefault("RESET_PASSWORD_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,

		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers:      CSV(os.Getenv("KAFKA_BROKERS")),
		ResetTopic:        EnvDefault("RESET_PASSWORD_TOPIC", "password_reset"),
		ResetPasswordLink: EnvDefault("RESET_PASSWORD_LINK", "http://localhost:8080/auth/reset-password"),

		MinioEndpoint:  os.Getenv("MINIO_URL"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    EnvDefault("MINIO_BUCKET_NAME", "library"),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		MinioUseSSL:    EnvBoolDefault("MINIO_USE_SSL", false),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_BOOKS_INDEX", "books"),
	}

	return cfg
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

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
