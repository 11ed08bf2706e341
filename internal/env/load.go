package env

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Cache backends selectable with CACHE_BACKEND.
const (
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Backend         string `validate:"required,oneof=file s3 postgres"`
	CacheDir        string `validate:"required"`
	DefaultTimezone string `validate:"required,timezone"`

	MinioEndpoint  string `validate:"required_if=Backend s3"`
	MinioAccessKey string `validate:"required_if=Backend s3"`
	MinioSecretKey string `validate:"required_if=Backend s3"`
	MinioUseSSL    bool
	CacheBucket    string `validate:"required_if=Backend s3"`

	DatabaseURL string `validate:"required_if=Backend postgres"`

	KafkaBroker  string
	KafkaTopic   string
	KafkaGroupID string
}

// ValidationError names the environment variable behind an invalid field.
type ValidationError struct {
	Variable string
	Rule     string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: failed %q", v.Variable, v.Rule)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

var variables = map[string]string{
	"Backend":         "CACHE_BACKEND",
	"CacheDir":        "CACHE_DIR",
	"DefaultTimezone": "DEFAULT_TIMEZONE",
	"MinioEndpoint":   "MINIO_ENDPOINT",
	"MinioAccessKey":  "MINIO_ACCESS_KEY",
	"MinioSecretKey":  "MINIO_SECRET_KEY",
	"CacheBucket":     "CACHE_BUCKET",
	"DatabaseURL":     "DATABASE_URL",
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// Load builds and validates a Config from the current environment.
func Load() (*Config, error) {
	cfg := &Config{
		Backend:         GetEnv("CACHE_BACKEND", BackendFile),
		CacheDir:        GetEnv("CACHE_DIR", "cache"),
		DefaultTimezone: GetEnv("DEFAULT_TIMEZONE", "Europe/Berlin"),
		MinioEndpoint:   os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:  os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:     os.Getenv("MINIO_USE_SSL") == "true",
		CacheBucket:     os.Getenv("CACHE_BUCKET"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		KafkaBroker:     os.Getenv("KAFKA_BROKER"),
		KafkaTopic:      os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:    os.Getenv("KAFKA_GROUP_ID"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := variables[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		out = append(out, ValidationError{Variable: name, Rule: fe.Tag()})
	}
	return out
}
