package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Review edit policies. "author" restricts review mutation to its author,
// "any" lets any authenticated user edit or delete any review.
const (
	ReviewEditAuthor = "author"
	ReviewEditAny    = "any"
)

type Config struct {
	ServerPort       int
	JWTSecret        string
	TokenTTLHours    int
	ReviewEditPolicy string
	Database         DatabaseConfig
	Redis            RedisConfig
	MQ               MQConfig
	Storage          StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTLSecs  int
}

// MQConfig selects the event broker. Backend is "rabbitmq", "pubsub" or
// empty (events disabled).
type MQConfig struct {
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

// StorageConfig selects the poster object store. Backend is "minio", "gcs"
// or empty (poster upload disabled).
type StorageConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:       getEnvInt("SERVER_PORT", 8080),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTLHours:    getEnvInt("TOKEN_TTL_HOURS", 168),
		ReviewEditPolicy: strings.ToLower(getEnv("REVIEW_EDIT_POLICY", ReviewEditAuthor)),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "reelstack"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "reelstack_db"),
			UseSSL:   getEnvBool("DB_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTLSecs:  getEnvInt("CACHE_TTL_SECONDS", 30),
		},
		MQ: MQConfig{
			Backend: strings.ToLower(getEnv("MQ_BACKEND", "")),
			RabbitMQ: RabbitMQConfig{
				URL:             os.Getenv("RABBITMQ_URL"),
				QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
				QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
				PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH_COUNT", 0),
			},
			PubSub: PubSubConfig{
				ProjectID:          os.Getenv("PUBSUB_PROJECT_ID"),
				CredentialsFile:    os.Getenv("PUBSUB_CREDENTIALS_FILE"),
				SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
			},
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "")),
			Minio: MinioConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				Bucket:    getEnv("MINIO_BUCKET", "posters"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          os.Getenv("GCS_BUCKET"),
				ProjectID:       os.Getenv("GCS_PROJECT_ID"),
				CredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
			},
		},
	}
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.ReviewEditPolicy != ReviewEditAuthor && c.ReviewEditPolicy != ReviewEditAny {
		return fmt.Errorf("REVIEW_EDIT_POLICY must be %q or %q", ReviewEditAuthor, ReviewEditAny)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(valueStr)) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}
