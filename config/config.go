package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	ObjectStore ObjectStoreConfig
	Upload      UploadConfig
	RateLimit   RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Port        string
	CORSOrigin  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type JWTConfig struct {
	// Separate secrets for the two token kinds so one leaked key never
	// compromises both credentials.
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	Database     int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StatsTTL     time.Duration
}

type ObjectStoreConfig struct {
	Region        string
	Bucket        string
	Endpoint      string
	PublicBaseURL string
}

type UploadConfig struct {
	TempDir       string
	MaxUploadSize int64
	ProbeBinary   string
	ProbeTimeout  time.Duration
}

type RateLimitConfig struct {
	Request  int
	Duration int
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; real deployments use process env.
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "streamapi"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "streamapi"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			StatsTTL:     getEnvAsDuration("REDIS_STATS_TTL", 30*time.Second),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("ACCESS_TOKEN_SECRET", "change_me_access_secret"),
			RefreshSecret: getEnv("REFRESH_TOKEN_SECRET", "change_me_refresh_secret"),
			AccessTTL:     getEnvAsDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTTL:    getEnvAsDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		ObjectStore: ObjectStoreConfig{
			Region:        getEnv("OBJECT_STORE_REGION", "us-east-1"),
			Bucket:        getEnv("OBJECT_STORE_BUCKET", "streamapi-media"),
			Endpoint:      getEnv("OBJECT_STORE_ENDPOINT", ""),
			PublicBaseURL: getEnv("OBJECT_STORE_PUBLIC_BASE_URL", ""),
		},
		Upload: UploadConfig{
			TempDir:       getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
			MaxUploadSize: getEnvAsInt64("UPLOAD_MAX_SIZE", 512<<20),
			ProbeBinary:   getEnv("MEDIA_PROBE_BINARY", "ffprobe"),
			ProbeTimeout:  getEnvAsDuration("MEDIA_PROBE_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			Request:  getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 100),
			Duration: getEnvAsInt("RATE_LIMIT_DURATION", 60),
		},
	}

	return config, nil
}

func (c *Config) DatabaseConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
