package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	DB          DatabaseConfig
	Redis       RedisConfig
	S3          S3Config
	AWS         AWSConfig
	Listing     ListingConfig
	Worker      WorkerConfig
	Marketplace MarketplaceConfig
	CORS        CORSConfig
	Admin       AdminConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// S3Config contains the bucket used for product images.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

// AWSConfig contains AWS settings for image moderation.
type AWSConfig struct {
	AccessKeyID         string
	SecretAccessKey     string
	RekognitionRegion   string
	ModerationEnabled   bool
	ModerationThreshold float64
}

// ListingConfig tunes the browse endpoint.
type ListingConfig struct {
	FetchLimit     int
	CacheTTL       time.Duration
	SessionIdleTTL time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	ViewFlushInterval time.Duration
}

// MarketplaceConfig holds business constants shown to sellers.
type MarketplaceConfig struct {
	CommissionRate   float64
	PaymentNumber    string
	MaxImages        int
	ContactWhatsApp  string
	ContactEmail     string
	ContactLocation  string
	ContactInstagram string
	ContactTwitter   string
}

// AdminConfig seeds the first admin account on startup when both fields are set.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// S3 (product images)
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "af-south-1"),
		Bucket:          getEnv("S3_BUCKET", "umuhuza-products"),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// AWS Rekognition (image moderation)
	cfg.AWS = AWSConfig{
		AccessKeyID:         getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		RekognitionRegion:   getEnv("AWS_REKOGNITION_REGION", "eu-west-1"),
		ModerationEnabled:   getEnvBool("IMAGE_MODERATION_ENABLED", false),
		ModerationThreshold: getEnvFloat("IMAGE_MODERATION_THRESHOLD", 80),
	}

	cfg.Marketplace = MarketplaceConfig{
		CommissionRate:   getEnvFloat("COMMISSION_RATE", 0.05),
		PaymentNumber:    getEnv("MTN_PAYMENT_NUMBER", "+250790052780"),
		MaxImages:        getEnvInt("MAX_PRODUCT_IMAGES", 10),
		ContactWhatsApp:  getEnv("CONTACT_WHATSAPP", "+250798584225"),
		ContactEmail:     getEnv("CONTACT_EMAIL", ""),
		ContactLocation:  getEnv("CONTACT_LOCATION", "Kigali, Nyarugenge, Nyamirambo"),
		ContactInstagram: getEnv("CONTACT_INSTAGRAM", ""),
		ContactTwitter:   getEnv("CONTACT_TWITTER", ""),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
	}

	cfg.Admin = AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Name:     getEnv("ADMIN_NAME", "UMUHUZA Admin"),
	}

	cfg.Listing.FetchLimit = getEnvInt("LISTING_FETCH_LIMIT", 100)

	// Durations
	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "72h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Listing.CacheTTL, err = parseDurationEnv("LISTING_CACHE_TTL", "30s"); err != nil {
		return nil, fmt.Errorf("invalid LISTING_CACHE_TTL: %w", err)
	}
	if cfg.Listing.SessionIdleTTL, err = parseDurationEnv("BROWSE_SESSION_IDLE_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid BROWSE_SESSION_IDLE_TTL: %w", err)
	}
	if cfg.Worker.ViewFlushInterval, err = parseDurationEnv("VIEW_FLUSH_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid VIEW_FLUSH_INTERVAL: %w", err)
	}

	if cfg.Marketplace.CommissionRate < 0 || cfg.Marketplace.CommissionRate >= 1 {
		return nil, errors.New("COMMISSION_RATE must be in [0, 1)")
	}
	if cfg.Marketplace.MaxImages <= 0 {
		return nil, errors.New("MAX_PRODUCT_IMAGES must be positive")
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvBool(key string, def bool) bool {
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

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key, def string) []string {
	raw := getEnv(key, def)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
