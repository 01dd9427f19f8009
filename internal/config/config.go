package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort             string // Application port
	DBUser              string // Database user
	DBPassword          string // Database password
	DBHost              string // Database host
	DBPort              string // Database port
	DBName              string // Database name
	JWTSecret           string // JWT secret key
	RedisAddr           string // Redis server address
	RedisPass           string // Redis password
	RedisDB             int    // Redis database number
	StripeSecretKey     string // Stripe API credential; empty disables payment creation
	StripeWebhookSecret string // Stripe webhook shared secret; empty disables reconciliation
	AdminEmail          string // Bootstrap admin email
	AdminPassword       string // Bootstrap admin password
	AdminName           string // Bootstrap admin display name
	CoinGeckoBaseURL    string // Price API base URL
	IsProd              bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	coingecko := os.Getenv("COINGECKO_BASE_URL")
	if coingecko == "" {
		coingecko = "https://api.coingecko.com/api/v3" // Default public API
	}
	adminName := os.Getenv("ADMIN_NAME")
	if adminName == "" {
		adminName = "Admin" // Default admin display name
	}
	return &Config{
		AppPort:             os.Getenv("APP_PORT"),              // Application port
		DBUser:              os.Getenv("DB_USER"),               // Database user
		DBPassword:          os.Getenv("DB_PASSWORD"),           // Database password
		DBHost:              os.Getenv("DB_HOST"),               // Database host
		DBPort:              os.Getenv("DB_PORT"),               // Database port
		DBName:              os.Getenv("DB_NAME"),               // Database name
		JWTSecret:           os.Getenv("JWT_SECRET"),            // JWT secret key
		RedisAddr:           os.Getenv("REDIS_ADDR"),            // Redis server address
		RedisPass:           os.Getenv("REDIS_PASS"),            // Redis password
		RedisDB:             redisDB,                            // Redis database number
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),     // Stripe API credential
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"), // Stripe webhook shared secret
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),           // Bootstrap admin email
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),        // Bootstrap admin password
		AdminName:           adminName,                          // Bootstrap admin display name
		CoinGeckoBaseURL:    coingecko,                          // Price API base URL
		IsProd:              os.Getenv("IS_PROD") == "true",     // Is production environment
	}
}
