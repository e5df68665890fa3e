package utils

import (
	"gopkg.in/yaml.v2"
	"log"
	"os"
	"strconv"
)

type Config struct {
	// Server configuration
	AppPort  string `yaml:"APP_PORT"`
	LogLevel string `yaml:"LOG_LEVEL"`

	// Record store: supabase, postgres or memory
	StoreDriver        string `yaml:"STORE_DRIVER"`
	SupabaseURL        string `yaml:"SUPABASE_URL"`
	SupabaseServiceKey string `yaml:"SUPABASE_SERVICE_KEY"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Supabase JWT secret used to verify access tokens
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Gemini API configuration
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`
	GeminiRPM    int    `yaml:"GEMINI_RPM"`

	// Product lookup
	OpenFoodFactsURL string `yaml:"OPENFOODFACTS_URL"`

	// Scheduled expiry digest, e.g. "0 7 * * *" and "user-id:email,user-id:email"
	ExpiryDigestCron  string `yaml:"EXPIRY_DIGEST_CRON"`
	ExpiryDigestUsers string `yaml:"EXPIRY_DIGEST_USERS"`
	ExpiryDigestDays  int    `yaml:"EXPIRY_DIGEST_DAYS"`
}

var config Config

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

func LoadConfig() {
	file, err := os.ReadFile(configPath())
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	// Set environment variables for keys that should be accessible via os.Getenv
	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("LOG_LEVEL", config.LogLevel)
	os.Setenv("SUPABASE_URL", config.SupabaseURL)
	os.Setenv("SUPABASE_SERVICE_KEY", config.SupabaseServiceKey)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
	os.Setenv("GEMINI_API_KEY", config.GeminiAPIKey)
}

// SetConfig replaces the loaded configuration, for tests and embedding.
func SetConfig(c Config) {
	config = c
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		if config.AppPort == "" {
			return "8080"
		}
		return config.AppPort
	case "LOG_LEVEL":
		return config.LogLevel
	case "STORE_DRIVER":
		if config.StoreDriver == "" {
			return "supabase"
		}
		return config.StoreDriver
	case "SUPABASE_URL":
		return config.SupabaseURL
	case "SUPABASE_SERVICE_KEY":
		return config.SupabaseServiceKey
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "GEMINI_API_KEY":
		return config.GeminiAPIKey
	case "GEMINI_MODEL":
		if config.GeminiModel == "" {
			return "gemini-2.5-flash"
		}
		return config.GeminiModel
	case "GEMINI_RPM":
		if config.GeminiRPM <= 0 {
			return "60"
		}
		return strconv.Itoa(config.GeminiRPM)
	case "OPENFOODFACTS_URL":
		if config.OpenFoodFactsURL == "" {
			return "https://world.openfoodfacts.org"
		}
		return config.OpenFoodFactsURL
	case "EXPIRY_DIGEST_CRON":
		return config.ExpiryDigestCron
	case "EXPIRY_DIGEST_USERS":
		return config.ExpiryDigestUsers
	case "EXPIRY_DIGEST_DAYS":
		if config.ExpiryDigestDays <= 0 {
			return "3"
		}
		return strconv.Itoa(config.ExpiryDigestDays)
	default:
		return ""
	}
}
