package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config - every environment variable the server reads
type Config struct {
	// Server
	Port string

	// Gemini API
	GeminiAPIKey     string
	GeminiImageModel string
	GeminiTextModel  string

	// Supabase
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Local fallback persistence
	LocalSessionDir string

	// Upload limits (bytes)
	MaxUploadBytes int64
	MaxLogoBytes   int64

	// Checkout
	WhatsAppDefaultNumber string
}

var globalConfig *Config

// LoadConfig - load environment variables (.env file when present)
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := true
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	globalConfig = &Config{
		Port: getEnv("PORT", "8080"),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		LocalSessionDir: getEnv("LOCAL_SESSION_DIR", "./sessions"),

		MaxUploadBytes: getEnvBytes("MAX_UPLOAD_BYTES", 5*1024*1024),
		MaxLogoBytes:   getEnvBytes("MAX_LOGO_BYTES", 2*1024*1024),

		WhatsAppDefaultNumber: getEnv("WHATSAPP_DEFAULT_NUMBER", ""),
	}

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: image=%s text=%s", globalConfig.GeminiImageModel, globalConfig.GeminiTextModel)
	if globalConfig.UseSupabase() {
		log.Printf("   Supabase: %s", globalConfig.SupabaseURL)
	} else {
		log.Printf("   Supabase: not configured, using local session store at %s", globalConfig.LocalSessionDir)
	}
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Upload caps: image=%dB logo=%dB", globalConfig.MaxUploadBytes, globalConfig.MaxLogoBytes)

	return globalConfig, nil
}

// GetConfig - fetch the loaded configuration
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - required environment variables
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	// Supabase is optional (the local JSON store takes over when unset),
	// but a half-configured Supabase is a deployment mistake.
	if c.SupabaseURL != "" && c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required when SUPABASE_URL is set")
	}
	if c.MaxLogoBytes > c.MaxUploadBytes {
		return fmt.Errorf("MAX_LOGO_BYTES must not exceed MAX_UPLOAD_BYTES")
	}
	return nil
}

// UseSupabase - whether the cloud document store is configured
func (c *Config) UseSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// getEnv - environment variable with default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBytes(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// GetRedisAddr - Redis connection string
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
