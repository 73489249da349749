package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	APIUrl      string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret               string
	JWTAccessTokenDuration  time.Duration
	JWTRefreshTokenDuration time.Duration

	// Admin bootstrap
	AdminUsername string
	AdminPassword string
	AdminEmail    string

	// Emotion classifier
	ClassifierURL     string
	ClassifierTimeout time.Duration

	// Mood playlist service
	PlaylistAPIURL     string
	PlaylistAPITimeout time.Duration

	// Spotify catalog
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyTokenURL     string
	SpotifyAPIURL       string

	// Playlist archive
	ArchiveDir    string
	ArchivePrefix string

	// Latest-playlist cache
	PlaylistCacheTTL time.Duration

	// Stripe (premium upgrade)
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
	PremiumPriceCents   int64

	// Security
	BcryptCost        int
	RateLimitRequests int
	RateLimitDuration time.Duration
	CaptureMaxPerDay  int

	// CORS
	AllowedOrigins []string

	// Logging
	LogLevel string
	LogFile  string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		APIUrl:      getEnv("API_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "emotunes"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "emotunes_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		DBTimeZone: getEnv("DB_TIMEZONE", "Europe/Paris"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// JWT
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key"),
		JWTAccessTokenDuration:  getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", "1h"),
		JWTRefreshTokenDuration: getEnvAsDuration("JWT_REFRESH_TOKEN_DURATION", "168h"),

		// Admin bootstrap
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@emotunes.app"),

		// Emotion classifier
		ClassifierURL:     getEnv("CLASSIFIER_URL", "https://emodetect.onrender.com/predict"),
		ClassifierTimeout: getEnvAsDuration("CLASSIFIER_TIMEOUT", "10s"),

		// Mood playlist service
		PlaylistAPIURL:     getEnv("PLAYLIST_API_URL", "https://music-search-jxd8.onrender.com"),
		PlaylistAPITimeout: getEnvAsDuration("PLAYLIST_API_TIMEOUT", "15s"),

		// Spotify catalog
		SpotifyClientID:     getEnv("CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("CLIENT_SECRET", ""),
		SpotifyTokenURL:     getEnv("SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),
		SpotifyAPIURL:       getEnv("SPOTIFY_API_URL", "https://api.spotify.com/v1"),

		// Playlist archive
		ArchiveDir:    getEnv("ARCHIVE_DIR", "data"),
		ArchivePrefix: getEnv("ARCHIVE_PREFIX", "playlist"),

		// Latest-playlist cache
		PlaylistCacheTTL: getEnvAsDuration("PLAYLIST_CACHE_TTL", "24h"),

		// Stripe
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeSuccessURL:    getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/premium/success"),
		StripeCancelURL:     getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/premium/cancel"),
		PremiumPriceCents:   int64(getEnvAsInt("PREMIUM_PRICE_CENTS", 499)),

		// Security
		BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitDuration: getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),
		CaptureMaxPerDay:  getEnvAsInt("CAPTURE_MAX_PER_DAY", 50),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Hour
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
