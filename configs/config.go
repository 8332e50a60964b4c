package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	Endpoint   string
}

type Media struct {
	PublicURL        string
	DomainMarker     string
	PlaceholderHosts []string
	StorageTimeout   time.Duration
}

type MediaCleanup struct {
	Schedule   string
	MinAge     time.Duration
	BatchSize  int
	BatchPause time.Duration
}

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	HTTPAddr           string
	SocketAddr         string
	FrontendURL        string
	R2                 R2
	Media              Media
	MediaCleanup       MediaCleanup
	SecretKey          string
	CookieName         string
	TokenTTL           time.Duration
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":3000"),
		SocketAddr:         getEnv("SOCKET_ADDR", ":3001"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			Endpoint:   getEnv("R2_ENDPOINT", ""),
		},
		Media: Media{
			PublicURL:        getEnv("MEDIA_PUBLIC_URL", "https://media.localhost"),
			DomainMarker:     getEnv("MEDIA_DOMAIN_MARKER", "media.localhost"),
			PlaceholderHosts: getList("MEDIA_PLACEHOLDER_HOSTS", []string{"ui-avatars.com", "via.placeholder.com"}),
			StorageTimeout:   getDuration("STORAGE_TIMEOUT", 10*time.Second),
		},
		MediaCleanup: MediaCleanup{
			Schedule:   getEnv("MEDIA_CLEANUP_SCHEDULE", "@daily"),
			MinAge:     getDuration("MEDIA_CLEANUP_MIN_AGE", 24*time.Hour),
			BatchSize:  getInt("MEDIA_CLEANUP_BATCH_SIZE", 100),
			BatchPause: getDuration("MEDIA_CLEANUP_BATCH_PAUSE", time.Second),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "community_session"),
		TokenTTL:   getDuration("TOKEN_TTL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
