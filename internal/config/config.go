package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/publicsuffix"
)

const (
	TrackCookieName  = "track"
	FbclidCookieName = "fbclid"
	CookieLifetime   = 365 * 24 * time.Hour
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	List     string
}

// Cookie is the policy applied to visitor cookies. It is computed once at
// start-up and handed to the handlers.
type Cookie struct {
	Domain   string
	Secure   bool
	Lifetime time.Duration
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	ServerPort     int
	DB             DB
	MinIO          MinIO
	Redis          Redis
	Cookie         Cookie
	Log            Log
	FrontendURL    string
	CORSOrigins    []string
	APILimit       int
	TrackSinks     []string
	MigrationsPath string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// Warnings collects problems found while loading, logged once a logger exists.
	Warnings []string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "preview"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "uploads"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
	}
}

func LoadRedis() Redis {
	return Redis{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
		List:     getEnv("TRACK_REDIS_LIST", "track:events"),
	}
}

// LoadCookie derives the cookie policy from the frontend URL. NOT_SECURED
// being present at all (any value) drops the Secure and HttpOnly flags.
func LoadCookie(frontendURL string) Cookie {
	_, notSecured := os.LookupEnv("NOT_SECURED")
	return Cookie{
		Domain:   CookieDomain(frontendURL),
		Secure:   !notSecured,
		Lifetime: CookieLifetime,
	}
}

func LoadConfig() *Config {
	var warnings []string
	if err := godotenv.Load(); err != nil {
		warnings = append(warnings, ".env file not found, using environment variables")
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:4200")

	return &Config{
		Warnings:       warnings,
		ServerPort:     getEnvAsInt("SERVER_PORT", 3000),
		DB:             LoadDB(),
		MinIO:          LoadMinIO(),
		Redis:          LoadRedis(),
		Cookie:         LoadCookie(frontendURL),
		Log:            Log{Level: getEnv("LOG_LEVEL", "info"), Format: getEnv("LOG_FORMAT", "text")},
		FrontendURL:    frontendURL,
		CORSOrigins:    getEnvList("CORS_ORIGINS", frontendURL),
		APILimit:       getEnvAsInt("API_LIMIT", 30),
		TrackSinks:     getEnvList("TRACK_SINKS", "postgres"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
		ReadTimeout:    parseDuration(getEnv("READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:   parseDuration(getEnv("WRITE_TIMEOUT", "30s"), 30*time.Second),
	}
}

// CookieDomain returns the domain cookies are scoped to for the given
// frontend URL: the registrable domain with a leading dot, or the bare host
// for localhost and IP addresses.
func CookieDomain(frontendURL string) string {
	u, err := url.Parse(frontendURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	host := u.Hostname()
	if host == "localhost" || net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return "." + domain
}
