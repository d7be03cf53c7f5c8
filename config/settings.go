package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Settings struct {
	Environment    string
	Port           string
	MongoURI       string
	MongoDatabase  string
	AuthServerURL  string
	JWTSecret      string
	DemoMode       bool
	SessionTTL     time.Duration
	DemoLimit      int
	AllowedOrigins []string
	TimeZone       string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	CDNDomain   string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// LoadEnv reads .env when present. The returned error is informational:
// process environment variables are used either way.
func LoadEnv() error {
	return godotenv.Load()
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load builds Settings from the environment.
func Load() Settings {
	s := Settings{
		Environment:   getEnv("ENVIRONMENT", "prod"),
		Port:          getEnv("PORT", "1414"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "pathfinder"),
		AuthServerURL: strings.TrimRight(getEnv("AUTH_SERVER_URL", "http://localhost:4000"), "/"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		TimeZone:      getEnv("TIME_ZONE", "UTC"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		CDNDomain:     os.Getenv("CDN_DOMAIN"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailFrom:      getEnv("MAIL_FROM", "no-reply@pathfinders.app"),
	}

	s.DemoMode, _ = strconv.ParseBool(os.Getenv("DEMO_MODE"))

	s.SessionTTL = 2 * time.Hour
	if ttl, err := time.ParseDuration(os.Getenv("SESSION_TTL")); err == nil && ttl > 0 {
		s.SessionTTL = ttl
	}

	s.DemoLimit = 500
	if limit, err := strconv.Atoi(os.Getenv("DEMO_SESSION_LIMIT")); err == nil && limit >= 0 {
		s.DemoLimit = limit
	}

	s.SMTPPort = 465
	if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		s.SMTPPort = port
	}

	for _, origin := range strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			s.AllowedOrigins = append(s.AllowedOrigins, origin)
		}
	}
	return s
}

func (s Settings) IsDev() bool {
	return s.Environment == "dev"
}

// StorageEnabled reports whether object storage credentials were provided.
func (s Settings) StorageEnabled() bool {
	return s.S3Endpoint != "" && s.S3Bucket != ""
}
