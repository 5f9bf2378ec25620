package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/klass-lk/seoblog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Env       string
	Port      int
	LogLevel  string
	AppName   string
	ClientURL string
	BasePath  string
	Lambda    bool

	MongoURI      string
	MongoHost     string
	MongoPort     int
	MongoUser     string
	MongoPassword string
	MongoOptions  []string
	MongoDatabase string

	JWTSecret           string
	JWTActivationSecret string
	JWTResetSecret      string
	SessionTTL          time.Duration
	ActivationTTL       time.Duration
	ResetTTL            time.Duration

	PasswordEncoder  string
	PBKDF2Secret     string
	PBKDF2Iterations int
	PBKDF2KeyLength  int

	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PhotoBackend  string
	MaxPhotoSize  int64
	MaxPhotoWidth int
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string

	EmailFrom    string
	EmailTo      string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AMQPURL      string
	MailQueue    string

	CORSOrigins    []string
	TrustedProxies []string

	LoginMaxAttempts int
	LoginWindow      time.Duration
}

const (
	CacheMongo = "mongo"
	CacheRedis = "redis"
	CacheNone  = "none"

	PhotoInline = "inline"
	PhotoS3     = "s3"
)

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnvAsInt("PORT", 8000),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		AppName:   getEnv("APP_NAME", "SEOBLOG"),
		ClientURL: strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:3000"), "/"),
		BasePath:  getEnv("BASE_PATH", "/api"),
		Lambda:    getEnvAsBool("LAMBDA_RUNTIME", false),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoHost:     getEnv("MONGO_HOST", "localhost"),
		MongoPort:     getEnvAsInt("MONGO_PORT", 27017),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),
		MongoOptions:  getEnvAsList("MONGO_OPTIONS", nil),
		MongoDatabase: getEnv("MONGO_DATABASE", "seoblog"),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTActivationSecret: getEnv("JWT_ACCOUNT_ACTIVATION", ""),
		JWTResetSecret:      getEnv("JWT_RESET_PASSWORD", ""),
		SessionTTL:          getEnvAsDuration("JWT_SESSION_TTL", 24*time.Hour),
		ActivationTTL:       getEnvAsDuration("JWT_ACTIVATION_TTL", 10*time.Minute),
		ResetTTL:            getEnvAsDuration("JWT_RESET_TTL", 10*time.Minute),

		PasswordEncoder:  getEnv("PASSWORD_ENCODER", "bcrypt"),
		PBKDF2Secret:     getEnv("PBKDF2_ENCODER_SECRET", ""),
		PBKDF2Iterations: getEnvAsInt("PBKDF2_ENCODER_ITERATION", 210000),
		PBKDF2KeyLength:  getEnvAsInt("PBKDF2_ENCODER_KEY_LENGTH", 64),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheMongo)),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		PhotoBackend:  strings.ToLower(getEnv("PHOTO_BACKEND", PhotoInline)),
		MaxPhotoSize:  int64(getEnvAsInt("MAX_PHOTO_SIZE", 1000000)),
		MaxPhotoWidth: getEnvAsInt("MAX_PHOTO_WIDTH", 1200),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),

		EmailFrom:    getEnv("EMAIL_FROM", "noreply@seoblog.local"),
		EmailTo:      getEnv("EMAIL_TO", ""),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		AMQPURL:      getEnv("AMQP_URL", ""),
		MailQueue:    getEnv("MAIL_QUEUE", "seoblog.mail"),

		CORSOrigins:    getEnvAsList("CORS_ORIGINS", nil),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),

		LoginMaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      getEnvAsDuration("LOGIN_WINDOW", 15*time.Minute),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTActivationSecret == "" {
		errs = append(errs, errors.New("JWT_ACCOUNT_ACTIVATION is required"))
	}
	if c.JWTResetSecret == "" {
		errs = append(errs, errors.New("JWT_RESET_PASSWORD is required"))
	}
	switch c.CacheBackend {
	case CacheMongo, CacheRedis, CacheNone:
	default:
		errs = append(errs, errors.New("CACHE_BACKEND must be one of mongo, redis, none"))
	}
	switch c.PhotoBackend {
	case PhotoInline:
	case PhotoS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when PHOTO_BACKEND=s3"))
		}
	default:
		errs = append(errs, errors.New("PHOTO_BACKEND must be one of inline, s3"))
	}
	if c.SMTPHost != "" && c.EmailTo == "" {
		errs = append(errs, errors.New("EMAIL_TO is required when SMTP_HOST is set"))
	}
	for _, opt := range c.MongoOptions {
		if key, _, ok := strings.Cut(opt, "="); !ok || key == "" {
			errs = append(errs, fmt.Errorf("MONGO_OPTIONS entry %q must be key=value", opt))
		}
	}
	return errors.Join(errs...)
}

// Mongo returns the connection settings. MONGO_URI wins over the
// host and credential keys when set.
func (c *Config) Mongo() *seoblog.MongoConfig {
	mc := seoblog.NewMongoConfig().
		WithURI(c.MongoURI).
		WithHost(c.MongoHost, c.MongoPort).
		WithCredentials(c.MongoUser, c.MongoPassword).
		WithDatabase(c.MongoDatabase)
	for _, opt := range c.MongoOptions {
		if key, value, ok := strings.Cut(opt, "="); ok && key != "" {
			mc.WithOption(key, value)
		}
	}
	return mc
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
