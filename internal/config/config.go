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

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Storage   StorageConfig
	ImageHost ImageHostConfig
	Push      PushConfig
	Mail      MailConfig
	Realtime  RealtimeConfig
}

type AppConfig struct {
	AppName         string
	Environment     string
	HTTPPort        string
	MigrationsDir   string
	AllowedOrigins  string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	StatementTimeout      time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	RunSeeders   bool
	SeedPassword string
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

// StorageConfig points at an S3 compatible bucket. Endpoint is empty for AWS itself.
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
	SignedURLTTL    time.Duration
	MaxResumeBytes  int64
}

type ImageHostConfig struct {
	BaseURL       string
	CloudName     string
	UploadPreset  string
	MaxImageBytes int64
}

type PushConfig struct {
	CredentialsFile string
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	FromAddress  string
	FromName     string
	AppURL       string
	SendAttempts int
}

type RealtimeConfig struct {
	Channel      string
	WriteTimeout time.Duration
	PingInterval time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func (c StorageConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.AccessKeySecret != ""
}

func (c ImageHostConfig) Enabled() bool {
	return c.CloudName != "" && c.UploadPreset != ""
}

func (c PushConfig) Enabled() bool {
	return c.CredentialsFile != ""
}

func (c MailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.FromAddress != ""
}

func Load() (Config, error) {
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "production") {
		_ = godotenv.Load()
	}

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	def := func(key, fallback string) string {
		if v := opt(key); v != "" {
			return v
		}
		return fallback
	}
	dur := func(key string, fallback time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return fallback
		}
		return d
	}
	num := func(key string, fallback int64) int64 {
		raw := opt(key)
		if raw == "" {
			return fallback
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return fallback
		}
		return n
	}

	cfg.App = AppConfig{
		AppName:         req("APP_NAME"),
		Environment:     req("APP_ENV"),
		HTTPPort:        req("HTTP_PORT"),
		MigrationsDir:   def("MIGRATIONS_DIR", "migrations"),
		AllowedOrigins:  def("CORS_ALLOWED_ORIGINS", "*"),
		ShutdownTimeout: dur("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     def("DB_HOST", "localhost"),
		DBPort:     def("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  def("DB_SSL_MODE", "disable"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		StatementTimeout:      dur("DB_STATEMENT_TIMEOUT", 15*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", 0),

		RunSeeders:   strings.EqualFold(opt("DB_RUN_SEEDERS"), "true"),
		SeedPassword: def("DB_SEED_PASSWORD", "password123"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     def("REDIS_HOST", "localhost"),
		Port:     def("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      time.Duration(num("REDIS_TTL", 600)) * time.Second,
	}

	cfg.Storage = StorageConfig{
		Endpoint:        opt("STORAGE_ENDPOINT"),
		Region:          def("STORAGE_REGION", "auto"),
		Bucket:          opt("STORAGE_BUCKET"),
		AccessKeyID:     opt("STORAGE_ACCESS_KEY_ID"),
		AccessKeySecret: opt("STORAGE_ACCESS_KEY_SECRET"),
		SignedURLTTL:    dur("STORAGE_SIGNED_URL_TTL", time.Hour),
		MaxResumeBytes:  num("STORAGE_MAX_RESUME_BYTES", 5<<20),
	}

	cfg.ImageHost = ImageHostConfig{
		BaseURL:       def("IMAGE_HOST_BASE_URL", "https://api.cloudinary.com/v1_1"),
		CloudName:     opt("IMAGE_HOST_CLOUD_NAME"),
		UploadPreset:  opt("IMAGE_HOST_UPLOAD_PRESET"),
		MaxImageBytes: num("IMAGE_HOST_MAX_IMAGE_BYTES", 5<<20),
	}

	cfg.Push = PushConfig{
		CredentialsFile: opt("FIREBASE_CREDENTIALS_FILE"),
	}

	cfg.Mail = MailConfig{
		SMTPHost:     opt("SMTP_HOST"),
		SMTPPort:     int(num("SMTP_PORT", 587)),
		SMTPUser:     opt("SMTP_USER"),
		SMTPPass:     opt("SMTP_PASS"),
		FromAddress:  opt("SMTP_FROM"),
		FromName:     def("SMTP_FROM_NAME", "CareNet"),
		AppURL:       def("APP_PUBLIC_URL", "http://localhost:3000"),
		SendAttempts: int(num("SMTP_SEND_ATTEMPTS", 3)),
	}

	cfg.Realtime = RealtimeConfig{
		Channel:      def("REALTIME_CHANNEL", "realtime:messages"),
		WriteTimeout: dur("REALTIME_WRITE_TIMEOUT", 10*time.Second),
		PingInterval: dur("REALTIME_PING_INTERVAL", 30*time.Second),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
