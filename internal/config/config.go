package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Notify    NotifyConfig
	Authority AuthorityConfig
	Email     EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NotifyConfig holds client notification worker settings.
type NotifyConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	BatchSize        int `mapstructure:"batch_size"`
	Concurrency      int `mapstructure:"concurrency"`
}

// AuthorityConfig holds tax authority gateway settings.
type AuthorityConfig struct {
	Provider    string `mapstructure:"provider"`
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the TAXDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxdesk")
	v.SetDefault("db.password", "taxdesk_secret")
	v.SetDefault("db.name", "taxdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "taxdesk")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "taxdesk-attachments")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Notify worker defaults
	v.SetDefault("notify.poll_interval_secs", 30)
	v.SetDefault("notify.batch_size", 50)
	v.SetDefault("notify.concurrency", 5)

	// Authority gateway defaults
	v.SetDefault("authority.provider", "noop")
	v.SetDefault("authority.base_url", "")
	v.SetDefault("authority.api_key", "")
	v.SetDefault("authority.timeout_secs", 30)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@taxdesk.io")
	v.SetDefault("email.from_name", "TaxDesk")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "TAXDESK_SERVER_PORT",
		"server.read_timeout":       "TAXDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "TAXDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":        "TAXDESK_SERVER_ENVIRONMENT",
		"db.host":                   "TAXDESK_DB_HOST",
		"db.port":                   "TAXDESK_DB_PORT",
		"db.user":                   "TAXDESK_DB_USER",
		"db.password":               "TAXDESK_DB_PASSWORD",
		"db.name":                   "TAXDESK_DB_NAME",
		"db.sslmode":                "TAXDESK_DB_SSLMODE",
		"db.max_open":               "TAXDESK_DB_MAX_OPEN",
		"db.max_idle":               "TAXDESK_DB_MAX_IDLE",
		"jwt.secret":                "TAXDESK_JWT_SECRET",
		"jwt.access_expiry":         "TAXDESK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":        "TAXDESK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                "TAXDESK_JWT_ISSUER",
		"s3.region":                 "TAXDESK_S3_REGION",
		"s3.bucket":                 "TAXDESK_S3_BUCKET",
		"s3.endpoint":               "TAXDESK_S3_ENDPOINT",
		"s3.access_key":             "TAXDESK_S3_ACCESS_KEY",
		"s3.secret_key":             "TAXDESK_S3_SECRET_KEY",
		"s3.max_file_size_mb":       "TAXDESK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":         "TAXDESK_S3_PRESIGN_EXPIRY",
		"log.level":                 "TAXDESK_LOG_LEVEL",
		"log.format":                "TAXDESK_LOG_FORMAT",
		"cors.allowed_origins":      "TAXDESK_CORS_ALLOWED_ORIGINS",
		"notify.poll_interval_secs": "TAXDESK_NOTIFY_POLL_INTERVAL_SECS",
		"notify.batch_size":         "TAXDESK_NOTIFY_BATCH_SIZE",
		"notify.concurrency":        "TAXDESK_NOTIFY_CONCURRENCY",
		"authority.provider":        "TAXDESK_AUTHORITY_PROVIDER",
		"authority.base_url":        "TAXDESK_AUTHORITY_BASE_URL",
		"authority.api_key":         "TAXDESK_AUTHORITY_API_KEY",
		"authority.timeout_secs":    "TAXDESK_AUTHORITY_TIMEOUT_SECS",
		"email.provider":            "TAXDESK_EMAIL_PROVIDER",
		"email.region":              "TAXDESK_EMAIL_REGION",
		"email.from_address":        "TAXDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":           "TAXDESK_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Notify = NotifyConfig{
		PollIntervalSecs: v.GetInt("notify.poll_interval_secs"),
		BatchSize:        v.GetInt("notify.batch_size"),
		Concurrency:      v.GetInt("notify.concurrency"),
	}

	cfg.Authority = AuthorityConfig{
		Provider:    v.GetString("authority.provider"),
		BaseURL:     v.GetString("authority.base_url"),
		APIKey:      v.GetString("authority.api_key"),
		TimeoutSecs: v.GetInt("authority.timeout_secs"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	return cfg, nil
}
