package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig selects the file backend. "local" keeps blobs under BaseDir
// on disk; "s3" uses a MinIO/S3 bucket.
type StorageConfig struct {
	Backend   string
	BaseDir   string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type SecurityConfig struct {
	SessionSecret        string
	SessionTTL           time.Duration
	RevalidationInterval time.Duration
	InviteTTL            time.Duration
}

// BootstrapConfig seeds the first admin account on an empty users table.
// Ignored once any user exists.
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

type RateLimitConfig struct {
	Backend         string // "memory" or "redis"
	Threshold       int
	Window          time.Duration
	CleanupInterval time.Duration
}

type UploadConfig struct {
	UserQuotaBytes int64
}

type CleanupConfig struct {
	// Schedule is a cron expression (with a seconds field) for the
	// expired-content purge.
	Schedule string
}

type AppConfig struct {
	Environment      string
	BaseURL          string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Bootstrap        BootstrapConfig
	RateLimit        RateLimitConfig
	Upload           UploadConfig
	Cleanup          CleanupConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("FILEDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Security.SessionSecret == "" {
		return nil, fmt.Errorf("security.sessionsecret is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("baseurl", "http://localhost:8080")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.basedir", "./uploads")
	v.SetDefault("storage.bucket", "filedrop-content")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	// Viper only surfaces env values for keys it knows about, so env-only
	// settings still need a default.
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("security.sessionsecret", "")
	v.SetDefault("bootstrap.adminusername", "")
	v.SetDefault("bootstrap.adminpassword", "")
	v.SetDefault("allowcorsorigins", []string{})

	v.SetDefault("security.sessionttl", "720h") // 30 days
	v.SetDefault("security.revalidationinterval", "5m")
	v.SetDefault("security.invitettl", "72h")

	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.threshold", 5)
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("ratelimit.cleanupinterval", "5m")

	v.SetDefault("upload.userquotabytes", 500*1024*1024)

	v.SetDefault("cleanup.schedule", "0 */10 * * * *") // every 10 minutes
}
