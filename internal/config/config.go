package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	App       AppConfig       `mapstructure:"app"`

	// 以下字段不来自配置文件
	MigrateOnly bool   `mapstructure:"-"`
	Dir         string `mapstructure:"-"`
}

// File 当前配置文件路径，供热更新监听使用
func (c *Config) File() string {
	return filepath.Join(c.Dir, "config.yaml")
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	Charset      string
	ParseTime    bool
	MaxOpenConns int `mapstructure:"max_open_conns"`
	MaxIdleConns int `mapstructure:"max_idle_conns"`
}

// DSN mysql 连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime)
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// RedisConfig host 为空表示不启用 Redis
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int `mapstructure:"pool_size"`
}

// LogConfig 滚动日志文件设置
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig 业务规则相关配置，支持热更新
type AppConfig struct {
	Timezone               string `mapstructure:"timezone"`
	MinResourcesPerTopic   int    `mapstructure:"min_resources_per_topic"`
	CatalogCacheTTLSeconds int    `mapstructure:"catalog_cache_ttl_seconds"`
}

// Location 返回用于连续学习天数计算的时区，配置无效时退回本地时区
func (a AppConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (a AppConfig) CatalogCacheTTL() time.Duration {
	if a.CatalogCacheTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(a.CatalogCacheTTLSeconds) * time.Second
}

var defaults = map[string]interface{}{
	"server.port":                   "5000",
	"server.mode":                   "debug",
	"database.charset":              "utf8mb4",
	"database.parsetime":            true,
	"database.max_open_conns":       50,
	"database.max_idle_conns":       10,
	"redis.pool_size":               20,
	"jwt.expire_hours":              24,
	"storage.type":                  "local",
	"storage.local_path":            "uploads",
	"log.file":                      "logs/app.log",
	"log.max_size_mb":               100,
	"log.max_backups":               5,
	"log.max_age_days":              30,
	"log.compress":                  true,
	"rate_limit.max_requests":       1000,
	"rate_limit.window_minutes":     1,
	"app.min_resources_per_topic":   3,
	"app.catalog_cache_ttl_seconds": 600,
}

// 配置键到环境变量名（自动加 SKILLKART_ 前缀之外的常用别名）
var envBindings = map[string]string{
	"database.host":               "DATABASE_HOST",
	"database.port":               "DATABASE_PORT",
	"database.user":               "DATABASE_USER",
	"database.password":           "DATABASE_PASSWORD",
	"database.dbname":             "DATABASE_NAME",
	"jwt.secret":                  "JWT_SECRET",
	"redis.host":                  "REDIS_HOST",
	"redis.port":                  "REDIS_PORT",
	"redis.password":              "REDIS_PASSWORD",
	"server.port":                 "PORT",
	"server.mode":                 "SERVER_MODE",
	"storage.type":                "STORAGE_TYPE",
	"storage.oss_endpoint":        "OSS_ENDPOINT",
	"storage.oss_access_key":      "OSS_ACCESS_KEY",
	"storage.oss_secret_key":      "OSS_SECRET_KEY",
	"storage.oss_bucket":          "OSS_BUCKET",
	"storage.minio_endpoint":      "MINIO_ENDPOINT",
	"storage.minio_access_key":    "MINIO_ACCESS_KEY",
	"storage.minio_secret_key":    "MINIO_SECRET_KEY",
	"storage.minio_bucket":        "MINIO_BUCKET",
	"tracing.enabled":             "TRACING_ENABLED",
	"tracing.collector_endpoint":  "TRACING_COLLECTOR_ENDPOINT",
	"app.timezone":                "APP_TIMEZONE",
	"app.min_resources_per_topic": "APP_MIN_RESOURCES_PER_TOPIC",
}

// LoadConfig 读取 dir/config.yaml，环境变量优先
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SKILLKART")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envBindings {
		v.BindEnv(key, env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Dir = dir
	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// 本地目录同时是远端存储初始化失败时的回退
	if err := os.MkdirAll(cfg.Storage.LocalPath, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	if c.JWT.ExpireTime <= 0 {
		return fmt.Errorf("jwt.expire_hours must be positive")
	}
	if c.App.MinResourcesPerTopic < 1 {
		return fmt.Errorf("app.min_resources_per_topic must be at least 1, got %d", c.App.MinResourcesPerTopic)
	}
	if c.Storage.LocalPath == "" {
		return fmt.Errorf("storage.local_path must not be empty")
	}
	return nil
}
