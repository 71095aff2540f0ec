package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Mongo    *MongoConfig    `mapstructure:"mongo"`
	Storage  *StorageConfig  `mapstructure:"storage"`
	Admin    *AdminConfig    `mapstructure:"admin"`
	Log      *LogConfig      `mapstructure:"log"`

	v  *viper.Viper
	mu sync.Mutex
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	BaseURL            string        `mapstructure:"base_url"`
	Port               string        `mapstructure:"port"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
	Timezone           string        `mapstructure:"timezone"`
}

// Location is the zone event dates and times are expressed in. An empty
// timezone means the server's local zone.
func (c *APIConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%q) -> %w", c.Timezone, err)
	}

	return loc, nil
}

func (c *APIConfig) IsProduction() bool {
	return c.Environment == "production"
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	MaxUploadSize   int64  `mapstructure:"max_upload_size"`
	MaxImageWidth   int    `mapstructure:"max_image_width"`
}

// AdminConfig describes the account created on first start when no user
// with that email exists yet.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

func (c *AdminConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.jwt_ttl", "24h")
	v.SetDefault("api.timezone", "")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("mongo.database", "campus_events")
	v.SetDefault("storage.max_upload_size", 5<<20)
	v.SetDefault("storage.max_image_width", 1600)
	v.SetDefault("admin.name", "Administrator")
	v.SetDefault("log.level", "info")
}

// Load reads the YAML file at path. Every key can be overridden by an
// environment variable named after it, e.g. POSTGRES_HOST for postgres.host.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{v: v}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) validate() error {
	if c.API.JWTSigningKey == "" {
		return fmt.Errorf("api.jwt_signing_key is required")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverMongo, c.Database.Driver)
	}

	if _, err := c.API.Location(); err != nil {
		return err
	}

	return nil
}

// Watch re-reads the log section whenever the config file changes and passes
// the new level to onLogLevel. Other sections need a restart.
func (c *AppConfig) Watch(onLogLevel func(level string)) {
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		level := c.v.GetString("log.level")
		if level == c.Log.Level {
			return
		}
		c.Log.Level = level
		onLogLevel(level)
	})
	c.v.WatchConfig()
}
