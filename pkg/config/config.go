package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/db"
	"liyu1981.xyz/device-health-service/pkg/quiz"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Limiter    LimiterConfig    `mapstructure:"limiter"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	ServiceBus ServiceBusConfig `mapstructure:"servicebus"`
	Quiz       QuizConfig       `mapstructure:"quiz"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type LimiterConfig struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

// RedisConfig leaves the settings cache off when Addr is empty.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	TTL         time.Duration `mapstructure:"ttl"`
}

type MQTTConfig struct {
	BrokerURL      string        `mapstructure:"broker_url"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	TopicPrefix    string        `mapstructure:"topic_prefix"`
	QoS            byte          `mapstructure:"qos"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type ServiceBusConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	QueueName        string `mapstructure:"queue_name"`
}

// QuizConfig falls back to rule based analysis when GeminiAPIKey is empty.
type QuizConfig struct {
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"server.http_addr":        ":1080",
	"server.grpc_addr":        ":10801",
	"server.read_timeout":     "15s",
	"server.write_timeout":    "15s",
	"server.shutdown_timeout": "10s",

	"database.type":              db.TypeFile,
	"database.path":              db.DefaultSqlitePath,
	"database.dsn":               "",
	"database.max_open_conns":    25,
	"database.max_idle_conns":    10,
	"database.conn_max_lifetime": "5m",

	"limiter.rate":  5.0,
	"limiter.burst": 10,

	"redis.addr":         "",
	"redis.password":     "",
	"redis.db":           0,
	"redis.pool_size":    10,
	"redis.dial_timeout": "5s",
	"redis.ttl":          "5m",

	"mqtt.broker_url":      "",
	"mqtt.client_id":       "",
	"mqtt.username":        "",
	"mqtt.password":        "",
	"mqtt.topic_prefix":    "device-health",
	"mqtt.qos":             1,
	"mqtt.connect_timeout": "10s",

	"servicebus.connection_string": "",
	"servicebus.queue_name":        "device-health-events",

	"quiz.gemini_api_key": "",
	"quiz.model":          quiz.DefaultModel,
	"quiz.timeout":        quiz.DefaultTimeout,

	"auth.secret":    "",
	"auth.issuer":    "device-health-service",
	"auth.token_ttl": "12h",

	"log.dir":   "",
	"log.level": "info",
}

// New returns a viper instance with defaults and DH_ env binding, so
// database.dsn is read from DH_DATABASE_DSN.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(common.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are skipped; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load reads the optional yaml file at configPath on top of defaults, then
// environment variables on top of both.
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return LoadWith(New(), configPath)
}

func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Type {
	case db.TypeFile, db.TypeMemory:
	case db.TypePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required when database.type is %s", db.TypePostgres)
		}
	default:
		return fmt.Errorf("unknown database.type %q", c.Database.Type)
	}

	if c.Limiter.Rate <= 0 {
		return fmt.Errorf("limiter.rate must be positive, got %v", c.Limiter.Rate)
	}
	if c.Limiter.Burst <= 0 {
		return fmt.Errorf("limiter.burst must be positive, got %v", c.Limiter.Burst)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %v", c.MQTT.QoS)
	}
	if c.ServiceBus.ConnectionString != "" && c.ServiceBus.QueueName == "" {
		return fmt.Errorf("servicebus.queue_name is required with a connection string")
	}

	return nil
}

// PoolOptions maps the database section onto the connection pool knobs.
func (d DatabaseConfig) PoolOptions() db.PoolOptions {
	return db.PoolOptions{
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
	}
}
