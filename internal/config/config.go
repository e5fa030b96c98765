package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Isolation policies applied by the postgres FundStore to every match run
const (
	IsolationRowLock      = "row_lock"
	IsolationAdvisory     = "advisory"
	IsolationSerializable = "serializable"
	IsolationNone         = "none"
)

// Process level match locks
const (
	LockNone   = "none"
	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config is the complete server configuration
type Config struct {
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type GRPCConfig struct {
	Port     int    `mapstructure:"port"`
	APIToken string `mapstructure:"api_token"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig holds postgres connection and pool settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnString      string        `mapstructure:"conn_string"` // Overrides the individual fields when set
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

// DSN returns the lib/pq connection string
func (c DatabaseConfig) DSN() string {
	if c.ConnString != "" {
		return c.ConnString
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type MatchingConfig struct {
	Isolation string        `mapstructure:"isolation"`
	Lock      string        `mapstructure:"lock"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
	LockWait  time.Duration `mapstructure:"lock_wait"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	LockKey  string `mapstructure:"lock_key"`
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// RabbitMQConfig configures event publication. An empty URL disables it.
type RabbitMQConfig struct {
	URL         string `mapstructure:"url"`
	ClosedQueue string `mapstructure:"closed_queue"`
	ReportQueue string `mapstructure:"report_queue"`
}

// ScheduleConfig holds cron expressions (seconds field first). Empty disables the job.
type ScheduleConfig struct {
	Reconcile string `mapstructure:"reconcile"`
	Report    string `mapstructure:"report"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig enables OTLP tracing when OTLPEndpoint is set
type TelemetryConfig struct {
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	Environment    string  `mapstructure:"environment"`
	SampleRatio    float64 `mapstructure:"sample_ratio"` // Share of root traces kept, 0..1
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grpc.port", 8080)
	v.SetDefault("grpc.api_token", "dev-token")

	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.sqlite_path", "charityflow.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "charityflow")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.conn_string", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrate", true)

	v.SetDefault("matching.isolation", IsolationRowLock)
	v.SetDefault("matching.lock", LockNone)
	v.SetDefault("matching.lock_ttl", 10*time.Second)
	v.SetDefault("matching.lock_wait", 5*time.Second)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_key", "charityflow:match-lock")

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.closed_queue", "charityflow.closed")
	v.SetDefault("rabbitmq.report_queue", "charityflow.report")

	v.SetDefault("schedule.reconcile", "0 */5 * * * *")
	v.SetDefault("schedule.report", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "charityflow")
	v.SetDefault("telemetry.service_version", "dev")
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("telemetry.sample_ratio", 1.0)
}

// Load reads configuration from defaults, an optional file and the environment.
// Environment variables use upper case with "_" for nesting, e.g. DATABASE_HOST.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown enum values and inconsistent settings
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Matching.Isolation {
	case IsolationRowLock, IsolationAdvisory, IsolationSerializable, IsolationNone:
	default:
		return fmt.Errorf("unknown matching.isolation %q", c.Matching.Isolation)
	}

	switch c.Matching.Lock {
	case LockNone, LockMemory:
	case LockRedis:
		if c.Matching.LockTTL <= 0 {
			return errors.New("matching.lock_ttl must be positive for the redis lock")
		}
	default:
		return fmt.Errorf("unknown matching.lock %q", c.Matching.Lock)
	}

	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("grpc.port %d out of range", c.GRPC.Port)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio %v must be within [0, 1]", c.Telemetry.SampleRatio)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}

	return nil
}
