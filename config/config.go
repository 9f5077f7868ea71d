package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	// maxStoredScale is the fractional precision of the NUMERIC(18,2) money columns.
	maxStoredScale = 2
	// DefaultMaxAmount is the largest value the money columns hold.
	DefaultMaxAmount = "9999999999999999.99"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// InMemory reports whether the process-local store is selected.
func (d DatabaseConfig) InMemory() bool {
	return strings.EqualFold(d.Driver, "memory")
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // idle timeout, refreshed on every resolved action
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// LedgerConfig tunes the transactional behaviour of ledger operations.
type LedgerConfig struct {
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	LockTimeout  time.Duration `mapstructure:"lock_timeout"`
	AmountScale  int32         `mapstructure:"amount_scale"` // max fractional digits of an amount
	MaxAmount    string        `mapstructure:"max_amount"`   // largest single amount or balance
}

// MaxAmountValue returns MaxAmount as a decimal, falling back to
// DefaultMaxAmount when it is unset or invalid.
func (c LedgerConfig) MaxAmountValue() decimal.Decimal {
	if d, err := decimal.NewFromString(c.MaxAmount); err == nil && d.IsPositive() {
		return d
	}
	return decimal.RequireFromString(DefaultMaxAmount)
}

// PolicyConfig is the registration validation policy.
// Decimal values are strings so that "1000.50" survives viper untouched.
type PolicyConfig struct {
	MinDeposit               string `mapstructure:"min_deposit"`
	MinPasswordLength        int    `mapstructure:"min_password_length"`
	RequireMixedCaseAndDigit bool   `mapstructure:"require_mixed_case_and_digit"`
	UsernamePattern          string `mapstructure:"username_pattern"`
	UsernameMinLength        int    `mapstructure:"username_min_length"`
	UsernameMaxLength        int    `mapstructure:"username_max_length"`
	FullNamePattern          string `mapstructure:"full_name_pattern"`
	FullNameMinLength        int    `mapstructure:"full_name_min_length"`
	FullNameMaxLength        int    `mapstructure:"full_name_max_length"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error, disabled
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: BANK_.
// Nested keys use underscore: BANK_DATABASE_HOST, BANK_POLICY_MIN_DEPOSIT, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: BANK_DATABASE_HOST -> database.host
	v.SetEnvPrefix("BANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "banking")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.ttl", "15m")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "1h")
	v.SetDefault("jwt.issuer", "simple-bank-ledger")

	v.SetDefault("ledger.max_retries", 3)
	v.SetDefault("ledger.retry_backoff", "50ms")
	v.SetDefault("ledger.lock_timeout", "2s")
	v.SetDefault("ledger.amount_scale", 2)
	v.SetDefault("ledger.max_amount", DefaultMaxAmount)

	v.SetDefault("policy.min_deposit", "1000")
	v.SetDefault("policy.min_password_length", 8)
	v.SetDefault("policy.require_mixed_case_and_digit", true)
	v.SetDefault("policy.username_pattern", `^[A-Za-z0-9_]+$`)
	v.SetDefault("policy.username_min_length", 3)
	v.SetDefault("policy.username_max_length", 20)
	v.SetDefault("policy.full_name_pattern", `^[\p{L} ]+$`)
	v.SetDefault("policy.full_name_min_length", 4)
	v.SetDefault("policy.full_name_max_length", 255)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Ledger.MaxRetries < 0 {
		return fmt.Errorf("ledger.max_retries must not be negative")
	}
	if c.Ledger.AmountScale < 0 || c.Ledger.AmountScale > maxStoredScale {
		return fmt.Errorf("ledger.amount_scale must be between 0 and %d", maxStoredScale)
	}
	maxAmount, err := decimal.NewFromString(c.Ledger.MaxAmount)
	if err != nil || !maxAmount.IsPositive() {
		return fmt.Errorf("ledger.max_amount must be a positive number, got %q", c.Ledger.MaxAmount)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	return nil
}
