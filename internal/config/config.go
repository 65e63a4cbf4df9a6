package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Session store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

const (
	envPrefix         = "BLOG"
	minSecretLen      = 16
	defaultConfigPath = "configs"
)

// Config holds every tunable of the service.
type Config struct {
	Port string    `mapstructure:"port"`
	Log  LogConfig `mapstructure:"log"`
	DB   DBConfig  `mapstructure:"db"`

	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console | json
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
	Store        string        `mapstructure:"store"` // sqlite | redis
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

var (
	errShortSecret  = fmt.Errorf("session.secret must be at least %d bytes", minSecretLen)
	errUnknownStore = errors.New("session.store must be sqlite or redis")
	errRedisAddr    = errors.New("redis.addr is required when session.store is redis")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("session.secret", "") // registered so BLOG_SESSION_SECRET is seen by Unmarshal
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("session.store", StoreSQLite)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.bcrypt_cost", 10)
}

// Flags declares the command line flags understood by Load.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", defaultConfigPath, "directory containing config.yml")
	fs.String("port", "", "HTTP port (overrides config)")
	fs.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	return fs
}

// Load reads config.yml from the directory named by the --config flag, applies
// BLOG_* environment overrides and explicit flags, then validates the result.
// A missing config file is not an error; defaults and environment still apply.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	dir := defaultConfigPath
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			dir = f.Value.String()
		}
	}
	v.AddConfigPath(dir) // <dir>/config.yml
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindChangedFlags(v, fs); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindChangedFlags binds only flags the user set, so unset flags never mask file values.
func bindChangedFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for flag, key := range map[string]string{"port": "port", "log-level": "log.level"} {
		f := fs.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// Validate checks invariants that defaults cannot guarantee.
func (c *Config) Validate() error {
	if len(c.Session.Secret) < minSecretLen {
		return errShortSecret
	}
	switch c.Session.Store {
	case StoreSQLite:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errRedisAddr
		}
	default:
		return errUnknownStore
	}
	return nil
}
