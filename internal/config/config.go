// Package config loads service settings from an optional YAML file and
// EVEANCHOR_* environment variables. Environment values win over the file.
//
// Keys are nested with dots in the file and with underscores in the
// environment: cache.redis_addr is EVEANCHOR_CACHE_REDIS_ADDR.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	EnvPrefix  = "EVEANCHOR"
	ConfigName = "eveanchor"
)

const (
	CacheLocal = "local"
	CacheRedis = "redis"
	CacheNone  = "none"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Data     DataConfig     `mapstructure:"data"`
	Cache    CacheConfig    `mapstructure:"cache"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
	Manager  ManagerConfig  `mapstructure:"manager"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Org      OrgConfig      `mapstructure:"org"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	// DSN selects postgres. An empty DSN keeps everything in memory.
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

type DataConfig struct {
	Dir        string `mapstructure:"dir"`
	TuningFile string `mapstructure:"tuning_file"`
	FetchURL   string `mapstructure:"fetch_url"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr"`
}

type HistoryConfig struct {
	// Path of the sqlite file. Empty disables the history.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ManagerConfig struct {
	Root string `mapstructure:"root"`
}

type ChatConfig struct {
	Addr  string  `mapstructure:"addr"`
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
	// AllowedOrigins lists the browser origins besides the gateway's own
	// host that may open a chat socket. "*" allows any.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type OrgConfig struct {
	Alliance    string `mapstructure:"alliance"`
	Corporation string `mapstructure:"corporation"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.migrate", true)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.tuning_file", "")
	v.SetDefault("data.fetch_url", "")
	v.SetDefault("cache.backend", CacheLocal)
	v.SetDefault("cache.ttl", 15*time.Minute)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("history.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("manager.root", "outposts")
	v.SetDefault("chat.addr", ":8081")
	v.SetDefault("chat.rate", 1.0)
	v.SetDefault("chat.burst", 3)
	v.SetDefault("chat.allowed_origins", []string{})
	v.SetDefault("org.alliance", "")
	v.SetDefault("org.corporation", "Eve Anchor")
}

// Load reads path when it is set, otherwise an eveanchor.yaml in the working
// directory if there is one.
func Load(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if strings.TrimSpace(c.Data.Dir) == "" {
		errs = append(errs, errors.New("data.dir is required"))
	}
	switch c.Cache.Backend {
	case CacheLocal, CacheNone:
	case CacheRedis:
		if strings.TrimSpace(c.Cache.RedisAddr) == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q: want local, redis or none", c.Cache.Backend))
	}
	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Chat.Rate < 0 {
		errs = append(errs, errors.New("chat.rate must not be negative"))
	}
	if strings.TrimSpace(c.Org.Corporation) == "" {
		errs = append(errs, errors.New("org.corporation is required"))
	}
	if c.Database.MaxOpenConns < 0 {
		errs = append(errs, errors.New("database.max_open_conns must not be negative"))
	}
	return errors.Join(errs...)
}
