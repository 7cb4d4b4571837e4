package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Port         string `mapstructure:"port"          json:"port"`
	DBDSN        string `mapstructure:"db_dsn"        json:"db_dsn"`
	MediaDir     string `mapstructure:"media_dir"     json:"media_dir"`
	StaticDir    string `mapstructure:"static_dir"    json:"static_dir"`
	TemplatesDir string `mapstructure:"templates_dir" json:"templates_dir"`
	LogFile      string `mapstructure:"log_file"      json:"log_file"`
	LogLevel     string `mapstructure:"log_level"     json:"log_level"`

	// Requests per minute per client IP; checkout submissions get a tenth.
	RateLimit int `mapstructure:"rate_limit" json:"rate_limit"`

	// Where the finished order is sent: https://<host>/<destination>?text=...
	HandoffHost        string        `mapstructure:"handoff_host"        json:"handoff_host"`
	HandoffDestination string        `mapstructure:"handoff_destination" json:"handoff_destination"`
	HandoffDelay       time.Duration `mapstructure:"handoff_delay"       json:"handoff_delay"`

	SessionStore  string        `mapstructure:"session_store"  json:"session_store"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"    json:"session_ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"     json:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" json:"-"`
	RedisDB       int           `mapstructure:"redis_db"       json:"redis_db"`

	MergeFlavorsAnyOrder bool `mapstructure:"merge_flavors_any_order" json:"merge_flavors_any_order"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_dsn", "lacasa.db")
	v.SetDefault("media_dir", "./web/media")
	v.SetDefault("static_dir", "./web/static")
	v.SetDefault("templates_dir", "./web/templates")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit", 120)
	v.SetDefault("handoff_host", "wa.me")
	v.SetDefault("handoff_destination", "573222461238")
	v.SetDefault("handoff_delay", time.Second)
	v.SetDefault("session_store", SessionStoreMemory)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("merge_flavors_any_order", false)
}

// Default returns the built-in settings without reading env or files.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads defaults, then the optional config file, then the environment
// (PORT, DB_DSN, HANDOFF_DELAY, ...). Later sources win.
func Load(file string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error when reading config with error=%w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config with error=%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.HandoffHost == "" || c.HandoffDestination == "" {
		errs = append(errs, errors.New("handoff host and destination are required"))
	}
	if c.HandoffDelay < 0 {
		errs = append(errs, errors.New("handoff delay must not be negative"))
	}
	if c.RateLimit < 1 {
		errs = append(errs, errors.New("rate limit must be positive"))
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown session store %q", c.SessionStore))
	}
	return errors.Join(errs...)
}
