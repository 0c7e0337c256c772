package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`

	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`

	Store  StoreConfig  `mapstructure:"store"`
	Collab CollabConfig `mapstructure:"collab"`
}

type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type CollabConfig struct {
	SingleSession bool          `mapstructure:"single_session"`
	StrictEvents  bool          `mapstructure:"strict_events"`
	JoinLimit     int           `mapstructure:"join_limit"`
	JoinInterval  time.Duration `mapstructure:"join_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3001)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", os.Getenv("JWT_SECRET"))
	v.SetDefault("token_ttl", "168h")
	v.SetDefault("mongo_uri", os.Getenv("MONGODB_URI"))
	v.SetDefault("mongo_db", "designsync")
	v.SetDefault("store.timeout", "5s")
	v.SetDefault("collab.single_session", true)
	v.SetDefault("collab.strict_events", false)
	v.SetDefault("collab.join_limit", 10)
	v.SetDefault("collab.join_interval", "10s")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	if c.Secret == "" {
		if c.Mode != "debug" {
			return errors.New("secret is required outside debug mode")
		}
		// Fixed key so local debug runs work without any setup.
		c.Secret = "fallback_secret_key"
	}
	if c.Collab.JoinLimit <= 0 {
		c.Collab.JoinLimit = 10
	}
	if c.Store.Timeout <= 0 {
		c.Store.Timeout = 5 * time.Second
	}
	return nil
}
