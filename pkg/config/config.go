package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Port string `mapstructure:"port"`
	} `mapstructure:"app"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	NBRB struct {
		BaseURL       string        `mapstructure:"base_url"`
		Timeout       time.Duration `mapstructure:"timeout"`
		MaxPeriodDays int           `mapstructure:"max_period_days"`
	} `mapstructure:"nbrb"`

	Sync struct {
		Enabled  bool   `mapstructure:"enabled"`
		Cron     string `mapstructure:"cron"`
		Location string `mapstructure:"location"`
		OnStart  bool   `mapstructure:"on_start"`
	} `mapstructure:"sync"`

	Postgres struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		DBName   string `mapstructure:"dbname"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"postgres"`
}

var defaultPaths = []string{".", "./config", "../config", "../../config"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "nbrb-service")
	v.SetDefault("app.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("nbrb.base_url", "https://www.nbrb.by/api/exrates")
	v.SetDefault("nbrb.timeout", 30*time.Second)
	v.SetDefault("nbrb.max_period_days", 366)

	// NBRB publishes the next day's rates around noon Minsk time.
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.cron", "30 12 * * *")
	v.SetDefault("sync.location", "Europe/Minsk")
	v.SetDefault("sync.on_start", true)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.dbname", "nbrb")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
}

// LoadConfig reads config.yaml from paths (or the default search paths),
// then applies environment overrides such as LOG_LEVEL or POSTGRES_HOST.
// A missing config file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		paths = defaultPaths
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
