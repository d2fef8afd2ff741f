package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/retvizor/invest-backend/pkg/log"
)

const (
	EnvProd = "prod"
	EnvTest = "test"
)

type Config struct {
	Env string `yaml:"env" env:"ENV" env-upd:""`

	Log Log `yaml:"log"`

	HTTP HTTP `yaml:"http"`

	Postgres Postgres `yaml:"postgres"`

	Moex Moex `yaml:"moex"`

	Tips Tips `yaml:"tips"`

	Quotes Quotes `yaml:"quotes"`
}

type Log struct {
	Level    string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-default:"console"`
}

type HTTP struct {
	Port         int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Database string `yaml:"database" env:"POSTGRES_DATABASE" env-upd:""`
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-upd:""`
	Schema   string `yaml:"schema" env:"POSTGRES_SCHEMA" env-upd:""`
	Username string `yaml:"username" env:"POSTGRES_USER" env-upd:""`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-upd:""`
	Port     int64  `yaml:"port" env:"POSTGRES_PORT" env-upd:""`
}

type Moex struct {
	BaseURL       string        `yaml:"base_url" env:"MOEX_BASE_URL" env-default:"https://iss.moex.com"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
	RetryAttempts uint64        `yaml:"retry_attempts" env-default:"3"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" env-default:"500ms"`
}

type Tips struct {
	BaseURL string        `yaml:"base_url" env:"TIPS_BASE_URL" env-upd:""`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Quotes struct {
	// RefreshSpec is a robfig/cron spec for the daily candle reconciler.
	RefreshSpec string        `yaml:"refresh_spec" env:"QUOTES_REFRESH_SPEC" env-default:"@every 10m"`
	StocksTTL   time.Duration `yaml:"stocks_ttl" env-default:"15m"`
}

func (c *Config) GetPostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Postgres.Username, c.Postgres.Password, c.Postgres.Host, c.Postgres.Port, c.Postgres.Database)
}

func GetConfig(configPath string) *Config {
	if configPath == "" {
		log.Fatal("config path is required")
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatal(err.Error())
	}

	if err := cleanenv.UpdateEnv(&cfg); err != nil {
		log.Fatal(err.Error())
	}

	return &cfg
}
