package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultRunAddress    = "localhost:8080"
	defaultMigrationsDir = "internal/db/migrations"
	defaultJWTTokenTTL   = time.Hour
	defaultMaxTopUp      = 100000
)

type Config struct {
	RunAddress     string          `env:"RUN_ADDRESS"`
	DatabaseDSN    string          `env:"DATABASE_URI"`
	MigrationsDir  string          `env:"MIGRATIONS_DIR"`
	JWTUserSecret  string          `env:"JWT_USER_SECRET"`
	JWTTokenTTL    time.Duration   `env:"JWT_TOKEN_TTL"`
	MaxTopUpAmount decimal.Decimal `env:"MAX_TOPUP_AMOUNT"`
}

// String не выводит секреты, конфиг пишется в лог при старте.
func (c Config) String() string {
	return fmt.Sprintf(
		"{RunAddress:%s MigrationsDir:%s JWTTokenTTL:%s MaxTopUpAmount:%s}",
		c.RunAddress, c.MigrationsDir, c.JWTTokenTTL, c.MaxTopUpAmount,
	)
}

// LoadConfig собирает конфиг из переменных окружения и флагов командной строки. Переменные окружения
// имеют приоритет. Если в рабочей директории есть файл .env, он загружается до чтения окружения.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", err.Error())
	}
	return load(os.Args[1:])
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func load(args []string) (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %s", flagsErr.Error())
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("jwt user secret is not set")
	}
	if conf.MaxTopUpAmount.IsNegative() {
		return nil, errors.New("max top up amount must not be negative")
	}
	return conf, nil
}

func loadFlags(flagConfig *Config, args []string) error {
	flags := flag.NewFlagSet("market", flag.ContinueOnError)
	flags.StringVar(&flagConfig.RunAddress, "a", defaultRunAddress, "Run address in format host:port")
	flags.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flags.StringVar(&flagConfig.MigrationsDir, "m", defaultMigrationsDir, "Database migrations directory")
	flags.StringVar(&flagConfig.JWTUserSecret, "s", "", "JWT secret for user tokens")
	flags.DurationVar(&flagConfig.JWTTokenTTL, "t", defaultJWTTokenTTL, "JWT token lifetime")
	flags.TextVar(&flagConfig.MaxTopUpAmount, "max-topup", decimal.NewFromInt(defaultMaxTopUp),
		"Max amount of a single balance top up, 0 disables the limit")

	return flags.Parse(args) //nolint:wrapcheck
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret:  defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret),
		JWTTokenTTL:    defaultIfZero(envConfig.JWTTokenTTL, flagsConfig.JWTTokenTTL),
		MaxTopUpAmount: defaultIfZeroDecimal(envConfig.MaxTopUpAmount, flagsConfig.MaxTopUpAmount),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func defaultIfZero(value, defaultValue time.Duration) time.Duration {
	if value == 0 {
		return defaultValue
	}
	return value
}

func defaultIfZeroDecimal(value, defaultValue decimal.Decimal) decimal.Decimal {
	if value.IsZero() {
		return defaultValue
	}
	return value
}
