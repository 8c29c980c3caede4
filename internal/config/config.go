package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env"
)

type Config struct {
	BotToken          string  `env:"BOT_TOKEN"`
	AdminIDs          []int64 `env:"ADMIN_IDS" envSeparator:","`
	AdminPasswordHash string  `env:"ADMIN_PASSWORD_HASH"`
	ServerAddr        string  `env:"RUN_ADDRESS"`
	LogLevel          string  `env:"LOG_LEVEL"`
	DatabaseURI       string  `env:"DATABASE_URI"`
	JWTSecretKey      string  `env:"JWT_SECRET_KEY"`
	OrderReward       float64 `env:"ORDER_REWARD"`
	ReferralPercent   float64 `env:"REFERRAL_PERCENT"`
	MinWithdrawal     float64 `env:"MIN_WITHDRAW_AMOUNT"`
}

func NewConfig() (Config, error) {
	cfg := Config{}

	flag.StringVar(&cfg.ServerAddr, "a", "0.0.0.0:8080", "ops API listening address [env:RUN_ADDRESS]")
	flag.StringVar(&cfg.LogLevel, "l", "info", "log output level [env:LOG_LEVEL]")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database connection string [env:DATABASE_URI]")
	flag.StringVar(&cfg.JWTSecretKey, "s", "secretkey", "JWT secret to sign ops API tokens [env:JWT_SECRET_KEY]")
	flag.Float64Var(&cfg.OrderReward, "w", 10000, "reward for an approved order [env:ORDER_REWARD]")
	flag.Float64Var(&cfg.ReferralPercent, "p", 0.10, "referrer share of the order reward [env:REFERRAL_PERCENT]")
	flag.Float64Var(&cfg.MinWithdrawal, "m", 1000, "minimum withdrawal amount [env:MIN_WITHDRAW_AMOUNT]")
	flag.Parse()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("env.Parse: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN must be set")
	}

	if len(c.AdminIDs) == 0 {
		return fmt.Errorf("ADMIN_IDS must be set")
	}

	if c.ReferralPercent < 0 || c.ReferralPercent > 1 {
		return fmt.Errorf("REFERRAL_PERCENT must be between 0 and 1")
	}

	if c.OrderReward < 0 {
		return fmt.Errorf("ORDER_REWARD must be non-negative")
	}

	return nil
}

// IsAdmin reports whether the given platform user id belongs to an
// administrator.
func (c Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}

	return false
}
