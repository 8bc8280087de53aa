package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/reward"
)

type Config struct {
	// Core
	BotToken      string `env:"BOT_TOKEN,required"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`

	// Automation account
	TelegramAppID   int    `env:"TG_API_ID,required"`
	TelegramAppHash string `env:"TG_API_HASH,required"`
	TelegramPhone   string `env:"TG_PHONE"`
	SessionFile     string `env:"TG_SESSION_FILE" envDefault:"session.json"`
	OwnerUsername   string `env:"OWNER_USERNAME,required"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Rewards
	RewardTable reward.Table    `env:"REWARD_TABLE" envDefault:"2022:400,2023:300,2024:200"`
	RewardOlder decimal.Decimal `env:"REWARD_OLDER" envDefault:"500"`

	// Currencies, rates are canonical units per unit of currency
	CurrencyRates      currency.Rates  `env:"CURRENCY_RATES" envDefault:"usd:80,gbp:100,rub:0.9,inr:1"`
	DefaultCurrency    string          `env:"DEFAULT_CURRENCY" envDefault:"usd"`
	WithdrawCurrency   string          `env:"WITHDRAW_CURRENCY" envDefault:"usd"`
	MinWithdrawBalance decimal.Decimal `env:"MIN_WITHDRAW_BALANCE" envDefault:"700"`
	MinWithdrawAmount  decimal.Decimal `env:"MIN_WITHDRAW_AMOUNT" envDefault:"10"`

	// Server
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":10000"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
	PreviewCheck       bool `env:"PREVIEW_CHECK" envDefault:"true"`

	// Join sweeper
	SweepSchedule string        `env:"SWEEP_SCHEDULE" envDefault:"@every 15m"`
	SweepGrace    time.Duration `env:"SWEEP_GRACE" envDefault:"30m"`
	SweepKeepIDs  []int64       `env:"SWEEP_KEEP_IDS" envSeparator:","`

	// Logging
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
	LogTelegramChatID    int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError        int    `env:"LOG_TOPIC_ERROR"`
	LogTopicReward       int    `env:"LOG_TOPIC_REWARD"`
	LogTopicWithdrawal   int    `env:"LOG_TOPIC_WITHDRAWAL"`
	LogTopicRegistration int    `env:"LOG_TOPIC_REGISTRATION"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StorageDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
	}
	codes := make([]string, len(c.CurrencyRates))
	for i, r := range c.CurrencyRates {
		codes[i] = r.Code
	}
	if !slices.Contains(codes, c.DefaultCurrency) {
		return fmt.Errorf("DEFAULT_CURRENCY %q has no rate", c.DefaultCurrency)
	}
	if !slices.Contains(codes, c.WithdrawCurrency) {
		return fmt.Errorf("WITHDRAW_CURRENCY %q has no rate", c.WithdrawCurrency)
	}
	c.OwnerUsername = strings.TrimPrefix(c.OwnerUsername, "@")
	return nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	return slices.Contains(c.AdminIDs, telegramID)
}

func (c *Config) RewardPolicy() *reward.Policy {
	return reward.NewPolicy(c.RewardTable, c.RewardOlder)
}
