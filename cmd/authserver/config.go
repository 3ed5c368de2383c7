package main

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// serverConfig holds process configuration loaded from env and an optional
// .env file.
type serverConfig struct {
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisPass   string `mapstructure:"REDIS_PASSWORD"`

	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
	BcryptCost    int           `mapstructure:"BCRYPT_COST"`
	ResetCodeTTL  time.Duration `mapstructure:"RESET_CODE_TTL"`

	MailDriver   string `mapstructure:"MAIL_DRIVER"` // "smtp" or "log"
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
}

// loadConfig reads .env if present, then the environment. Env vars win.
func loadConfig() (*serverConfig, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RESET_CODE_TTL", "1h")
	v.SetDefault("MAIL_DRIVER", "log")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "")

	var cfg serverConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("config: SESSION_SECRET must be at least 32 bytes")
	}
	if cfg.MailDriver != "smtp" && cfg.MailDriver != "log" {
		return nil, errors.New("config: MAIL_DRIVER must be smtp or log")
	}
	if cfg.MailDriver == "smtp" && (cfg.SMTPHost == "" || cfg.MailFrom == "") {
		return nil, errors.New("config: SMTP_HOST and MAIL_FROM required for smtp mail driver")
	}
	return &cfg, nil
}
