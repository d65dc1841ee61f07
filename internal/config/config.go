package config

import (
	"strings"

	"streamhub-backend/internal/pkg/constants"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	SessionCookie       string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	DefaultCurrency     string
	DefaultPageSize     int
	MaxPageSize         int
	RateLimitRPS        float64
	RateLimitBurst      int
	SendinblueAPIKey    string // SENDINBLUE_API_KEY for decision emails (Brevo)
	MailFrom            string
	LogLevel            string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()
	return FromViper(v), nil
}

// FromViper reads every key from v with defaults applied.
func FromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SESSION_COOKIE", "streamhub.sid")
	v.SetDefault("DEFAULT_CURRENCY", constants.DefaultCurrency)
	v.SetDefault("DEFAULT_PAGE_SIZE", constants.DefaultPageSize)
	v.SetDefault("MAX_PAGE_SIZE", constants.MaxPageSize)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("MAIL_FROM", "noreply@streamhub.vn")
	v.SetDefault("LOG_LEVEL", "info")

	env := v.GetString("APP_ENV")
	dbURL := v.GetString("DATABASE_URL_DEV")
	switch env {
	case "production":
		dbURL = v.GetString("DATABASE_URL_PROD")
	case "test":
		dbURL = v.GetString("DATABASE_URL_TEST")
	}

	return &Config{
		Env:                 env,
		Port:                v.GetString("PORT"),
		DatabaseURL:         dbURL,
		RedisURL:            v.GetString("REDIS_URL"),
		SessionCookie:       v.GetString("SESSION_COOKIE"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		DefaultCurrency:     strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		DefaultPageSize:     v.GetInt("DEFAULT_PAGE_SIZE"),
		MaxPageSize:         v.GetInt("MAX_PAGE_SIZE"),
		RateLimitRPS:        v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:      v.GetInt("RATE_LIMIT_BURST"),
		SendinblueAPIKey:    v.GetString("SENDINBLUE_API_KEY"),
		MailFrom:            v.GetString("MAIL_FROM"),
		LogLevel:            v.GetString("LOG_LEVEL"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
