package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TwitterClientID     string
	TwitterClientSecret string
	CallbackURL         string
	SessionSecret       string
	CoinGeckoAPIKey     string
	DatabaseURL         string
	RedisURL            string
	TelegramBotToken    string
	TelegramChatID      int64
	CycleIntervalHours  int
	ListenAddr          string
}

func Load() *Config {
	cfg := &Config{
		TwitterClientID:     os.Getenv("TWITTER_CLIENT_ID"),
		TwitterClientSecret: os.Getenv("TWITTER_CLIENT_SECRET"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		CoinGeckoAPIKey:     os.Getenv("COINGECKO_API_KEY"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.TwitterClientID == "" || cfg.TwitterClientSecret == "" {
		log.Println("Warning: TWITTER_CLIENT_ID or TWITTER_CLIENT_SECRET not set, authorization will fail")
	}
	if cfg.CoinGeckoAPIKey == "" {
		log.Println("Warning: COINGECKO_API_KEY not set, calling CoinGecko without a key")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, publish history disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.CallbackURL = strings.TrimSpace(os.Getenv("TWITTER_CALLBACK_URL"))
	if cfg.CallbackURL == "" {
		cfg.CallbackURL = "http://127.0.0.1:3000/callback"
	}

	cfg.ListenAddr = strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3000"
	}

	cfg.CycleIntervalHours = 6
	if v := strings.TrimSpace(os.Getenv("CYCLE_INTERVAL_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CycleIntervalHours = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_CHAT_ID %q, operator alerts disabled", v)
		}
	}

	return cfg
}
