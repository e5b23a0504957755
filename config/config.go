package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"AstroTradeBot/internal/models"

	"github.com/joho/godotenv"
)

func Load() (*config, error) {
	// .env is optional; fall back to the process environment
	_ = godotenv.Load()

	cfg := &config{
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     EnvtoInt(os.Getenv("DB_PORT")),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Storage: StorageConfig{
			SQLitePath: envOrDefault("SQLITE_PATH", "astrotrade.db"),
		},
		Market: MarketConfig{
			TickInterval: time.Duration(envToIntDefault("MARKET_TICK_SECONDS", 2)) * time.Second,
			BasePrice:    envToFloatDefault("MARKET_BASE_PRICE", 96500),
		},
		Bot: loadBotConfig(),
	}

	if err := cfg.Bot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bot config: %w", err)
	}

	return cfg, nil
}

// loadBotConfig starts from the stock defaults and applies env overrides.
func loadBotConfig() models.BotConfig {
	bot := models.DefaultBotConfig()

	bot.APIKey = os.Getenv("EXCHANGE_API_KEY")
	bot.APISecret = os.Getenv("EXCHANGE_API_SECRET")

	if v := os.Getenv("TRADING_PAIR"); v != "" {
		bot.Pair = v
	}
	bot.AmountPerTrade = envToFloatDefault("AMOUNT_PER_TRADE", bot.AmountPerTrade)
	if v := os.Getenv("RISK_TOLERANCE"); v != "" {
		bot.RiskTolerance = v
	}
	if v := os.Getenv("AI_INTERVAL_SECONDS"); v != "" {
		bot.AIIntervalSeconds = EnvtoInt(v)
	}
	bot.StopLossPct = envToFloatDefault("STOP_LOSS_PCT", bot.StopLossPct)
	bot.TakeProfitPct = envToFloatDefault("TAKE_PROFIT_PCT", bot.TakeProfitPct)
	if v := os.Getenv("TRADING_MODE"); v != "" {
		bot.TradingMode = v
	}

	return bot
}

// helper env(string) to int
func EnvtoInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envToIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envToFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
