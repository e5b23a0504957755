package config

import (
	"time"

	"AstroTradeBot/internal/models"
)

type config struct {
	Gemini   GeminiConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Market   MarketConfig
	Bot      models.BotConfig
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type StorageConfig struct {
	SQLitePath string
}

type MarketConfig struct {
	TickInterval time.Duration
	BasePrice    float64
}

// UseCloud reports whether a postgres host is configured; without one the
// bot persists snapshots to the local sqlite store.
func (d DatabaseConfig) UseCloud() bool {
	return d.Host != ""
}
