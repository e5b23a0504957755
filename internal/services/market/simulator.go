package market

import (
	"math/rand"
	"sync"
	"time"

	"AstroTradeBot/internal/models"
)

// SimulatorConfig holds tuning for the random-walk price source.
type SimulatorConfig struct {
	BasePrice  float64
	Volatility float64
	MinVolume  int
	MaxVolume  int
}

// DefaultSimulatorConfig returns the stock demo tuning: BTC-like base
// price with 0.2% volatility per tick.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		BasePrice:  96500,
		Volatility: 0.002,
		MinVolume:  10,
		MaxVolume:  110,
	}
}

// Simulator produces a random-walk candle sequence. Each instance owns its
// own last-price state; there are no package-level price globals.
type Simulator struct {
	config SimulatorConfig

	mu        sync.Mutex
	lastPrice float64
	rng       *rand.Rand
}

// NewSimulator creates a simulator seeded from the current time.
func NewSimulator(config SimulatorConfig) *Simulator {
	if config.BasePrice <= 0 {
		config.BasePrice = DefaultSimulatorConfig().BasePrice
	}
	if config.Volatility <= 0 {
		config.Volatility = DefaultSimulatorConfig().Volatility
	}
	if config.MaxVolume <= config.MinVolume {
		def := DefaultSimulatorConfig()
		config.MinVolume = def.MinVolume
		config.MaxVolume = def.MaxVolume
	}
	return &Simulator{
		config:    config,
		lastPrice: config.BasePrice,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next produces the next candle. The base price is the previous candle's
// close, or the seeded base price when no candle exists. It always succeeds.
func (s *Simulator) Next(last *models.Candle) models.Candle {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.lastPrice
	if last != nil {
		base = last.Close
	}

	volatility := base * s.config.Volatility
	change := (s.rng.Float64() - 0.5) * volatility
	closePrice := base + change

	high := maxFloat(base, closePrice) + s.rng.Float64()*(volatility*0.5)
	low := minFloat(base, closePrice) - s.rng.Float64()*(volatility*0.5)
	volume := float64(s.config.MinVolume + s.rng.Intn(s.config.MaxVolume-s.config.MinVolume))

	s.lastPrice = closePrice

	return models.Candle{
		Time:   time.Now(),
		Open:   base,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}
}

// SeedHistory walks the simulator n steps to produce an initial candle
// window, oldest first.
func (s *Simulator) SeedHistory(n int) []models.Candle {
	candles := make([]models.Candle, 0, n)
	var last *models.Candle
	start := time.Now().Add(-time.Duration(n) * 2 * time.Second)
	for i := 0; i < n; i++ {
		c := s.Next(last)
		c.Time = start.Add(time.Duration(i) * 2 * time.Second)
		candles = append(candles, c)
		last = &candles[len(candles)-1]
	}
	return candles
}

// LatestPrice returns the close of the most recently produced candle.
func (s *Simulator) LatestPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPrice
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
