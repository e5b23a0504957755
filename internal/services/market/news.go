package market

import (
	"strconv"
	"time"

	"AstroTradeBot/internal/models"
)

var newsHeadlines = []struct {
	headline string
	source   string
	ageHours int
}{
	{"SEC considers new crypto regulations for DeFi protocols", "CryptoWire", 1},
	{"Bitcoin breaks $96k resistance level amid institutional inflows", "CoinDesk", 2},
	{"MEXC announces new listing of AI-themed tokens", "Exchange News", 3},
	{"Federal Reserve signals potential rate cut next quarter", "Bloomberg", 4},
	{"Whale alert: 5000 BTC moved to cold storage", "WhaleAlert", 5},
}

// News returns up to limit mock headlines, newest first. The headlines are
// static demo data; only their timestamps are computed per call.
func News(limit int) []models.MarketNews {
	if limit <= 0 || limit > len(newsHeadlines) {
		limit = len(newsHeadlines)
	}
	now := time.Now()
	items := make([]models.MarketNews, 0, limit)
	for i := 0; i < limit; i++ {
		n := newsHeadlines[i]
		items = append(items, models.MarketNews{
			ID:        strconv.Itoa(i + 1),
			Headline:  n.headline,
			Source:    n.source,
			Timestamp: now.Add(-time.Duration(n.ageHours) * time.Hour),
		})
	}
	return items
}
