package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"AstroTradeBot/config"
	"AstroTradeBot/internal/models"

	"github.com/go-resty/resty/v2"
)

// GeminiClient calls the Gemini generateContent endpoint for a trading
// recommendation constrained to the SignalResult JSON schema.
type GeminiClient struct {
	client *resty.Client
	apiKey string
	model  string
}

// NewGeminiClient creates a Gemini client. Returns nil if no API key is
// configured, which callers treat as "external provider unavailable".
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	if cfg.APIKey == "" {
		return nil
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(30 * time.Second)

	return &GeminiClient{
		client: client,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *schemaObject `json:"responseSchema,omitempty"`
}

type schemaObject struct {
	Type       string                 `json:"type"`
	Properties map[string]schemaField `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

type schemaField struct {
	Type        string   `json:"type"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func signalSchema() *schemaObject {
	return &schemaObject{
		Type: "OBJECT",
		Properties: map[string]schemaField{
			"action":     {Type: "STRING", Enum: []string{"BUY", "SELL", "HOLD"}},
			"confidence": {Type: "NUMBER", Description: "Confidence score between 0 and 100"},
			"reasoning":  {Type: "STRING", Description: "Short explanation of the decision (max 20 words)"},
			"riskLevel":  {Type: "STRING", Enum: []string{"LOW", "MEDIUM", "HIGH"}},
		},
		Required: []string{"action", "confidence", "reasoning", "riskLevel"},
	}
}

// Analyze sends the structured prompt and parses the schema-constrained
// response. Any transport or shape violation is returned as an error so the
// caller can fall back.
func (g *GeminiClient) Analyze(ctx context.Context, candles []models.Candle, news []models.MarketNews, botCfg models.BotConfig) (models.SignalResult, error) {
	var result models.SignalResult

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(candles, news, botCfg)}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   signalSchema(),
		},
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", g.model))
	if err != nil {
		return result, fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return result, fmt.Errorf("gemini API error %d: %s", resp.StatusCode(), resp.String())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return result, fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return result, errors.New("gemini response has no candidates")
	}

	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &result); err != nil {
		return result, fmt.Errorf("failed to parse signal payload: %w", err)
	}
	if err := validateResult(result); err != nil {
		return result, err
	}

	return result, nil
}

func validateResult(r models.SignalResult) error {
	if !models.ValidAction(r.Action) {
		return fmt.Errorf("invalid action %q", r.Action)
	}
	if !models.ValidRiskLevel(r.RiskLevel) {
		return fmt.Errorf("invalid risk level %q", r.RiskLevel)
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return fmt.Errorf("confidence %.2f out of range", r.Confidence)
	}
	return nil
}

type promptCandle struct {
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

// buildPrompt formats the last candles and headlines the way the analysis
// model expects them.
func buildPrompt(candles []models.Candle, news []models.MarketNews, botCfg models.BotConfig) string {
	recent := candles
	if len(recent) > promptCandleCount {
		recent = recent[len(recent)-promptCandleCount:]
	}
	compact := make([]promptCandle, 0, len(recent))
	for _, c := range recent {
		compact = append(compact, promptCandle{O: c.Open, H: c.High, L: c.Low, C: c.Close, V: c.Volume})
	}
	candleJSON, _ := json.Marshal(compact)

	headlines := ""
	limit := promptNewsCount
	if len(news) < limit {
		limit = len(news)
	}
	for i := 0; i < limit; i++ {
		headlines += "- " + news[i].Headline + "\n"
	}

	return fmt.Sprintf(`You are an expert crypto trading bot. Analyze the following market data for %s.

Strategy: %s

Recent Price Action (OHLC):
%s

Recent News Headlines:
%s
Based on this, determine the immediate trading action.
Respond in JSON format.`, botCfg.Pair, botCfg.RiskTolerance, candleJSON, headlines)
}

const (
	promptCandleCount = 10
	promptNewsCount   = 3
)
