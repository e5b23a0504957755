package models

// Snapshot is a full serialized copy of engine state used for save/restore.
// There is no versioning or partial merge; a missing field defaults
// independently on load.
type Snapshot struct {
	Config  BotConfig     `json:"config"`
	Trades  []Trade       `json:"trades"`
	Logs    []AnalysisLog `json:"logs"`
	Balance float64       `json:"balance"`
	Profit  float64       `json:"profit"`
}

// InitialBalance is the paper-trading balance a fresh session starts with.
const InitialBalance = 10000
