package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"AstroTradeBot/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Logical state keys, one row each.
const (
	keyConfig  = "config"
	keyTrades  = "trades"
	keyLogs    = "logs"
	keyBalance = "balance"
	keyProfit  = "profit"
)

// SQLiteSnapshotRepository stores the snapshot as JSON values in a local
// key-value table, one row per logical key.
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepository opens (or creates) the local state database.
func NewSQLiteSnapshotRepository(dbPath string) (*SQLiteSnapshotRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path is required")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	schema := `
CREATE TABLE IF NOT EXISTS bot_state (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteSnapshotRepository{db: db}, nil
}

func (r *SQLiteSnapshotRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Save writes the full snapshot, one upsert per logical key, in a single
// transaction.
func (r *SQLiteSnapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}

	configJSON, err := json.Marshal(snap.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tradesJSON, err := json.Marshal(snap.Trades)
	if err != nil {
		return fmt.Errorf("marshal trades: %w", err)
	}
	logsJSON, err := json.Marshal(snap.Logs)
	if err != nil {
		return fmt.Errorf("marshal logs: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		keyConfig:  string(configJSON),
		keyTrades:  string(tradesJSON),
		keyLogs:    string(logsJSON),
		keyBalance: strconv.FormatFloat(snap.Balance, 'f', -1, 64),
		keyProfit:  strconv.FormatFloat(snap.Profit, 'f', -1, 64),
	}
	for key, value := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bot_state (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value)
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Load reads the snapshot back. A missing config key means no prior
// snapshot exists; every other field defaults independently when absent.
func (r *SQLiteSnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	configValue, ok, err := r.get(ctx, keyConfig)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	snap := &models.Snapshot{
		Trades:  make([]models.Trade, 0),
		Logs:    make([]models.AnalysisLog, 0),
		Balance: models.InitialBalance,
	}
	if err := json.Unmarshal([]byte(configValue), &snap.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if value, ok, err := r.get(ctx, keyTrades); err != nil {
		return nil, err
	} else if ok {
		if err := json.Unmarshal([]byte(value), &snap.Trades); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
	}

	if value, ok, err := r.get(ctx, keyLogs); err != nil {
		return nil, err
	} else if ok {
		if err := json.Unmarshal([]byte(value), &snap.Logs); err != nil {
			return nil, fmt.Errorf("unmarshal logs: %w", err)
		}
	}

	if value, ok, err := r.get(ctx, keyBalance); err != nil {
		return nil, err
	} else if ok {
		if balance, err := strconv.ParseFloat(value, 64); err == nil {
			snap.Balance = balance
		}
	}

	if value, ok, err := r.get(ctx, keyProfit); err != nil {
		return nil, err
	} else if ok {
		if profit, err := strconv.ParseFloat(value, 64); err == nil {
			snap.Profit = profit
		}
	}

	return snap, nil
}

func (r *SQLiteSnapshotRepository) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM bot_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}
