package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"AstroTradeBot/internal/models"

	"gorm.io/gorm"
)

// Profile is the hosted-table row holding one user's bot state as a single
// JSON column.
type Profile struct {
	ID       string `gorm:"primaryKey"`
	BotState string `gorm:"type:jsonb"`

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// CloudSnapshotRepository persists snapshots to a profiles table keyed by
// user identity. Same logical contract as the local store.
type CloudSnapshotRepository struct {
	db     *gorm.DB
	userID string
}

// NewCloudSnapshotRepository creates the repository and migrates the
// profiles table.
func NewCloudSnapshotRepository(db *gorm.DB, userID string) (*CloudSnapshotRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if err := db.AutoMigrate(&Profile{}); err != nil {
		return nil, fmt.Errorf("migrate profiles: %w", err)
	}
	return &CloudSnapshotRepository{db: db, userID: userID}, nil
}

// Save upserts the user's profile row with the serialized snapshot.
func (r *CloudSnapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}

	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	var profile Profile
	return r.db.WithContext(ctx).
		Where("id = ?", r.userID).
		Assign(Profile{ID: r.userID, BotState: string(state)}).
		FirstOrCreate(&profile).Error
}

// Load reads the user's profile row back into a snapshot. A missing row or
// empty state column means no prior snapshot exists.
func (r *CloudSnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	var profile Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", r.userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile.BotState == "" {
		return nil, nil
	}

	snap := &models.Snapshot{
		Trades:  make([]models.Trade, 0),
		Logs:    make([]models.AnalysisLog, 0),
		Balance: models.InitialBalance,
	}
	if err := json.Unmarshal([]byte(profile.BotState), snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Close is a no-op for the shared gorm connection; the owner closes it.
func (r *CloudSnapshotRepository) Close() error {
	return nil
}
