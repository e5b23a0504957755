package repositories

import (
	"context"

	"AstroTradeBot/internal/models"
)

// SnapshotRepository persists full engine-state snapshots. Save is
// write-through after every state mutation; Load returns (nil, nil) when no
// prior snapshot exists, signaling "use defaults".
type SnapshotRepository interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
	Close() error
}
