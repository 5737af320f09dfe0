package repository

import (
	"context"
	"errors"
	"time"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// ErrHistoryNotFound is returned when a history entry ID does not exist.
var ErrHistoryNotFound = errors.New("history entry not found")

// HistoryStore is the append-only audit trail of rule firings.
// Entries are created by the monitor loop and later mutated in place by
// acknowledge/snooze; the engine never deletes them (retention cleanup is
// a separate administrative operation).
type HistoryStore interface {
	Append(ctx context.Context, entry *entities.HistoryEntry) error
	Acknowledge(ctx context.Context, id uint, actor string) error
	Snooze(ctx context.Context, id uint, until time.Time) error
	// Query returns up to max entries sorted by timestamp descending.
	Query(ctx context.Context, max int) ([]entities.HistoryEntry, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
