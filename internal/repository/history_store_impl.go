package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
)

// historyStore implements HistoryStore on gorm with lazy provisioning.
// The table is migrated on first use; if provisioning fails (and keeps
// failing) the store degrades to a no-op so a broken history backend can
// never block rule evaluation: reads return empty, writes drop.
type historyStore struct {
	db            *gorm.DB
	log           logger.Logger
	autoProvision bool

	mu          sync.Mutex
	provisioned bool
	degraded    bool
}

// NewHistoryStore creates a HistoryStore. When autoProvision is false the
// table must already exist; a missing table then degrades the store.
func NewHistoryStore(db *gorm.DB, autoProvision bool, log logger.Logger) HistoryStore {
	return &historyStore{db: db, log: log, autoProvision: autoProvision}
}

// ensure provisions the history table on first use.
func (h *historyStore) ensure(ctx context.Context) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.provisioned {
		return true
	}
	if h.degraded {
		return false
	}

	if h.db.WithContext(ctx).Migrator().HasTable(&entities.HistoryEntry{}) {
		h.provisioned = true
		return true
	}
	if !h.autoProvision {
		h.degraded = true
		h.log.Warn("alert history table missing and auto-provisioning disabled, history disabled")
		return false
	}
	if err := h.db.WithContext(ctx).AutoMigrate(&entities.HistoryEntry{}); err != nil {
		h.degraded = true
		h.log.Error("failed to provision alert history table, history disabled", logger.Error(err))
		return false
	}
	h.provisioned = true
	return true
}

// Append writes a new history entry. The store assigns the entry ID.
func (h *historyStore) Append(ctx context.Context, entry *entities.HistoryEntry) error {
	if !h.ensure(ctx) {
		return nil // degraded: silently drop
	}
	if entry.Status == "" {
		entry.Status = entities.HistoryStatusActive
	}
	if err := h.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// Acknowledge marks an entry acknowledged by the given actor.
func (h *historyStore) Acknowledge(ctx context.Context, id uint, actor string) error {
	if !h.ensure(ctx) {
		return nil
	}
	now := time.Now()
	result := h.db.WithContext(ctx).Model(&entities.HistoryEntry{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":          entities.HistoryStatusAcknowledged,
			"acknowledged_by": actor,
			"acknowledged_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to acknowledge history entry %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHistoryNotFound
	}
	return nil
}

// Snooze suppresses an entry until the given time.
func (h *historyStore) Snooze(ctx context.Context, id uint, until time.Time) error {
	if !h.ensure(ctx) {
		return nil
	}
	result := h.db.WithContext(ctx).Model(&entities.HistoryEntry{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":        entities.HistoryStatusSnoozed,
			"snoozed_until": &until,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to snooze history entry %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHistoryNotFound
	}
	return nil
}

// Query returns up to max entries, newest first.
func (h *historyStore) Query(ctx context.Context, max int) ([]entities.HistoryEntry, error) {
	if !h.ensure(ctx) {
		return nil, nil // degraded: reads return empty
	}
	var items []entities.HistoryEntry
	query := h.db.WithContext(ctx).Order("timestamp DESC, id DESC")
	if max > 0 {
		query = query.Limit(max)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query alert history: %w", err)
	}
	return items, nil
}

// DeleteBefore removes entries older than the given time.
func (h *historyStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	if !h.ensure(ctx) {
		return 0, nil
	}
	result := h.db.WithContext(ctx).Where("timestamp < ?", before).Delete(&entities.HistoryEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete alert history before %v: %w", before, result.Error)
	}
	return result.RowsAffected, nil
}
