package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Banner is one live in-app notification entry.
type Banner struct {
	ID        string    `json:"id"`
	RuleID    uint      `json:"rule_id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	// AutoDismissMs of 0 means the banner stays until manually dismissed.
	AutoDismissMs int `json:"auto_dismiss_ms"`
}

// BannerListener receives every pushed banner.
type BannerListener func(Banner)

// BannerCenter is the in-process live notification list. Banners are not
// persisted anywhere; they exist only for the lifetime of the process.
type BannerCenter struct {
	mu        sync.RWMutex
	banners   []Banner
	listeners []BannerListener
	timers    map[string]*time.Timer
}

// NewBannerCenter creates an empty BannerCenter.
func NewBannerCenter() *BannerCenter {
	return &BannerCenter{timers: make(map[string]*time.Timer)}
}

// Push adds a severity-tagged banner and schedules auto-dismiss when
// autoDismissMs > 0. Returns the banner ID.
func (c *BannerCenter) Push(ruleID uint, message, severity string, autoDismissMs int) string {
	banner := Banner{
		ID:            uuid.NewString(),
		RuleID:        ruleID,
		Message:       message,
		Severity:      severity,
		CreatedAt:     time.Now(),
		AutoDismissMs: autoDismissMs,
	}

	c.mu.Lock()
	c.banners = append(c.banners, banner)
	listeners := make([]BannerListener, len(c.listeners))
	copy(listeners, c.listeners)
	if autoDismissMs > 0 {
		id := banner.ID
		c.timers[id] = time.AfterFunc(time.Duration(autoDismissMs)*time.Millisecond, func() {
			c.Dismiss(id)
		})
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(banner)
	}
	return banner.ID
}

// List returns a snapshot of the current banners, oldest first.
func (c *BannerCenter) List() []Banner {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Banner, len(c.banners))
	copy(out, c.banners)
	return out
}

// Dismiss removes a banner by ID. Safe to call for unknown IDs.
func (c *BannerCenter) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i := range c.banners {
		if c.banners[i].ID == id {
			c.banners = append(c.banners[:i], c.banners[i+1:]...)
			return
		}
	}
}

// Subscribe registers a listener for future banners.
func (c *BannerCenter) Subscribe(l BannerListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}
