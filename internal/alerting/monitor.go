package alerting

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/datasource"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/metrics"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/repository"
)

const (
	// cleanupTimeout is the context deadline for the periodic history deletion.
	cleanupTimeout = 5 * time.Second
	// cleanupInterval is how often the history cleanup goroutine runs.
	cleanupInterval = 1 * time.Hour
)

// MonitorConfig holds the settings one Monitor runs with.
type MonitorConfig struct {
	// GlobalCooldown is the minimum elapsed time since the last
	// notification from any rule before another tick may run. Zero
	// disables the gate.
	GlobalCooldown time.Duration
	Toggles        ChannelToggles
	Defaults       DispatchDefaults
}

// TickResult summarizes one monitor pass.
type TickResult struct {
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
	Evaluated  int    `json:"evaluated"`
	Matched    int    `json:"matched"`
	Notified   int    `json:"notified"`
}

// Monitor is the tick-driven scheduling loop. An external caller drives it
// (a time.Ticker in the serve command, or the API's manual tick endpoint);
// the Monitor itself owns no timer for rule evaluation.
//
// A mutex makes each tick single-flight: a tick arriving while another is
// in progress is skipped rather than interleaved, so rule runtime state is
// never mutated concurrently and a slow tick cannot cause double
// notifications.
type Monitor struct {
	rules      repository.RuleStore
	history    repository.HistoryStore
	source     datasource.Gateway
	dispatcher *Dispatcher
	tracker    *ChangeTracker
	log        logger.Logger
	cfg        MonitorConfig

	// now is swappable for tests.
	now func() time.Time

	tickMu sync.Mutex

	stateMu          sync.Mutex
	lastGlobalNotify time.Time

	cleanupStop chan struct{}
	cleanupMu   sync.Mutex
}

// NewMonitor creates a Monitor.
func NewMonitor(rules repository.RuleStore, history repository.HistoryStore, source datasource.Gateway, dispatcher *Dispatcher, cfg MonitorConfig, log logger.Logger) *Monitor {
	return &Monitor{
		rules:      rules,
		history:    history,
		source:     source,
		dispatcher: dispatcher,
		tracker:    NewChangeTracker(),
		log:        log,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Tick runs one full monitor pass over all rules.
//
// The global cooldown gate is checked first and blocks the entire pass,
// including LastChecked updates. Checking and notifying are conflated in
// the gate on purpose to stay compatible with existing deployments that
// rely on it to throttle data source load.
func (m *Monitor) Tick(ctx context.Context) (TickResult, error) {
	if !m.tickMu.TryLock() {
		metrics.TicksSkipped.WithLabelValues("in_progress").Inc()
		return TickResult{Skipped: true, SkipReason: "in_progress"}, nil
	}
	defer m.tickMu.Unlock()

	started := time.Now()
	defer func() { metrics.TickDuration.Observe(time.Since(started).Seconds()) }()

	now := m.now()

	if m.inGlobalCooldown(now) {
		metrics.TicksSkipped.WithLabelValues("global_cooldown").Inc()
		m.log.Debug("tick skipped by global cooldown")
		return TickResult{Skipped: true, SkipReason: "global_cooldown"}, nil
	}

	rules, err := m.rules.LoadAll(ctx)
	if err != nil {
		return TickResult{}, err
	}

	var result TickResult
	dirty := false
	for i := range rules {
		if m.runRule(ctx, &rules[i], now, &result) {
			dirty = true
		}
	}

	if dirty {
		if err := m.rules.SaveAll(ctx, rules); err != nil {
			// In-memory state is already updated; the next tick reloads
			// from the store, so a lost write-back may desynchronize
			// runtime fields. Surface it loudly.
			metrics.PersistErrors.Inc()
			m.log.Error("failed to persist rule runtime state", logger.Error(err))
		}
	}

	metrics.TicksTotal.Inc()
	return result, nil
}

// runRule processes a single rule within a tick and reports whether the
// rule's runtime fields were mutated.
func (m *Monitor) runRule(ctx context.Context, rule *entities.AlertRule, now time.Time, result *TickResult) bool {
	if !rule.Enabled {
		return false
	}
	if !withinActiveHours(rule.ActiveHoursStart, rule.ActiveHoursEnd, now) {
		return false
	}
	if m.inRuleCooldown(rule, now) {
		return false
	}

	mutated := false
	// TriggerCount is a per-day counter: reset on the first pass of a new
	// day rather than growing for the lifetime of the rule.
	if rule.TriggerCount > 0 && rule.LastTriggered != nil && !sameDay(*rule.LastTriggered, now) {
		rule.TriggerCount = 0
		mutated = true
	}
	if rule.MaxPerDay > 0 && rule.TriggerCount >= rule.MaxPerDay {
		return mutated
	}

	records, err := m.source.Fetch(ctx, rule.DataSource)
	if err != nil {
		// Skip this rule for this tick; no retry, next tick refetches.
		metrics.FetchErrors.Inc()
		m.log.Debug("data source fetch failed, skipping rule",
			logger.Uint64("rule_id", uint64(rule.ID)),
			logger.Error(err))
		return mutated
	}

	checked := now
	rule.LastChecked = &checked
	mutated = true

	metrics.RulesEvaluated.Inc()
	result.Evaluated++

	matches := m.matchRecords(rule, records, now)
	if len(matches) == 0 {
		return mutated
	}
	metrics.RulesMatched.Inc()
	result.Matched++

	tokens := BuildTokens(rule, matches, now)
	notified := m.dispatcher.Dispatch(ctx, rule, tokens, m.cfg.Toggles, m.cfg.Defaults)
	result.Notified += len(notified)

	triggered := now
	rule.LastTriggered = &triggered
	rule.TriggerCount++
	m.setLastGlobalNotify(now)

	entry := &entities.HistoryEntry{
		RuleID:           rule.ID,
		RuleName:         rule.Name,
		Severity:         rule.Severity,
		TriggeredValue:   TriggeredValue(matches),
		ConditionSummary: ConditionSummary(rule.Conditions),
		NotifiedChannels: strings.Join(notified, ","),
		Timestamp:        now,
		Status:           entities.HistoryStatusActive,
	}
	if err := m.history.Append(ctx, entry); err != nil {
		// Best-effort: history staleness never blocks rule processing.
		metrics.HistoryErrors.Inc()
		m.log.Error("failed to append history entry",
			logger.Uint64("rule_id", uint64(rule.ID)),
			logger.Error(err))
	}

	m.log.Info("alert rule triggered",
		logger.Uint64("rule_id", uint64(rule.ID)),
		logger.String("rule", rule.Name),
		logger.String("severity", rule.Severity),
		logger.Int("matches", len(matches)),
		logger.String("channels", strings.Join(notified, ",")))
	return true
}

// matchRecords evaluates the rule's condition chain against each record,
// substituting the change tracker's verdict for the "changed" operator.
func (m *Monitor) matchRecords(rule *entities.AlertRule, records []datasource.Record, now time.Time) []datasource.Record {
	if len(rule.Conditions) == 0 {
		return nil
	}
	var matched []datasource.Record
	for _, record := range records {
		if m.evalChain(rule, record, now) {
			matched = append(matched, record)
		}
	}
	return matched
}

func (m *Monitor) evalChain(rule *entities.AlertRule, record datasource.Record, now time.Time) bool {
	conditions := rule.Conditions
	result := m.evalCondition(rule, record, &conditions[0], now)
	for i := 1; i < len(conditions); i++ {
		cond := &conditions[i]
		if cond.LogicalOperator == LogicalOr {
			result = result || m.evalCondition(rule, record, cond, now)
		} else {
			result = result && m.evalCondition(rule, record, cond, now)
		}
	}
	return result
}

func (m *Monitor) evalCondition(rule *entities.AlertRule, record datasource.Record, cond *entities.AlertCondition, now time.Time) bool {
	if cond.Operator == OperatorChanged {
		return m.tracker.Observe(rule.ID, cond.Field, stringify(record[cond.Field]), now)
	}
	return EvaluateCondition(record[cond.Field], cond.Operator, cond.Value, cond.Value2)
}

func (m *Monitor) inGlobalCooldown(now time.Time) bool {
	if m.cfg.GlobalCooldown <= 0 {
		return false
	}
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.lastGlobalNotify.IsZero() {
		return false
	}
	return now.Sub(m.lastGlobalNotify) < m.cfg.GlobalCooldown
}

func (m *Monitor) setLastGlobalNotify(now time.Time) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.lastGlobalNotify = now
}

func (m *Monitor) inRuleCooldown(rule *entities.AlertRule, now time.Time) bool {
	if rule.CooldownMin <= 0 || rule.LastTriggered == nil {
		return false
	}
	return now.Sub(*rule.LastTriggered) < time.Duration(rule.CooldownMin)*time.Minute
}

// withinActiveHours reports whether now falls in the rule's daily window.
// A start later than the end wraps past midnight. Missing or unparseable
// bounds mean always active.
func withinActiveHours(start, end string, now time.Time) bool {
	startMin, okStart := parseClock(start)
	endMin, okEnd := parseClock(end)
	if !okStart || !okEnd {
		return true
	}
	if startMin == endMin {
		return true
	}
	cur := now.Hour()*60 + now.Minute()
	if startMin < endMin {
		return cur >= startMin && cur < endMin
	}
	return cur >= startMin || cur < endMin
}

// parseClock parses "HH:mm" into minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartHistoryCleanup starts a background goroutine that periodically
// deletes history entries older than retentionDays. 0 disables cleanup.
func (m *Monitor) StartHistoryCleanup(retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	m.stopCleanup()
	m.cleanupMu.Lock()
	m.cleanupStop = make(chan struct{})
	stopCh := m.cleanupStop
	m.cleanupMu.Unlock()
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -retentionDays)
				cleanupCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
				deleted, err := m.history.DeleteBefore(cleanupCtx, cutoff)
				cancel()
				if err != nil {
					m.log.Error("history cleanup failed", logger.Error(err))
				} else if deleted > 0 {
					m.log.Info("history cleanup completed",
						logger.Int64("deleted", deleted),
						logger.Int("retention_days", retentionDays))
				}
			case <-stopCh:
				return
			}
		}
	}()
}

// stopCleanup signals the cleanup goroutine to exit. The mutex makes the
// nil-check-then-close atomic so Stop and StartHistoryCleanup cannot race
// into a double close.
func (m *Monitor) stopCleanup() {
	m.cleanupMu.Lock()
	ch := m.cleanupStop
	m.cleanupStop = nil
	m.cleanupMu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Stop shuts down background goroutines.
func (m *Monitor) Stop() {
	m.stopCleanup()
}
