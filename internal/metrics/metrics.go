// Package metrics exposes Prometheus instrumentation for the engine.
// Every swallowed error site in the monitor loop increments a counter here
// so silent degradation is at least visible on the metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal counts completed monitor ticks.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hyperalert_ticks_total",
		Help: "Total number of completed monitor ticks",
	})

	// TicksSkipped counts ticks skipped before any rule ran.
	TicksSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hyperalert_ticks_skipped_total",
		Help: "Monitor ticks skipped before evaluating any rule",
	}, []string{"reason"}) // global_cooldown | in_progress

	// RulesEvaluated counts rules whose conditions were evaluated.
	RulesEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hyperalert_rules_evaluated_total",
		Help: "Total number of rule evaluations",
	})

	// RulesMatched counts rule evaluations that produced matches.
	RulesMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hyperalert_rules_matched_total",
		Help: "Total number of rule evaluations with at least one match",
	})

	// NotificationsSent counts notifications per channel.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hyperalert_notifications_sent_total",
		Help: "Notifications dispatched, by channel",
	}, []string{"channel"})

	// DispatchErrors counts swallowed per-channel dispatch failures.
	DispatchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hyperalert_dispatch_errors_total",
		Help: "Swallowed notification dispatch failures, by channel",
	}, []string{"channel"})

	// FetchErrors counts swallowed data source fetch failures.
	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hyperalert_fetch_errors_total",
		Help: "Swallowed data source fetch failures",
	})

	// HistoryErrors counts swallowed history store failures.
	HistoryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hyperalert_history_errors_total",
		Help: "Swallowed alert history write failures",
	})

	// PersistErrors counts failed rule collection write-backs.
	PersistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hyperalert_persist_errors_total",
		Help: "Failed rule collection write-backs",
	})

	// TickDuration observes how long one full tick takes.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hyperalert_tick_duration_seconds",
		Help:    "Duration of one monitor tick",
		Buckets: prometheus.DefBuckets,
	})
)
