package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func newTestRuleStore(t *testing.T) RuleStore {
	t.Helper()
	store, err := NewRuleStore(openTestDB(t))
	require.NoError(t, err)
	return store
}

func sampleRule(name string) *entities.AlertRule {
	return &entities.AlertRule{
		Name:     name,
		Severity: "warning",
		Status:   "active",
		Enabled:  true,
		DataSource: entities.AlertDataSource{
			Kind:     entities.SourceKindList,
			ListName: "Tasks",
			SiteURL:  "https://intranet.example.com/sites/ops",
		},
		Conditions: []entities.AlertCondition{
			{Field: "Status", Operator: "equals", Value: "Late", SortOrder: 0},
			{Field: "Hours", Operator: "greaterThan", Value: "40", LogicalOperator: "OR", SortOrder: 1},
		},
		Actions: []entities.AlertAction{
			{Channel: "email", Enabled: true, Recipients: "ops@example.com", SortOrder: 0},
		},
		CheckIntervalSec: 300,
		MaxPerDay:        10,
	}
}

func TestRuleStore_CreateAndGet(t *testing.T) {
	store := newTestRuleStore(t)
	ctx := context.Background()

	rule := sampleRule("Late Tasks")
	require.NoError(t, store.Create(ctx, rule))
	require.NotZero(t, rule.ID)

	got, err := store.Get(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Late Tasks", got.Name)
	assert.Equal(t, "Tasks", got.DataSource.ListName)
	require.Len(t, got.Conditions, 2)
	assert.Equal(t, "Status", got.Conditions[0].Field)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "ops@example.com", got.Actions[0].Recipients)
}

func TestRuleStore_GetMissing(t *testing.T) {
	store := newTestRuleStore(t)

	_, err := store.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRuleStore_LoadAllOrdersConditions(t *testing.T) {
	store := newTestRuleStore(t)
	ctx := context.Background()

	rule := sampleRule("Ordered")
	// Insert out of order; LoadAll must sort by sort_order.
	rule.Conditions = []entities.AlertCondition{
		{Field: "B", Operator: "isNotEmpty", SortOrder: 1, LogicalOperator: "AND"},
		{Field: "A", Operator: "isNotEmpty", SortOrder: 0},
	}
	require.NoError(t, store.Create(ctx, rule))

	rules, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Conditions, 2)
	assert.Equal(t, "A", rules[0].Conditions[0].Field)
	assert.Equal(t, "B", rules[0].Conditions[1].Field)
}

func TestRuleStore_SaveAllWritesRuntimeFieldsOnly(t *testing.T) {
	store := newTestRuleStore(t)
	ctx := context.Background()

	rule := sampleRule("Runtime")
	require.NoError(t, store.Create(ctx, rule))

	triggered := time.Now().Truncate(time.Second)
	rule.LastTriggered = &triggered
	rule.LastChecked = &triggered
	rule.TriggerCount = 3
	// Name mutations must not flow through the runtime write-back path.
	rule.Name = "Hijacked"
	require.NoError(t, store.SaveAll(ctx, []entities.AlertRule{*rule}))

	got, err := store.Get(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Runtime", got.Name)
	assert.Equal(t, 3, got.TriggerCount)
	require.NotNil(t, got.LastTriggered)
	assert.WithinDuration(t, triggered, *got.LastTriggered, time.Second)
}

func TestRuleStore_UpdateReplacesConditions(t *testing.T) {
	store := newTestRuleStore(t)
	ctx := context.Background()

	rule := sampleRule("Editable")
	require.NoError(t, store.Create(ctx, rule))

	rule.Conditions = []entities.AlertCondition{
		{Field: "Priority", Operator: "equals", Value: "Critical"},
	}
	rule.Actions = []entities.AlertAction{
		{Channel: "banner", Enabled: true, Message: "{ruleName}"},
	}
	require.NoError(t, store.Update(ctx, rule))

	got, err := store.Get(ctx, rule.ID)
	require.NoError(t, err)
	require.Len(t, got.Conditions, 1, "old conditions are fully replaced, not merged")
	assert.Equal(t, "Priority", got.Conditions[0].Field)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "banner", got.Actions[0].Channel)
}

func TestRuleStore_UpdateRequiresID(t *testing.T) {
	store := newTestRuleStore(t)

	err := store.Update(context.Background(), sampleRule("no id"))
	assert.Error(t, err)
}

func TestRuleStore_DeleteAndToggle(t *testing.T) {
	store := newTestRuleStore(t)
	ctx := context.Background()

	rule := sampleRule("Doomed")
	require.NoError(t, store.Create(ctx, rule))

	require.NoError(t, store.Toggle(ctx, rule.ID, false))
	got, err := store.Get(ctx, rule.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	require.NoError(t, store.Delete(ctx, rule.ID))
	_, err = store.Get(ctx, rule.ID)
	assert.ErrorIs(t, err, ErrRuleNotFound)

	assert.ErrorIs(t, store.Delete(ctx, rule.ID), ErrRuleNotFound)
	assert.ErrorIs(t, store.Toggle(ctx, rule.ID, true), ErrRuleNotFound)
}

func TestRuleStore_ListFilters(t *testing.T) {
	store := newTestRuleStore(t)
	ctx := context.Background()

	warning := sampleRule("warning rule")
	require.NoError(t, store.Create(ctx, warning))

	critical := sampleRule("critical rule")
	critical.Severity = "critical"
	critical.Enabled = false
	require.NoError(t, store.Create(ctx, critical))

	bySeverity, err := store.List(ctx, RuleFilter{Severity: "critical"})
	require.NoError(t, err)
	require.Len(t, bySeverity, 1)
	assert.Equal(t, "critical rule", bySeverity[0].Name)

	enabled := true
	byEnabled, err := store.List(ctx, RuleFilter{Enabled: &enabled})
	require.NoError(t, err)
	require.Len(t, byEnabled, 1)
	assert.Equal(t, "warning rule", byEnabled[0].Name)

	all, err := store.List(ctx, RuleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRuleStore_CountByName(t *testing.T) {
	store := newTestRuleStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleRule("dup")))

	count, err := store.CountByName(ctx, "dup")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = store.CountByName(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, count)
}
