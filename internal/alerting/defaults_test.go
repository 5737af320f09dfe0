package alerting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

type seedStore struct {
	mockRuleStore
	created []string
}

func (s *seedStore) Create(_ context.Context, rule *entities.AlertRule) error {
	s.created = append(s.created, rule.Name)
	s.rules = append(s.rules, *rule)
	return nil
}

func TestSeedDefaultRules_FreshStore(t *testing.T) {
	t.Parallel()

	store := &seedStore{}
	require.NoError(t, SeedDefaultRules(context.Background(), store, testLogger()))

	defaults := DefaultRules()
	require.Len(t, store.created, len(defaults))
	for i, rule := range defaults {
		assert.Equal(t, rule.Name, store.created[i])
	}
}

func TestSeedDefaultRules_PartialSeedSelfHeals(t *testing.T) {
	t.Parallel()

	defaults := DefaultRules()
	store := &seedStore{}
	store.rules = []entities.AlertRule{{ID: 1, Name: defaults[0].Name}}

	require.NoError(t, SeedDefaultRules(context.Background(), store, testLogger()))
	assert.Len(t, store.created, len(defaults)-1, "only the missing built-ins are created")
	assert.NotContains(t, store.created, defaults[0].Name)
}

func TestSeedDefaultRules_Idempotent(t *testing.T) {
	t.Parallel()

	store := &seedStore{}
	require.NoError(t, SeedDefaultRules(context.Background(), store, testLogger()))
	firstRun := len(store.created)

	require.NoError(t, SeedDefaultRules(context.Background(), store, testLogger()))
	assert.Len(t, store.created, firstRun, "a second seed run creates nothing")
}

func TestDefaultRules_AreWellFormed(t *testing.T) {
	t.Parallel()

	for _, rule := range DefaultRules() {
		assert.True(t, rule.BuiltIn)
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Conditions)
		assert.NotEmpty(t, rule.Actions)
		assert.GreaterOrEqual(t, rule.CheckIntervalSec, MinCheckIntervalSec)
		assert.LessOrEqual(t, rule.CheckIntervalSec, MaxCheckIntervalSec)
		assert.GreaterOrEqual(t, rule.MaxPerDay, MinPerDay)
		assert.LessOrEqual(t, rule.MaxPerDay, MaxPerDay)
	}
}
