package alerting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/datasource"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

func tokensRule() *entities.AlertRule {
	return &entities.AlertRule{
		Name:     "Overdue Tasks",
		Severity: SeverityWarning,
		DataSource: entities.AlertDataSource{
			Kind:     entities.SourceKindList,
			ListName: "Tasks",
			SiteURL:  "https://intranet.example.com/sites/ops",
		},
		Conditions: []entities.AlertCondition{
			{Field: "Hours", Operator: OperatorGreaterThan, Value: "40"},
		},
	}
}

func TestBuildTokens(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)
	matches := []datasource.Record{
		{"Title": "Ship release", "Hours": 50},
		{"Title": "Write docs", "Hours": 44},
	}

	tokens := BuildTokens(tokensRule(), matches, now)

	assert.Equal(t, "Overdue Tasks", tokens[TokenRuleName])
	assert.Equal(t, SeverityWarning, tokens[TokenSeverity])
	assert.Equal(t, "Hours", tokens[TokenFieldName])
	assert.Equal(t, "50", tokens[TokenFieldValue], "field value comes from the first match only")
	assert.Equal(t, "40", tokens[TokenThreshold])
	assert.Equal(t, "Ship release", tokens[TokenItemTitle])
	assert.Equal(t, "Tasks", tokens[TokenListName])
	assert.Equal(t, "https://intranet.example.com/sites/ops", tokens[TokenSiteURL])
	assert.Equal(t, "2026-03-10T09:30:00Z", tokens[TokenTimestamp])
	assert.Equal(t, "2", tokens[TokenMatchCount])
}

func TestBuildTokens_DirectorySourceUsesEndpoint(t *testing.T) {
	t.Parallel()

	rule := tokensRule()
	rule.DataSource = entities.AlertDataSource{
		Kind:     entities.SourceKindDirectory,
		Endpoint: "https://directory.example.com/users",
	}

	tokens := BuildTokens(rule, nil, time.Now())
	assert.Equal(t, "https://directory.example.com/users", tokens[TokenListName])
}

func TestBuildTokens_TitleFallbackOrder(t *testing.T) {
	t.Parallel()

	rule := tokensRule()
	now := time.Now()

	tokens := BuildTokens(rule, []datasource.Record{{"displayName": "Jo Smith"}}, now)
	assert.Equal(t, "Jo Smith", tokens[TokenItemTitle])

	tokens = BuildTokens(rule, []datasource.Record{{"Name": "node-1", "displayName": "ignored"}}, now)
	assert.Equal(t, "node-1", tokens[TokenItemTitle], "Name outranks displayName")

	tokens = BuildTokens(rule, []datasource.Record{{"Id": 7}}, now)
	assert.Equal(t, "", tokens[TokenItemTitle])
}

func TestRender(t *testing.T) {
	t.Parallel()

	tokens := Tokens{
		TokenRuleName: "Overdue Tasks",
		TokenSeverity: SeverityCritical,
	}

	out := Render("[{severity}] {ruleName} / {ruleName}", tokens)
	assert.Equal(t, "[critical] Overdue Tasks / Overdue Tasks", out)

	// Unknown tokens pass through untouched, empty template stays empty.
	assert.Equal(t, "{nope}", Render("{nope}", tokens))
	assert.Equal(t, "", Render("", tokens))
}

func TestConditionSummary(t *testing.T) {
	t.Parallel()

	conds := []entities.AlertCondition{
		{Field: "Status", Operator: OperatorEquals, Value: "Late"},
		{Field: "Hours", Operator: OperatorBetween, Value: "40", Value2: "80", LogicalOperator: LogicalOr},
		{Field: "Owner", Operator: OperatorIsEmpty, LogicalOperator: LogicalAnd},
	}
	got := ConditionSummary(conds)
	assert.Equal(t, `Status equals "Late" OR Hours between [40, 80] AND Owner isEmpty`, got)

	// A blank logical operator renders as AND, mirroring evaluation.
	conds[1].LogicalOperator = ""
	assert.Contains(t, ConditionSummary(conds), `"Late" AND Hours`)

	assert.Equal(t, "", ConditionSummary(nil))
}

func TestTriggeredValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", TriggeredValue(nil))

	got := TriggeredValue([]datasource.Record{{"Title": "x", "Hours": 50}})
	assert.Contains(t, got, `"Title":"x"`)
	assert.Contains(t, got, `"Hours":50`)

	long := TriggeredValue([]datasource.Record{{"blob": strings.Repeat("a", 2000)}})
	assert.Len(t, long, maxTriggeredValueLen)
}
