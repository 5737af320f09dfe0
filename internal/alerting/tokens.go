package alerting

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/datasource"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// Tokens is the closed substitution vocabulary for message templates.
type Tokens map[string]string

// DefaultEmailTemplate is used when a rule or action supplies no body.
const DefaultEmailTemplate = `<html><body>
<h2>{ruleName}</h2>
<p><strong>Severity:</strong> {severity}</p>
<p><strong>Matched item:</strong> {itemTitle}</p>
<p><strong>{fieldName}:</strong> {fieldValue} (threshold {threshold})</p>
<p>{matchCount} record(s) matched in {listName} at {timestamp}.</p>
<p><a href="{siteUrl}">Open source site</a></p>
</body></html>`

// DefaultChatTemplate is used for chat messages when no template is set.
const DefaultChatTemplate = `<b>{ruleName}</b> [{severity}]<br>` +
	`{itemTitle}: {fieldName} = {fieldValue}<br>` +
	`{matchCount} match(es) in {listName} at {timestamp}`

// DefaultEmailSubject is used when neither rule nor config supply a subject.
const DefaultEmailSubject = "[{severity}] {ruleName}"

// BuildTokens assembles substitution values from the first matched record.
func BuildTokens(rule *entities.AlertRule, matches []datasource.Record, now time.Time) Tokens {
	tokens := Tokens{
		TokenRuleName:   rule.Name,
		TokenSeverity:   rule.Severity,
		TokenFieldName:  "",
		TokenFieldValue: "",
		TokenThreshold:  "",
		TokenItemTitle:  "",
		TokenListName:   rule.DataSource.ListName,
		TokenSiteURL:    rule.DataSource.SiteURL,
		TokenTimestamp:  now.Format(time.RFC3339),
		TokenMatchCount: strconv.Itoa(len(matches)),
	}
	if rule.DataSource.Kind == entities.SourceKindDirectory {
		tokens[TokenListName] = rule.DataSource.Endpoint
	}
	if len(rule.Conditions) > 0 {
		tokens[TokenFieldName] = rule.Conditions[0].Field
		tokens[TokenThreshold] = rule.Conditions[0].Value
	}
	if len(matches) > 0 {
		first := matches[0]
		tokens[TokenItemTitle] = recordTitle(first)
		if field := tokens[TokenFieldName]; field != "" {
			tokens[TokenFieldValue] = stringify(first[field])
		}
	}
	return tokens
}

// Render substitutes every {token} occurrence literally. Values are inserted
// as-is; callers escape untrusted values when the target needs it.
func Render(template string, tokens Tokens) string {
	if template == "" {
		return ""
	}
	pairs := make([]string, 0, len(tokens)*2)
	for name, value := range tokens {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// recordTitle picks a display title from conventional title-ish fields.
func recordTitle(record datasource.Record) string {
	for _, key := range []string{"Title", "title", "Name", "name", "displayName"} {
		if v, ok := record[key]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// ConditionSummary renders a condition chain as a human-readable string for
// the history trail, e.g. `Status equals "Late" OR Hours greaterThan 40`.
func ConditionSummary(conditions []entities.AlertCondition) string {
	var b strings.Builder
	for i := range conditions {
		cond := &conditions[i]
		if i > 0 {
			op := cond.LogicalOperator
			if op != LogicalOr {
				op = LogicalAnd
			}
			b.WriteString(" " + op + " ")
		}
		switch cond.Operator {
		case OperatorIsEmpty, OperatorIsNotEmpty, OperatorChanged:
			fmt.Fprintf(&b, "%s %s", cond.Field, cond.Operator)
		case OperatorBetween, OperatorNotBetween:
			fmt.Fprintf(&b, "%s %s [%s, %s]", cond.Field, cond.Operator, cond.Value, cond.Value2)
		default:
			fmt.Fprintf(&b, "%s %s %q", cond.Field, cond.Operator, cond.Value)
		}
	}
	return b.String()
}

// TriggeredValue serializes the first matched record for the history trail,
// truncated to the store's column limit.
func TriggeredValue(matches []datasource.Record) string {
	if len(matches) == 0 {
		return ""
	}
	data, err := json.Marshal(matches[0])
	if err != nil {
		return ""
	}
	s := string(data)
	if len(s) > maxTriggeredValueLen {
		s = s[:maxTriggeredValueLen]
	}
	return s
}
