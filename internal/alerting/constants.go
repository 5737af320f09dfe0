// Package alerting provides the alert-rule monitoring engine: condition
// evaluation, the tick-driven monitor loop, notification dispatch and
// token templating.
package alerting

// Severities order a rule's importance for display and banner styling.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
	SeveritySuccess  = "success"
)

// Rule statuses.
const (
	StatusActive       = "active"
	StatusSnoozed      = "snoozed"
	StatusAcknowledged = "acknowledged"
	StatusExpired      = "expired"
	StatusDisabled     = "disabled"
)

// Condition operators.
const (
	OperatorEquals         = "equals"
	OperatorNotEquals      = "notEquals"
	OperatorGreaterThan    = "greaterThan"
	OperatorLessThan       = "lessThan"
	OperatorGreaterOrEqual = "greaterOrEqual"
	OperatorLessOrEqual    = "lessOrEqual"
	OperatorBetween        = "between"
	OperatorNotBetween     = "notBetween"
	OperatorContains       = "contains"
	OperatorNotContains    = "notContains"
	OperatorChanged        = "changed"
	OperatorIsEmpty        = "isEmpty"
	OperatorIsNotEmpty     = "isNotEmpty"
)

// Logical operators joining condition i>0 with the running result.
const (
	LogicalAnd = "AND"
	LogicalOr  = "OR"
)

// Notification channels.
const (
	ChannelEmail  = "email"
	ChannelTeams  = "teams"
	ChannelBanner = "banner"
)

// Token names available to message templates. Substitution is literal
// text replacement of "{name}"; there is no templating language.
const (
	TokenRuleName   = "ruleName"
	TokenSeverity   = "severity"
	TokenFieldName  = "fieldName"
	TokenFieldValue = "fieldValue"
	TokenThreshold  = "threshold"
	TokenItemTitle  = "itemTitle"
	TokenListName   = "listName"
	TokenSiteURL    = "siteUrl"
	TokenTimestamp  = "timestamp"
	TokenMatchCount = "matchCount"
)

// Scheduling bounds enforced on rule configuration.
const (
	MinCheckIntervalSec = 60
	MaxCheckIntervalSec = 3600
	MinCooldownMin      = 0
	MaxCooldownMin      = 1440
	MinPerDay           = 1
	MaxPerDay           = 100
)

// maxTriggeredValueLen caps the serialized record snapshot stored in history.
const maxTriggeredValueLen = 500
