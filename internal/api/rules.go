package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/repository"
)

// ListRules returns all alert rules, optionally filtered.
func (c *Controller) ListRules(ctx echo.Context) error {
	filter := repository.RuleFilter{
		Severity: ctx.QueryParam("severity"),
	}
	if enabledParam := ctx.QueryParam("enabled"); enabledParam != "" {
		v := enabledParam == "true"
		filter.Enabled = &v
	}
	if builtInParam := ctx.QueryParam("built_in"); builtInParam != "" {
		v := builtInParam == "true"
		filter.BuiltIn = &v
	}

	rules, err := c.rules.List(ctx.Request().Context(), filter)
	if err != nil {
		c.log.Error("failed to list alert rules", logger.Error(err))
		return internalError(ctx, "Failed to list alert rules")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"rules": rules,
		"count": len(rules),
	})
}

// GetRule returns a single alert rule by ID.
func (c *Controller) GetRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid rule ID")
	}

	rule, err := c.rules.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		c.log.Error("failed to get alert rule", logger.Error(err))
		return internalError(ctx, "Failed to get alert rule")
	}
	return ctx.JSON(http.StatusOK, rule)
}

// CreateRule creates a new alert rule.
func (c *Controller) CreateRule(ctx echo.Context) error {
	var rule entities.AlertRule
	if err := ctx.Bind(&rule); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if msg := validateRule(&rule); msg != "" {
		return badRequest(ctx, msg)
	}

	count, err := c.rules.CountByName(ctx.Request().Context(), rule.Name)
	if err != nil {
		c.log.Error("failed to check rule name uniqueness", logger.Error(err))
		return internalError(ctx, "Failed to create alert rule")
	}
	if count > 0 {
		return ctx.JSON(http.StatusConflict, map[string]string{"error": "A rule with this name already exists"})
	}

	if err := c.rules.Create(ctx.Request().Context(), &rule); err != nil {
		c.log.Error("failed to create alert rule", logger.Error(err))
		return internalError(ctx, "Failed to create alert rule")
	}

	c.log.Info("alert rule created",
		logger.String("name", rule.Name),
		logger.Uint64("id", uint64(rule.ID)))
	return ctx.JSON(http.StatusCreated, rule)
}

// UpdateRule replaces an existing alert rule.
func (c *Controller) UpdateRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid rule ID")
	}

	existing, err := c.rules.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		return internalError(ctx, "Failed to get alert rule")
	}

	var rule entities.AlertRule
	if err := ctx.Bind(&rule); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if msg := validateRule(&rule); msg != "" {
		return badRequest(ctx, msg)
	}

	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt
	// Runtime fields belong to the monitor; an edit never resets them.
	rule.LastTriggered = existing.LastTriggered
	rule.LastChecked = existing.LastChecked
	rule.TriggerCount = existing.TriggerCount

	if err := c.rules.Update(ctx.Request().Context(), &rule); err != nil {
		c.log.Error("failed to update alert rule", logger.Error(err))
		return internalError(ctx, "Failed to update alert rule")
	}
	return ctx.JSON(http.StatusOK, rule)
}

// ToggleRule enables or disables a rule.
func (c *Controller) ToggleRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid rule ID")
	}

	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	if err := c.rules.Toggle(ctx.Request().Context(), id, body.Enabled); err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		c.log.Error("failed to toggle alert rule", logger.Error(err))
		return internalError(ctx, "Failed to toggle alert rule")
	}
	return ctx.JSON(http.StatusOK, map[string]any{"id": id, "enabled": body.Enabled})
}

// DeleteRule removes a rule.
func (c *Controller) DeleteRule(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid rule ID")
	}

	if err := c.rules.Delete(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		c.log.Error("failed to delete alert rule", logger.Error(err))
		return internalError(ctx, "Failed to delete alert rule")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ExportRules streams the rule collection in the legacy double-encoded
// format for compatibility with previously persisted rule sets.
func (c *Controller) ExportRules(ctx echo.Context) error {
	rules, err := c.rules.List(ctx.Request().Context(), repository.RuleFilter{})
	if err != nil {
		c.log.Error("failed to export alert rules", logger.Error(err))
		return internalError(ctx, "Failed to export alert rules")
	}

	data, err := repository.EncodeLegacyCollection(rules)
	if err != nil {
		c.log.Error("failed to encode rule collection", logger.Error(err))
		return internalError(ctx, "Failed to export alert rules")
	}
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// ImportRules ingests a legacy double-encoded rule collection, creating
// rules that do not already exist by name.
func (c *Controller) ImportRules(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	imported, err := repository.DecodeLegacyCollection(body)
	if err != nil {
		return badRequest(ctx, "Invalid rule collection: "+err.Error())
	}

	var created, skipped int
	for i := range imported {
		rule := &imported[i]
		count, err := c.rules.CountByName(ctx.Request().Context(), rule.Name)
		if err != nil {
			c.log.Error("failed to check rule name during import", logger.Error(err))
			return internalError(ctx, "Failed to import alert rules")
		}
		if count > 0 {
			skipped++
			continue
		}
		rule.ID = 0
		for j := range rule.Conditions {
			rule.Conditions[j].ID = 0
			rule.Conditions[j].RuleID = 0
		}
		for j := range rule.Actions {
			rule.Actions[j].ID = 0
			rule.Actions[j].RuleID = 0
		}
		if err := c.rules.Create(ctx.Request().Context(), rule); err != nil {
			c.log.Error("failed to create imported rule", logger.Error(err))
			return internalError(ctx, "Failed to import alert rules")
		}
		created++
	}

	c.log.Info("alert rules imported",
		logger.Int("created", created),
		logger.Int("skipped", skipped))
	return ctx.JSON(http.StatusOK, map[string]int{"created": created, "skipped": skipped})
}

func validateRule(rule *entities.AlertRule) string {
	if rule.Name == "" {
		return "Rule name is required"
	}
	if rule.CheckIntervalSec != 0 &&
		(rule.CheckIntervalSec < 60 || rule.CheckIntervalSec > 3600) {
		return "Check interval must be between 60 and 3600 seconds"
	}
	if rule.CooldownMin < 0 || rule.CooldownMin > 1440 {
		return "Cooldown must be between 0 and 1440 minutes"
	}
	if rule.MaxPerDay != 0 && (rule.MaxPerDay < 1 || rule.MaxPerDay > 100) {
		return "Max notifications per day must be between 1 and 100"
	}
	return ""
}
