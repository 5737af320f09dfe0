package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/repository"
)

// ListHistory returns recent history entries, newest first.
func (c *Controller) ListHistory(ctx echo.Context) error {
	limit := c.maxHistoryItems
	if limitParam := ctx.QueryParam("limit"); limitParam != "" {
		v, err := strconv.Atoi(limitParam)
		if err != nil || v < 1 {
			return badRequest(ctx, "Invalid limit")
		}
		if v < limit {
			limit = v
		}
	}

	entries, err := c.history.Query(ctx.Request().Context(), limit)
	if err != nil {
		c.log.Error("failed to query alert history", logger.Error(err))
		return internalError(ctx, "Failed to query alert history")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// AcknowledgeEntry marks a history entry acknowledged.
func (c *Controller) AcknowledgeEntry(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid history entry ID")
	}

	var body struct {
		Actor string `json:"actor"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if body.Actor == "" {
		return badRequest(ctx, "Actor is required")
	}

	if err := c.history.Acknowledge(ctx.Request().Context(), id, body.Actor); err != nil {
		if errors.Is(err, repository.ErrHistoryNotFound) {
			return notFound(ctx, "History entry not found")
		}
		c.log.Error("failed to acknowledge history entry", logger.Error(err))
		return internalError(ctx, "Failed to acknowledge history entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SnoozeEntry suppresses a history entry until the given time.
func (c *Controller) SnoozeEntry(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid history entry ID")
	}

	var body struct {
		Until time.Time `json:"until"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if body.Until.IsZero() || body.Until.Before(time.Now()) {
		return badRequest(ctx, "Snooze time must be in the future")
	}

	if err := c.history.Snooze(ctx.Request().Context(), id, body.Until); err != nil {
		if errors.Is(err, repository.ErrHistoryNotFound) {
			return notFound(ctx, "History entry not found")
		}
		c.log.Error("failed to snooze history entry", logger.Error(err))
		return internalError(ctx, "Failed to snooze history entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ListBanners returns the live banner list.
func (c *Controller) ListBanners(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.banners.List())
}

// DismissBanner removes a banner by ID.
func (c *Controller) DismissBanner(ctx echo.Context) error {
	c.banners.Dismiss(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

// TriggerTick runs one monitor pass on demand.
func (c *Controller) TriggerTick(ctx echo.Context) error {
	result, err := c.monitor.Tick(ctx.Request().Context())
	if err != nil {
		c.log.Error("manual tick failed", logger.Error(err))
		return internalError(ctx, "Tick failed")
	}
	return ctx.JSON(http.StatusOK, result)
}

func readBody(ctx echo.Context) ([]byte, error) {
	defer ctx.Request().Body.Close()
	return io.ReadAll(ctx.Request().Body)
}
