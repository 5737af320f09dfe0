// Package api exposes the management HTTP surface: rule CRUD, history
// queries with acknowledge/snooze, the live banner list and a manual tick
// trigger.
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/alerting"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/notify"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/repository"
)

// Controller wires the HTTP handlers to the engine's stores and monitor.
type Controller struct {
	rules   repository.RuleStore
	history repository.HistoryStore
	banners *notify.BannerCenter
	monitor *alerting.Monitor
	log     logger.Logger

	maxHistoryItems int
}

// NewController creates a Controller and registers its routes on e.
func NewController(e *echo.Echo, rules repository.RuleStore, history repository.HistoryStore, banners *notify.BannerCenter, monitor *alerting.Monitor, maxHistoryItems int, log logger.Logger) *Controller {
	c := &Controller{
		rules:           rules,
		history:         history,
		banners:         banners,
		monitor:         monitor,
		log:             log,
		maxHistoryItems: maxHistoryItems,
	}

	g := e.Group("/api/v1")

	g.GET("/rules", c.ListRules)
	g.GET("/rules/:id", c.GetRule)
	g.POST("/rules", c.CreateRule)
	g.PUT("/rules/:id", c.UpdateRule)
	g.PATCH("/rules/:id/toggle", c.ToggleRule)
	g.DELETE("/rules/:id", c.DeleteRule)
	g.GET("/rules/export", c.ExportRules)
	g.POST("/rules/import", c.ImportRules)

	g.GET("/history", c.ListHistory)
	g.POST("/history/:id/acknowledge", c.AcknowledgeEntry)
	g.POST("/history/:id/snooze", c.SnoozeEntry)

	g.GET("/banners", c.ListBanners)
	g.DELETE("/banners/:id", c.DismissBanner)

	g.POST("/tick", c.TriggerTick)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return c
}

func parseUintParam(ctx echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func badRequest(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusNotFound, map[string]string{"error": msg})
}

func internalError(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": msg})
}
