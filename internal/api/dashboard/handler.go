package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lorawan-data-server/internal/api/auth"
	"lorawan-data-server/internal/api/common/query"
	"lorawan-data-server/internal/api/telemetry"
)

type DashboardHandler struct {
	ts       telemetry.TelemetryService
	maxLimit int
	logger   *zap.Logger
}

// DashboardRouter mounts the HTML views, "/" plus one /dataN page per
// view preset, all behind guard.
func DashboardRouter(route fiber.Router, guard fiber.Handler, ts telemetry.TelemetryService, maxLimit int, logger *zap.Logger) {
	handler := &DashboardHandler{
		ts:       ts,
		maxLimit: maxLimit,
		logger:   logger,
	}

	route.Get("/", guard, handler.render(telemetry.DefaultLatestLimit))
	for _, preset := range telemetry.ViewPresets {
		route.Get("/data"+preset.Suffix, guard, handler.render(preset.Limit))
	}
}

func (h *DashboardHandler) render(presetLimit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := query.ResolveLimit(c.Query("limit"), presetLimit, h.maxLimit)
		ctx := c.UserContext()
		return c.Render("dashboard", fiber.Map{
			"Username": auth.Username(c),
			"Limit":    limit,
			"Records":  h.ts.Latest(ctx, limit),
			"Stats":    h.ts.Statistics(ctx),
			"Presets":  telemetry.ViewPresets,
		})
	}
}
