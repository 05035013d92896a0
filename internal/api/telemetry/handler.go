package telemetry

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	commonerrors "lorawan-data-server/internal/api/common/errors"
	"lorawan-data-server/internal/api/common/query"
	"lorawan-data-server/internal/utils"
)

type HandlerConfig struct {
	// MaxLimit caps caller supplied limits, 0 disables the cap.
	MaxLimit     int
	ExportPrefix string
	Now          func() time.Time
}

type TelemetryHandler struct {
	ts     TelemetryService
	config HandlerConfig
	logger *zap.Logger
}

// TelemetryRouter mounts the ingestion endpoint without authentication and
// every read endpoint behind guard.
func TelemetryRouter(route fiber.Router, guard fiber.Handler, ts TelemetryService, config HandlerConfig, logger *zap.Logger) {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.ExportPrefix == "" {
		config.ExportPrefix = DefaultExportPrefix
	}
	handler := &TelemetryHandler{
		ts:     ts,
		config: config,
		logger: logger,
	}

	route.Post("/uplink", handler.uplink)

	for _, preset := range APIPresets {
		route.Get("/api/data"+preset.Suffix, guard, handler.latest(preset.Limit))
	}
	route.Get("/api/stats", guard, handler.statistics)
	route.Get("/api/devices/:devEui/data", guard, handler.deviceHistory)
	route.Get("/download/all", guard, handler.downloadAll)
}

// @Summary Receive a ChirpStack uplink notification
// @Description Only event=up is stored. Other event kinds answer 500 so a wrong subscription is visible upstream.
// @Accept  json
// @Produce json
// @Param event query string true "event kind"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 500 {object} object
// @Router /uplink [post]
func (h *TelemetryHandler) uplink(c *fiber.Ctx) error {
	event := c.Query("event")
	if event != EventUplink {
		err := commonerrors.UnrecognizedEventErr(event)
		h.logger.Warn("rejected uplink notification", zap.String("event", event))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "fail",
			"error":  err.Error(),
			"event":  event,
		})
	}

	record, err := h.ts.Ingest(c.UserContext(), c.Body())
	if err != nil {
		var (
			malformed     commonerrors.MalformedRequestError
			normalization commonerrors.NormalizationError
		)
		status := fiber.StatusInternalServerError
		if errors.As(err, &malformed) || errors.As(err, &normalization) {
			status = fiber.StatusBadRequest
		}
		h.logger.Debug("uplink failed", zap.String("id", query.RequestID(c)), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"status": "fail",
			"error":  err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "success",
		"record_id": record.ID,
		"message":   "Data received and stored",
	})
}

// @Summary Get the latest records
// @Description Newest first by insertion order. Each /api/dataN route has its own default limit.
// @Produce json
// @Param limit query int false "number of records"
// @Success 200 {array} models.TelemetryRecord
// @Router /api/data20 [get]
func (h *TelemetryHandler) latest(defaultLimit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := query.ResolveLimit(c.Query("limit"), defaultLimit, h.config.MaxLimit)
		return c.Status(fiber.StatusOK).JSON(h.ts.Latest(c.UserContext(), limit))
	}
}

// @Summary Get aggregate statistics
// @Description Count, distinct devices, temperature average/min/max and average RSSI over every record
// @Produce json
// @Success 200 {object} models.AggregateStats
// @Router /api/stats [get]
func (h *TelemetryHandler) statistics(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.ts.Statistics(c.UserContext()))
}

// @Summary Get the records of one device
// @Produce json
// @Param devEui path  string true  "device EUI"
// @Param limit  query int    false "number of records"
// @Param start  query string false "start time"
// @Param end    query string false "end time"
// @Success 200 {array} models.TelemetryRecord
// @Failure 400 {object} object
// @Router /api/devices/{devEui}/data [get]
func (h *TelemetryHandler) deviceHistory(c *fiber.Ctx) error {
	query, err := query.ParseAndValidate(c, 100, h.config.MaxLimit)
	if err != nil {
		h.logger.Debug("query parser error", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "fail",
			"error":  err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(h.ts.DeviceHistory(c.UserContext(), query))
}

// @Summary Download every record as a spreadsheet
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} object
// @Router /download/all [get]
func (h *TelemetryHandler) downloadAll(c *fiber.Ctx) error {
	data, err := h.ts.Export(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "fail",
			"error":  err.Error(),
		})
	}

	c.Attachment(utils.ExportFilename(h.config.ExportPrefix, "xlsx", h.config.Now()))
	c.Set(fiber.HeaderContentType, MimeXLSX)
	return c.Status(fiber.StatusOK).Send(data)
}
