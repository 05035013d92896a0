package query

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"lorawan-data-server/internal/utils"
)

// used to parse the query string of read endpoints
type parseQuery struct {
	Limit     string `query:"limit,omitempty"`
	StartTime string `query:"start,omitempty"`
	EndTime   string `query:"end,omitempty"`
}

type Query struct {
	ID        string
	DevEUI    string
	Limit     int
	StartTime time.Time
	EndTime   time.Time
}

func (q parseQuery) ParseAndValidate(c *fiber.Ctx, defaultLimit, maxLimit int) (Query, error) {
	var (
		id     = RequestID(c)
		devEUI = c.Params("devEui", "")
	)

	startTime, endTime, err := utils.ParseQueryTime(q.StartTime, q.EndTime)
	if err != nil {
		return Query{}, err
	}

	return Query{
		ID:        id,
		DevEUI:    devEUI,
		Limit:     ResolveLimit(q.Limit, defaultLimit, maxLimit),
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

func ParseAndValidate(c *fiber.Ctx, defaultLimit, maxLimit int) (Query, error) {
	query := &parseQuery{}
	if err := c.QueryParser(query); err != nil {
		return Query{}, err
	}
	return query.ParseAndValidate(c, defaultLimit, maxLimit)
}

// ResolveLimit falls back to defaultLimit for a missing, malformed or
// non-positive value and clamps to maxLimit when maxLimit > 0.
func ResolveLimit(raw string, defaultLimit, maxLimit int) int {
	limit := defaultLimit
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
