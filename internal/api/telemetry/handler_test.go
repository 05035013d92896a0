package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lorawan-data-server/internal/models"
)

const testUser = "X-Test-User"

func testGuard(c *fiber.Ctx) error {
	if c.Get(testUser) == "" {
		return c.Redirect("/login", fiber.StatusFound)
	}
	return c.Next()
}

func newTestApp(t *testing.T, maxLimit int) (*fiber.App, TelemetryRepository) {
	t.Helper()
	repo := NewTelemetryRepository(newTestDB(t), time.Second)
	svc := newTestService(repo, nil)

	app := fiber.New()
	TelemetryRouter(app, testGuard, svc, HandlerConfig{
		MaxLimit:     maxLimit,
		ExportPrefix: "lorawan_data",
		Now:          func() time.Time { return fixedNow },
	}, zap.NewNop())
	return app, repo
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	req.Header.Set(testUser, "admin")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func postUplink(t *testing.T, app *fiber.App, event, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, data := doRequest(t, app, http.MethodPost, "/uplink?event="+event, body)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return resp, out
}

func TestUplinkStoresRecords(t *testing.T) {
	app, _ := newTestApp(t, 0)

	resp, out := postUplink(t, app, "up", chirpstackUplink)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "Data received and stored", out["message"])
	first := out["record_id"].(float64)

	_, out = postUplink(t, app, "up", chirpstackUplink)
	assert.Greater(t, out["record_id"].(float64), first)
}

func TestUplinkRejectsOtherEvents(t *testing.T) {
	app, repo := newTestApp(t, 0)

	for _, event := range []string{"join", "status", ""} {
		resp, out := postUplink(t, app, event, chirpstackUplink)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, event)
		assert.Equal(t, "fail", out["status"])
		assert.Equal(t, event, out["event"])
	}

	stats, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalCount)
}

func TestUplinkRejectsBadBodies(t *testing.T) {
	app, repo := newTestApp(t, 0)

	for _, body := range []string{"", "{}", "null", "[1,2]", "not json"} {
		resp, out := postUplink(t, app, "up", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "fail", out["status"])
		assert.NotEmpty(t, out["error"])
	}

	stats, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalCount)
}

func TestLatestPresets(t *testing.T) {
	app, _ := newTestApp(t, 30)

	for i := 0; i < 25; i++ {
		postUplink(t, app, "up", chirpstackUplink)
	}

	tests := []struct {
		target string
		want   int
	}{
		{"/api/data20", 20},
		{"/api/data50", 25},
		{"/api/data20?limit=5", 5},
		{"/api/data20?limit=abc", 20},
		{"/api/data20?limit=-1", 20},
		{"/api/data10k?limit=100", 25},
	}
	for _, tt := range tests {
		resp, data := doRequest(t, app, http.MethodGet, tt.target, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, tt.target)

		var records []models.TelemetryRecord
		require.NoError(t, json.Unmarshal(data, &records))
		assert.Len(t, records, tt.want, tt.target)
		assert.Equal(t, int64(25), records[0].ID, tt.target)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, 0)

	resp, data := doRequest(t, app, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_count":0,"device_count":0,"avg_temp":null,"min_temp":null,"max_temp":null,"avg_rssi":null}`, string(data))

	postUplink(t, app, "up", chirpstackUplink)

	_, data = doRequest(t, app, http.MethodGet, "/api/stats", "")
	var stats models.AggregateStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, int64(1), stats.TotalCount)
	assert.Equal(t, int64(1), stats.DeviceCount)
	require.NotNil(t, stats.AvgTemp)
	assert.Equal(t, -56.0, *stats.AvgTemp)
	require.NotNil(t, stats.AvgRSSI)
	assert.Equal(t, -87.0, *stats.AvgRSSI)
}

func TestDeviceHistoryEndpoint(t *testing.T) {
	app, _ := newTestApp(t, 0)
	postUplink(t, app, "up", chirpstackUplink)
	postUplink(t, app, "up", `{"deviceInfo":{"devEui":"other"}}`)

	resp, data := doRequest(t, app, http.MethodGet, "/api/devices/a840415ec1863f1b/data", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []models.TelemetryRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "temp-sensor-01", records[0].DeviceName)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/devices/a1/data?start=2026-10-18&end=2026-10-17", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadAll(t *testing.T) {
	app, _ := newTestApp(t, 0)
	postUplink(t, app, "up", chirpstackUplink)
	postUplink(t, app, "up", chirpstackUplink)

	resp, data := doRequest(t, app, http.MethodGet, "/download/all", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MimeXLSX, resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="lorawan_data_20261017_123045.xlsx"`, resp.Header.Get(fiber.HeaderContentDisposition))

	rows := readExport(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[2][0])
}

func TestReadEndpointsRequireLogin(t *testing.T) {
	app, _ := newTestApp(t, 0)

	for _, target := range []string{"/api/data20", "/api/data30k", "/api/stats", "/download/all", "/api/devices/a1/data"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode, target)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation), target)
	}

	req := httptest.NewRequest(http.MethodPost, "/uplink?event=up", strings.NewReader(chirpstackUplink))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDownloadAllDefaultPrefix(t *testing.T) {
	repo := NewTelemetryRepository(newTestDB(t), time.Second)
	app := fiber.New()
	TelemetryRouter(app, testGuard, newTestService(repo, nil), HandlerConfig{
		Now: func() time.Time { return fixedNow },
	}, zap.NewNop())

	resp, _ := doRequest(t, app, http.MethodGet, "/download/all", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="`+DefaultExportPrefix+`_20261017_123045.xlsx"`, resp.Header.Get(fiber.HeaderContentDisposition))
}
