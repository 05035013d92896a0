package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "lorawan-data-server/internal/api/common/errors"
)

var fixedNow = time.Date(2026, 10, 17, 12, 30, 45, 500000000, time.Local)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(func() time.Time { return fixedNow })
}

const chirpstackUplink = `{
	"deduplicationId": "3ac7e3c4-4401-4b8d-9386-a5c902f9202d",
	"time": "2026-10-17T03:30:45.123Z",
	"deviceInfo": {
		"tenantName": "ChirpStack",
		"applicationName": "sensors",
		"deviceName": "temp-sensor-01",
		"devEui": "a840415ec1863f1b"
	},
	"devAddr": "01f3b1c2",
	"fCnt": 1234,
	"fPort": 2,
	"data": "yA==",
	"object": {"temperature": 200, "battery": 3.6},
	"rxInfo": [
		{"gatewayId": "0016c001ff10a235", "rssi": -87, "snr": 9.5},
		{"gatewayId": "0016c001ff10a236", "rssi": -110, "snr": -3}
	]
}`

func TestNormalize_FullPayload(t *testing.T) {
	record, err := newTestNormalizer().Normalize([]byte(chirpstackUplink))
	require.NoError(t, err)

	assert.Equal(t, "2026-10-17T12:30:45.500000", record.Timestamp)
	assert.Equal(t, "temp-sensor-01", record.DeviceName)
	assert.Equal(t, "a840415ec1863f1b", record.DevEUI)
	assert.Equal(t, -56.0, record.Temperature)
	assert.Equal(t, -87, record.RSSI)
	assert.Equal(t, 9.5, record.SNR)
	assert.Equal(t, 2, record.FPort)
	assert.Equal(t, 1234, record.FCnt)
	assert.Zero(t, record.ID)
}

func TestNormalize_EmptyObjectUsesDefaults(t *testing.T) {
	record, err := newTestNormalizer().Normalize([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "Unknown", record.DeviceName)
	assert.Equal(t, "Unknown", record.DevEUI)
	assert.Zero(t, record.Temperature)
	assert.Zero(t, record.RSSI)
	assert.Zero(t, record.SNR)
	assert.Zero(t, record.FPort)
	assert.Zero(t, record.FCnt)
	assert.NotEmpty(t, record.Timestamp)
}

func TestNormalize_SubMappingsDefaultIndependently(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		device string
		temp   float64
		rssi   int
	}{
		{
			name:   "missing deviceInfo",
			body:   `{"object":{"temperature":21},"rxInfo":[{"rssi":-70}]}`,
			device: "Unknown", temp: 21, rssi: -70,
		},
		{
			name:   "missing object",
			body:   `{"deviceInfo":{"deviceName":"d1"},"rxInfo":[{"rssi":-70}]}`,
			device: "d1", temp: 0, rssi: -70,
		},
		{
			name:   "missing rxInfo",
			body:   `{"deviceInfo":{"deviceName":"d1"},"object":{"temperature":21}}`,
			device: "d1", temp: 21, rssi: 0,
		},
		{
			name:   "empty rxInfo",
			body:   `{"deviceInfo":{"deviceName":"d1"},"object":{"temperature":21},"rxInfo":[]}`,
			device: "d1", temp: 21, rssi: 0,
		},
		{
			name:   "rxInfo is an object",
			body:   `{"deviceInfo":{"deviceName":"d1"},"rxInfo":{"rssi":-70}}`,
			device: "d1", temp: 0, rssi: 0,
		},
		{
			name:   "mistyped sub mappings",
			body:   `{"deviceInfo":"d1","object":[1,2],"rxInfo":[5]}`,
			device: "Unknown", temp: 0, rssi: 0,
		},
		{
			name:   "mistyped and null fields",
			body:   `{"deviceInfo":{"deviceName":42,"devEui":null},"object":{"temperature":"hot"},"rxInfo":[{"rssi":"strong"}]}`,
			device: "Unknown", temp: 0, rssi: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := newTestNormalizer().Normalize([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.device, record.DeviceName)
			assert.Equal(t, tt.temp, record.Temperature)
			assert.Equal(t, tt.rssi, record.RSSI)
		})
	}
}

func TestNormalize_FrameCountersFromTopLevelOnly(t *testing.T) {
	record, err := newTestNormalizer().Normalize([]byte(`{"data":{"fPort":9,"fCnt":99}}`))
	require.NoError(t, err)
	assert.Zero(t, record.FPort)
	assert.Zero(t, record.FCnt)
}

func TestNormalize_RejectsNonObject(t *testing.T) {
	for _, body := range []string{``, `[]`, `[{"fPort":1}]`, `"up"`, `42`, `null`, `{"broken":`} {
		_, err := newTestNormalizer().Normalize([]byte(body))
		require.Error(t, err, body)

		var normErr commonerrors.NormalizationError
		assert.ErrorAs(t, err, &normErr, body)
	}
}

func TestCorrectTemperature(t *testing.T) {
	tests := []struct {
		raw, want float64
	}{
		{0, 0},
		{50, 50},
		{127, 127},
		{128, -128},
		{200, -56},
		{255, -1},
		{200.5, -55.5},
		// out of the byte range is passed through the same rule
		{300, 44},
		{-5, -5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CorrectTemperature(tt.raw), "raw=%v", tt.raw)
	}
}

func TestCorrectTemperature_ByteRangeProperty(t *testing.T) {
	for raw := 0; raw <= 255; raw++ {
		got := CorrectTemperature(float64(raw))
		assert.GreaterOrEqual(t, got, -128.0)
		assert.LessOrEqual(t, got, 127.0)
		if raw < 128 {
			assert.Equal(t, float64(raw), got)
		} else {
			assert.Equal(t, float64(raw-256), got)
		}
	}
}
