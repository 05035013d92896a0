package telemetry

import (
	"bytes"
	"time"

	"github.com/tidwall/gjson"

	"lorawan-data-server/internal/api/common/errors"
	"lorawan-data-server/internal/models"
	"lorawan-data-server/internal/utils"
)

const unknownDevice = "Unknown"

// Normalizer maps a ChirpStack uplink notification onto a TelemetryRecord.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize never fails on a missing or mistyped field; only a body that is
// not a JSON object is rejected.
func (n *Normalizer) Normalize(body []byte) (*models.TelemetryRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.NormalizationErr("body is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, errors.NormalizationErr("body is not a JSON object")
	}

	var (
		deviceInfo = objectOrEmpty(doc.Get("deviceInfo"))
		decoded    = objectOrEmpty(doc.Get("object"))
		rxInfo     = firstRxInfo(doc.Get("rxInfo"))
	)

	return &models.TelemetryRecord{
		Timestamp:   utils.FormatTimestamp(n.now()),
		DeviceName:  stringOr(deviceInfo.Get("deviceName"), unknownDevice),
		DevEUI:      stringOr(deviceInfo.Get("devEui"), unknownDevice),
		Temperature: CorrectTemperature(numberOr(decoded.Get("temperature"), 0)),
		RSSI:        int(numberOr(rxInfo.Get("rssi"), 0)),
		SNR:         numberOr(rxInfo.Get("snr"), 0),
		FPort:       int(numberOr(doc.Get("fPort"), 0)),
		FCnt:        int(numberOr(doc.Get("fCnt"), 0)),
	}, nil
}

// CorrectTemperature turns an unsigned byte reading (0..255) into its
// signed value (-128..127).
func CorrectTemperature(raw float64) float64 {
	if raw >= 128 {
		return raw - 256
	}
	return raw
}

// isEmptyPayload reports a body that carries nothing: blank, null or {}.
func isEmptyPayload(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return true
	}
	if !gjson.ValidBytes(trimmed) {
		return false
	}
	doc := gjson.ParseBytes(trimmed)
	if doc.Type == gjson.Null {
		return true
	}
	return doc.IsObject() && len(doc.Map()) == 0
}

func objectOrEmpty(r gjson.Result) gjson.Result {
	if r.IsObject() {
		return r
	}
	return gjson.Result{}
}

// only the first gateway of rxInfo is kept
func firstRxInfo(r gjson.Result) gjson.Result {
	if !r.IsArray() {
		return gjson.Result{}
	}
	items := r.Array()
	if len(items) == 0 {
		return gjson.Result{}
	}
	return objectOrEmpty(items[0])
}

func stringOr(r gjson.Result, def string) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return def
}

func numberOr(r gjson.Result, def float64) float64 {
	if r.Type == gjson.Number {
		return r.Num
	}
	return def
}
