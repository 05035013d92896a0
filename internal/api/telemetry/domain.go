package telemetry

import (
	"context"

	"lorawan-data-server/internal/api/common/query"
	"lorawan-data-server/internal/models"
)

const (
	// EventUplink is the only event kind the ingestion endpoint stores.
	EventUplink = "up"
	// DefaultLatestLimit is used when no positive limit reaches the store.
	DefaultLatestLimit = 20
	// DefaultExportPrefix names the spreadsheet download.
	DefaultExportPrefix = "lorawan_data"
)

type TelemetryRepository interface {
	Append(ctx context.Context, record *models.TelemetryRecord) (int64, error)
	Latest(ctx context.Context, limit int) ([]models.TelemetryRecord, error)
	Statistics(ctx context.Context) (*models.AggregateStats, error)
	All(ctx context.Context) ([]models.TelemetryRecord, error)
	ByDevice(ctx context.Context, query query.Query) ([]models.TelemetryRecord, error)
}

type TelemetryService interface {
	Ingest(ctx context.Context, body []byte) (*models.TelemetryRecord, error)
	Latest(ctx context.Context, limit int) []models.TelemetryRecord
	Statistics(ctx context.Context) models.AggregateStats
	Export(ctx context.Context) ([]byte, error)
	DeviceHistory(ctx context.Context, query query.Query) []models.TelemetryRecord
}

// Publisher receives every record after it has been stored.
type Publisher interface {
	Publish(ctx context.Context, record *models.TelemetryRecord) error
}

// Preset is a fixed page size exposed under its own route.
type Preset struct {
	Suffix string
	Limit  int
}

var (
	APIPresets = []Preset{
		{"20", 20},
		{"50", 50},
		{"100", 100},
		{"10k", 10000},
		{"30k", 30000},
	}
	ViewPresets = []Preset{
		{"10", 10},
		{"20", 20},
		{"50", 50},
		{"100", 100},
		{"1k", 1000},
		{"10k", 10000},
		{"30k", 30000},
	}
)
