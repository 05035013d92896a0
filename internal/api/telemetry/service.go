package telemetry

import (
	"context"

	"go.uber.org/zap"

	"lorawan-data-server/internal/api/common/errors"
	"lorawan-data-server/internal/api/common/query"
	"lorawan-data-server/internal/models"
)

type telemetryService struct {
	repository TelemetryRepository
	normalizer *Normalizer
	publisher  Publisher
	logger     *zap.Logger
}

var _ TelemetryService = (*telemetryService)(nil)

func NewTelemetryService(
	repository TelemetryRepository,
	normalizer *Normalizer,
	publisher Publisher,
	logger *zap.Logger) TelemetryService {

	return &telemetryService{
		repository: repository,
		normalizer: normalizer,
		publisher:  publisher,
		logger:     logger,
	}
}

// Ingest normalizes an uplink body and appends it. The returned record
// carries the store assigned id.
func (s *telemetryService) Ingest(ctx context.Context, body []byte) (*models.TelemetryRecord, error) {
	if isEmptyPayload(body) {
		return nil, errors.MalformedRequestErr("No data received")
	}

	record, err := s.normalizer.Normalize(body)
	if err != nil {
		return nil, err
	}

	if _, err := s.repository.Append(ctx, record); err != nil {
		s.logger.Error("failed to store uplink",
			zap.String("dev_eui", record.DevEUI),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("uplink stored",
		zap.Int64("id", record.ID),
		zap.String("device_name", record.DeviceName),
		zap.String("dev_eui", record.DevEUI),
		zap.Float64("temperature", record.Temperature),
		zap.Int("rssi", record.RSSI),
		zap.Float64("snr", record.SNR))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, record); err != nil {
			s.logger.Warn("failed to publish uplink",
				zap.Int64("id", record.ID),
				zap.Error(err))
		}
	}
	return record, nil
}

// Latest degrades to an empty page on storage faults.
func (s *telemetryService) Latest(ctx context.Context, limit int) []models.TelemetryRecord {
	records, err := s.repository.Latest(ctx, limit)
	if err != nil {
		s.logger.Error("failed to read latest records", zap.Int("limit", limit), zap.Error(err))
		return []models.TelemetryRecord{}
	}
	return records
}

// Statistics degrades to zeroed aggregates on storage faults.
func (s *telemetryService) Statistics(ctx context.Context) models.AggregateStats {
	stats, err := s.repository.Statistics(ctx)
	if err != nil {
		s.logger.Error("failed to compute statistics", zap.Error(err))
		return models.AggregateStats{}
	}
	return *stats
}

func (s *telemetryService) Export(ctx context.Context) ([]byte, error) {
	records, err := s.repository.All(ctx)
	if err != nil {
		s.logger.Error("failed to read records for export", zap.Error(err))
		return nil, err
	}
	s.logger.Debug("exporting records", zap.Int("count", len(records)))
	return GenerateExport(records)
}

func (s *telemetryService) DeviceHistory(ctx context.Context, query query.Query) []models.TelemetryRecord {
	s.logger.Debug("device history",
		zap.String("id", query.ID),
		zap.String("dev_eui", query.DevEUI),
		zap.Int("limit", query.Limit),
		zap.Time("start_time", query.StartTime),
		zap.Time("end_time", query.EndTime))

	records, err := s.repository.ByDevice(ctx, query)
	if err != nil {
		s.logger.Error("failed to read device history", zap.String("dev_eui", query.DevEUI), zap.Error(err))
		return []models.TelemetryRecord{}
	}
	return records
}
