package telemetry

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"lorawan-data-server/internal/api/common/errors"
	"lorawan-data-server/internal/api/common/query"
	"lorawan-data-server/internal/models"
)

const defaultStoreTimeout = 30 * time.Second

type telemetryRepository struct {
	db *gorm.DB
	// single writer; reads never take it
	writer  *semaphore.Weighted
	timeout time.Duration
}

var _ TelemetryRepository = (*telemetryRepository)(nil)

func NewTelemetryRepository(db *gorm.DB, timeout time.Duration) TelemetryRepository {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &telemetryRepository{
		db:      db,
		writer:  semaphore.NewWeighted(1),
		timeout: timeout,
	}
}

func (r *telemetryRepository) Append(ctx context.Context, record *models.TelemetryRecord) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.writer.Acquire(ctx, 1); err != nil {
		return 0, errors.StorageErr("append", err)
	}
	defer r.writer.Release(1)

	// ID and CreatedAt are assigned by the store
	record.ID = 0
	record.CreatedAt = time.Time{}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return 0, errors.StorageErr("append", err)
	}
	return record.ID, nil
}

func (r *telemetryRepository) Latest(ctx context.Context, limit int) ([]models.TelemetryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	records := make([]models.TelemetryRecord, 0)
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&records).
		Error
	if err != nil {
		return nil, errors.StorageErr("latest", err)
	}
	return records, nil
}

func (r *telemetryRepository) Statistics(ctx context.Context) (*models.AggregateStats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stats := &models.AggregateStats{}
	err := r.db.WithContext(ctx).
		Model(&models.TelemetryRecord{}).
		Select(`COUNT(*) AS total_count,
COUNT(DISTINCT dev_eui) AS device_count,
AVG(temperature) AS avg_temp,
MIN(temperature) AS min_temp,
MAX(temperature) AS max_temp,
AVG(rssi) AS avg_rssi`).
		Scan(stats).
		Error
	if err != nil {
		return nil, errors.StorageErr("statistics", err)
	}
	return stats, nil
}

func (r *telemetryRepository) All(ctx context.Context) ([]models.TelemetryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records := make([]models.TelemetryRecord, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, errors.StorageErr("export", err)
	}
	return records, nil
}

func (r *telemetryRepository) ByDevice(ctx context.Context, query query.Query) ([]models.TelemetryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	db := r.db.WithContext(ctx).Where("dev_eui = ?", query.DevEUI)
	if !query.StartTime.IsZero() {
		db = db.Where("created_at >= ?", query.StartTime)
	}
	if !query.EndTime.IsZero() {
		db = db.Where("created_at <= ?", query.EndTime)
	}
	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}

	records := make([]models.TelemetryRecord, 0)
	if err := db.Order("id DESC").Find(&records).Error; err != nil {
		return nil, errors.StorageErr("device history", err)
	}
	return records, nil
}
