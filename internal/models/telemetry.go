package models

import (
	"time"
)

// TelemetryRecord is one uplink sample as stored in the lorawan_data table.
type TelemetryRecord struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Timestamp   string    `gorm:"column:timestamp;not null;index:idx_timestamp" json:"timestamp"`
	DeviceName  string    `gorm:"column:device_name;not null" json:"device_name"`
	DevEUI      string    `gorm:"column:dev_eui;not null;index:idx_dev_eui" json:"dev_eui"`
	Temperature float64   `gorm:"column:temperature" json:"temperature"`
	RSSI        int       `gorm:"column:rssi" json:"rssi"`
	SNR         float64   `gorm:"column:snr" json:"snr"`
	FPort       int       `gorm:"column:f_port" json:"f_port"`
	FCnt        int       `gorm:"column:f_cnt" json:"f_cnt"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index:idx_created_at" json:"created_at"`
}

func (TelemetryRecord) TableName() string {
	return "lorawan_data"
}

// AggregateStats is computed over the whole table on every request.
// Averages and extremes stay nil while the table is empty.
type AggregateStats struct {
	TotalCount  int64    `gorm:"column:total_count" json:"total_count"`
	DeviceCount int64    `gorm:"column:device_count" json:"device_count"`
	AvgTemp     *float64 `gorm:"column:avg_temp" json:"avg_temp"`
	MinTemp     *float64 `gorm:"column:min_temp" json:"min_temp"`
	MaxTemp     *float64 `gorm:"column:max_temp" json:"max_temp"`
	AvgRSSI     *float64 `gorm:"column:avg_rssi" json:"avg_rssi"`
}
