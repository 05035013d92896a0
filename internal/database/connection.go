package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lorawan-data-server/internal/models"
)

const slowThreshold = 200 * time.Millisecond

// Connect opens the configured store, sizes its pool and creates the
// telemetry table when it is missing. Statements are written to sqlLog.
func Connect(config *envConfig, sqlLog logger.Writer, level logger.LogLevel) (*gorm.DB, error) {
	dialector, err := dialectorFor(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(sqlLog, logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(3)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetConnMaxLifetime(time.Minute)

	if err := db.AutoMigrate(&models.TelemetryRecord{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", models.TelemetryRecord{}.TableName(), err)
	}
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(config *envConfig) (gorm.Dialector, error) {
	switch config.Driver {
	case DriverSQLite, "":
		if dir := filepath.Dir(config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(sqliteDSN(config.Path)), nil
	case DriverPostgres:
		return postgres.Open(postgresDSN(*config)), nil
	case DriverMySQL:
		return mysql.Open(mysqlDSN(*config)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Driver)
	}
}

// sqliteDSN enables WAL so readers keep working while the single writer
// holds the lock, and makes a locked writer wait instead of failing.
func sqliteDSN(path string) string {
	return path + "?_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)"
}

func postgresDSN(config envConfig) string {
	port := config.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.Host, config.User, config.Password, config.DBName, port)
}

func mysqlDSN(config envConfig) string {
	port := config.Port
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.User, config.Password, config.Host, port, config.DBName)
}
