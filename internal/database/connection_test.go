package database

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"lorawan-data-server/internal/models"
)

type bufferWriter struct {
	bytes.Buffer
}

func (w *bufferWriter) Printf(format string, args ...interface{}) {
	w.WriteString(format)
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	unsetenv(t, "DB_DRIVER", "DB_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_TIMEOUT")

	config, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, config.Driver)
	assert.Equal(t, "lorawan_data.db", config.Path)
	assert.Equal(t, 30*time.Second, config.Timeout)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_TIMEOUT", "5s")

	config, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, config.Driver)
	assert.Equal(t, "db.local", config.Host)
	assert.Equal(t, 5*time.Second, config.Timeout)
}

func TestDSN(t *testing.T) {
	config := envConfig{Host: "db", User: "u", Password: "p", DBName: "lorawan"}

	assert.Equal(t, "data/x.db?_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)", sqliteDSN("data/x.db"))
	assert.Equal(t, "host=db user=u password=p dbname=lorawan port=5432 sslmode=disable", postgresDSN(config))
	assert.Equal(t, "u:p@tcp(db:3306)/lorawan?charset=utf8mb4&parseTime=True&loc=Local", mysqlDSN(config))

	config.Port = "15432"
	assert.Contains(t, postgresDSN(config), "port=15432")
}

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect(&envConfig{Driver: "oracle"}, &bufferWriter{}, logger.Silent)
	assert.EqualError(t, err, `unsupported DB_DRIVER "oracle"`)
}

func TestConnectSQLiteCreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lorawan.db")

	db, err := Connect(&envConfig{Driver: DriverSQLite, Path: path}, &bufferWriter{}, logger.Silent)
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&models.TelemetryRecord{}))
	assert.True(t, db.Migrator().HasIndex(&models.TelemetryRecord{}, "idx_timestamp"))
	assert.FileExists(t, path)
}
