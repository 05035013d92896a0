package database

import (
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type envConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	Path     string `env:"DB_PATH" envDefault:"lorawan_data.db"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT"`
	User     string `env:"DB_USER,unset"`
	Password string `env:"DB_PASSWORD,unset"`
	DBName   string `env:"DB_NAME" envDefault:"lorawan"`
	// Timeout bounds how long a write waits for the store.
	Timeout time.Duration `env:"DB_TIMEOUT" envDefault:"30s"`
}

func NewConfig() (*envConfig, error) {
	dbConfig := &envConfig{}
	if err := env.Parse(dbConfig, env.Options{}); err != nil {
		return nil, err
	}
	return dbConfig, nil
}
