package options

import (
	"errors"

	"github.com/akamensky/argparse"

	"lorawan-data-server/internal/api/telemetry"
	"lorawan-data-server/internal/logger"
)

type Options struct {
	LogFile      *string
	AccessLog    *string
	SQLLog       *string
	CertFile     *string
	KeyFile      *string
	Mode         *string
	Port         *int
	MaxLimit     *int
	ExportPrefix *string
	parser       *argparse.Parser
}

// NewOptions parses args (program name first). The returned Options is
// usable for Usage even when parsing fails.
func NewOptions(args []string) (*Options, error) {
	option := &Options{}

	parser := argparse.NewParser("lorawan-server", "LoRaWAN uplink ingestion and query server")
	option.parser = parser
	option.LogFile = parser.String("l", "log-file", &argparse.Options{
		Help:    "application log file",
		Default: "logs/server.log",
	})
	option.AccessLog = parser.String("", "access-log", &argparse.Options{
		Help:    "HTTP access log, rotated daily. Empty logs to stdout only",
		Default: "logs/access.log",
	})
	option.SQLLog = parser.String("", "sql-log", &argparse.Options{
		Help:    "SQL statement log, rotated daily. Empty logs to stdout",
		Default: "logs/sql.log",
	})
	option.CertFile = parser.String("", "tls-cert-file", &argparse.Options{
		Help: "File containing the x509 certificate for HTTPS",
	})
	option.KeyFile = parser.String("", "tls-private-key-file", &argparse.Options{
		Help: "File containing the x509 private key matching --tls-cert-file",
	})
	option.Port = parser.Int("p", "port", &argparse.Options{
		Help:    "The port the server listens on",
		Default: 5000,
	})
	option.Mode = parser.Selector("m", "mode", []string{logger.ModeRelease, "development", logger.ModeDebug}, &argparse.Options{
		Help:    "Choose release/development/debug mode",
		Default: "development",
	})
	option.MaxLimit = parser.Int("", "max-limit", &argparse.Options{
		Help:    "Upper bound for the limit query parameter, 0 disables the bound",
		Default: 30000,
	})
	option.ExportPrefix = parser.String("", "export-prefix", &argparse.Options{
		Help:    "File name prefix of the spreadsheet export",
		Default: telemetry.DefaultExportPrefix,
	})

	if err := parser.Parse(args); err != nil {
		return option, err
	}
	if err := option.Validate(); err != nil {
		return option, err
	}
	return option, nil
}

func (o *Options) Validate() error {
	if (*o.CertFile == "") != (*o.KeyFile == "") {
		return errors.New("certificate/private key both must be present or neither must be present")
	}
	if *o.Port <= 0 || *o.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if *o.MaxLimit < 0 {
		return errors.New("max-limit must not be negative")
	}
	if *o.ExportPrefix == "" {
		return errors.New("export-prefix must not be empty")
	}
	return nil
}

func (o *Options) Usage(err error) string {
	return o.parser.Usage(err)
}
