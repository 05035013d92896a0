package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

const (
	rotationTime = 24 * time.Hour
	retention    = 7 * 24 * time.Hour
)

// NewRotateWriter returns a writer that starts a new dated file every day
// and keeps a symlink at path pointing to the current one. An empty path
// writes to stdout.
func NewRotateWriter(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(rotationTime),
		rotatelogs.WithMaxAge(retention),
	)
}

// NewSQLLogger returns the logrus logger the ORM writes statements to.
func NewSQLLogger(out io.Writer, mode string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	if mode == ModeRelease {
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.WarnLevel)
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
