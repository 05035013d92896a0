package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// local wall clock with microseconds
	isoTimestampLayout = "2006-01-02T15:04:05.000000"
	fileStampLayout    = "20060102_150405"
)

func TimeParser(datestr string) (time.Time, error) {
	t, err := dateparse.ParseLocal(datestr)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseQueryTime parses an optional time window. A missing bound is returned
// as the zero time and means "unbounded".
func ParseQueryTime(startstr, endstr string) (time.Time, time.Time, error) {
	var (
		start, end time.Time
		err        error
	)

	if startstr != "" {
		if start, err = TimeParser(startstr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endstr != "" {
		if end, err = TimeParser(endstr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, errors.New("the end time should be after the start time")
	}
	return start, end, nil
}

func FormatTimestamp(t time.Time) string {
	return t.Local().Format(isoTimestampLayout)
}

// ExportFilename builds <prefix>_<YYYYMMDD_HHMMSS>.<ext>.
func ExportFilename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format(fileStampLayout), ext)
}
