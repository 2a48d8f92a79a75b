package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layouts accepted when reading timestamps, most specific first. Fractional
// seconds are accepted after the seconds field by time.Parse.
var (
	zonedLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05 -0700 MST",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reads a stored timestamp and returns it in UTC. Values without a
// zone are taken to be UTC wall-clock times.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// dateError marks a row whose timestamp column could not be read.
type dateError struct {
	table string
	id    int64
	err   error
}

func (e dateError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.table, e.id, e.err)
}

func (e dateError) Unwrap() error { return e.err }

func isDateError(err error) bool {
	var de dateError
	return errors.As(err, &de)
}
