package storage

import (
	"fmt"
	"time"
)

// timeFormats are the timestamp layouts found in SQLite text columns.
// RFC3339Nano is what stores write; the others cover rows created by
// SQL defaults like datetime('now').
var timeFormats = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTime parses a timestamp string from the database.
func ParseTime(s string) (time.Time, error) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
