package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrBadDate is returned by ParseDate for values in no accepted layout.
var ErrBadDate = errors.New("unrecognized date format")

// zonedLayouts carry their own offset; localLayouts are read in the calendar location.
var (
	zonedLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"}
	localLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04", "2006-01-02"}
)

// ParseDate parses an ISO-8601 date or timestamp. Values without an offset,
// including bare calendar dates, are interpreted in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDate
}
