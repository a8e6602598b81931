package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTime parses an event time in any of the layouts storage providers
// emit. Times without a zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidEventTime, s, err)
	}
	return t, nil
}

// FormatTimestamp renders t as seconds since the Unix epoch with microsecond
// resolution, always with a fractional part: "1672531200.0", "1672531200.123".
func FormatTimestamp(t time.Time) string {
	s := strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
