package filename

import (
	"fmt"
	"strings"
	"time"

	"firestige.xyz/sharp/internal/core"
)

// TimeLayout is the timestamp token layout (YYYYMMDDThhmmss).
const TimeLayout = "20060102T150405"

// rawTimeLayout is the timestamp layout of ground-station telemetry names (YYMMDDhhmmss).
const rawTimeLayout = "060102150405"

// isoLayouts are tried in order by ParseTimestamp. Zone-less forms are read as UTC.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp ("2024-04-06T12:06:21",
// optional fractional seconds, optional zone, or a bare date) and returns
// it in UTC truncated to whole seconds.
func ParseTimestamp(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return normalizeTime(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a valid ISO-8601 timestamp", core.ErrInvalidTimestamp, text)
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return normalizeTime(t).Format(TimeLayout)
}

func parseTimeToken(tok string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, tok)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time token %q does not match YYYYMMDDThhmmss", core.ErrInvalidTimestamp, tok)
	}
	return t, nil
}
