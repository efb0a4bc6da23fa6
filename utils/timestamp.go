package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// timestampLayouts are tried in order when a date arrives as a string.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// InvalidTimestamp stands in for a stored date that is present but cannot be
// read. The Unix epoch keeps such records out of recent and monthly counts
// and out of any date-bounded filter, and stands out in responses.
var InvalidTimestamp = time.Unix(0, 0).UTC()

// ToCanonicalTime collapses every date shape the store can hand back (native
// dates, BSON datetimes, ISO strings, epoch millis, extended-JSON wrappers
// such as {"$date": ...}) into a UTC time at millisecond precision. Only an
// absent value becomes "now"; an unreadable one becomes InvalidTimestamp.
func ToCanonicalTime(v any) time.Time {
	if t, ok := ParseTimestamp(v); ok {
		return t.UTC().Truncate(time.Millisecond)
	}
	if IsAbsentTimestamp(v) {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	GetLogger().Warn("unreadable stored timestamp",
		zap.String("type", fmt.Sprintf("%T", v)),
		zap.Any("value", v),
	)
	return InvalidTimestamp
}

// IsAbsentTimestamp reports whether v carries no date at all: nil, a nil
// pointer, the zero time or a blank string.
func IsAbsentTimestamp(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *time.Time:
		return x == nil || x.IsZero()
	case time.Time:
		return x.IsZero()
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// ParseTimestamp is ToCanonicalTime without any fallback.
func ParseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case primitive.DateTime:
		return x.Time(), true
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0), true
	case int64:
		return time.UnixMilli(x), true
	case int32:
		return time.UnixMilli(int64(x)), true
	case int:
		return time.UnixMilli(int64(x)), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(x)), true
	case string:
		return parseTimestampString(x)
	case primitive.M:
		return parseWrappedDate(map[string]any(x))
	case map[string]any:
		return parseWrappedDate(x)
	case primitive.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = e.Value
		}
		return parseWrappedDate(m)
	}
	return time.Time{}, false
}

func parseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	return time.Time{}, false
}

// parseWrappedDate handles {"$date": <iso|millis|{"$numberLong": "..."}>}.
func parseWrappedDate(m map[string]any) (time.Time, bool) {
	if inner, ok := m["$date"]; ok {
		return ParseTimestamp(inner)
	}
	if n, ok := m["$numberLong"].(string); ok {
		return parseTimestampString(n)
	}
	return time.Time{}, false
}
