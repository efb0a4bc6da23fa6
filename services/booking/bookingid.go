package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingID returns BK-<base36 millis>-<12 hex chars>, upper-cased.
// The random part comes from a v4 UUID, which gives 48 bits per millisecond.
func NewBookingID(at time.Time) string {
	stamp := strconv.FormatInt(at.UnixMilli(), 36)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return strings.ToUpper("BK-" + stamp + "-" + random)
}

// IsBookingID reports whether id has the generated shape. Caller supplied
// ids are not required to match it.
func IsBookingID(id string) bool {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != "BK" || parts[1] == "" || len(parts[2]) != 12 {
		return false
	}
	if _, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64); err != nil {
		return false
	}
	_, err := strconv.ParseUint(parts[2], 16, 64)
	return err == nil
}
