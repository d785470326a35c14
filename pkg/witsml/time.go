package witsml

import "time"

// Time-mode index values travel through the range machinery as int64
// microseconds since the Unix epoch, carried in float64 fields. Every value
// below 2^53 microseconds (~year 2255) is exact in a float64, so no
// precision is lost in transit.

// ToUnixMicros converts a wall-clock time to the raw index representation.
func ToUnixMicros(t time.Time) int64 { return t.UnixMicro() }

// FromUnixMicros converts a raw index value back to a UTC wall-clock time.
func FromUnixMicros(us int64) time.Time { return time.UnixMicro(us).UTC() }

// FormatIndexTime renders a raw time-mode index value into the visible
// header fields. The rendering is one-way: the raw microsecond value remains
// the source of truth for comparisons.
func FormatIndexTime(us int64) string {
	return FromUnixMicros(us).Format(time.RFC3339Nano)
}

// ParseIndexTime reads a textual date-time index back into microseconds.
// Offsets are honored; sub-microsecond digits are truncated.
func ParseIndexTime(s string) (int64, error) {
	if s == "" {
		return 0, Validationf("empty date-time index")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, Validationf("bad date-time index %q: %v", s, err)
	}
	return t.UnixMicro(), nil
}
