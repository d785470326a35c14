package etp

import (
	"math"
	"strings"
)

// Default wire scales. Depth values keep three decimals as fixed-point
// integers; time values are already integral microseconds.
const (
	DepthScale int32 = 3
	TimeScale  int32 = 0
)

// ScaleIndex encodes a raw index value as a fixed-point integer at the given
// decimal scale: round(v * 10^scale).
func ScaleIndex(v float64, scale int32) int64 {
	return int64(math.Round(v * math.Pow10(int(scale))))
}

// UnscaleIndex decodes a fixed-point integer back to its raw value.
func UnscaleIndex(raw int64, scale int32) float64 {
	return float64(raw) / math.Pow10(int(scale))
}

// ScaleOptional encodes an optional raw value, passing absence through.
func ScaleOptional(v *float64, scale int32) *int64 {
	if v == nil {
		return nil
	}
	raw := ScaleIndex(*v, scale)
	return &raw
}

// NormalizeDataType strips placeholder characters from a declared data type
// and lowers it to the wire vocabulary. An empty or fully stripped value
// falls back to "double", the dominant curve type.
func NormalizeDataType(declared string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(declared)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "double"
	}
	return b.String()
}

// OrUnknown substitutes the unknown sentinel for absent attributes.
func OrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
