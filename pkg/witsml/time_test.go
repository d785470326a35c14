package witsml

import (
	"testing"
	"time"
)

func TestMicrosRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 30, 15, 250_000_000, time.UTC)
	us := ToUnixMicros(ts)
	if got := FromUnixMicros(us); !got.Equal(ts) {
		t.Fatalf("round trip %v != %v", got, ts)
	}
}

func TestFormatIndexTimeEpochOffset(t *testing.T) {
	if got := FormatIndexTime(1_000_000); got != "1970-01-01T00:00:01Z" {
		t.Fatalf("FormatIndexTime(1e6) = %q", got)
	}
}

func TestParseIndexTime(t *testing.T) {
	us, err := ParseIndexTime("2024-03-09T14:30:15.25Z")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 9, 14, 30, 15, 250_000_000, time.UTC).UnixMicro()
	if us != want {
		t.Fatalf("ParseIndexTime = %d, want %d", us, want)
	}
}

func TestParseIndexTimeOffset(t *testing.T) {
	us, err := ParseIndexTime("2024-03-09T16:30:15+02:00")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 9, 14, 30, 15, 0, time.UTC).UnixMicro()
	if us != want {
		t.Fatalf("offset parse = %d, want %d", us, want)
	}
}

func TestParseIndexTimeErrors(t *testing.T) {
	for _, s := range []string{"", "not-a-time", "2024-03-09"} {
		if _, err := ParseIndexTime(s); !IsValidation(err) {
			t.Errorf("ParseIndexTime(%q): want validation error, got %v", s, err)
		}
	}
}

func TestFormatParseStability(t *testing.T) {
	// The visible rendering is one-way, but parsing it back must land on
	// the same microsecond value.
	for _, us := range []int64{0, 1, 999_999, 1_000_000, 1_709_994_615_250_000} {
		got, err := ParseIndexTime(FormatIndexTime(us))
		if err != nil {
			t.Fatalf("us=%d: %v", us, err)
		}
		if got != us {
			t.Fatalf("us=%d parsed back as %d", us, got)
		}
	}
}
