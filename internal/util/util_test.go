package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{500, "500"},
		{1500, "1.5K"},
		{1500000, "1.5M"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(33.35); got != "33.4%" && got != "33.3%" {
		t.Errorf("FormatPercent(33.35) = %q", got)
	}
	if got := FormatPercent(100); got != "100.0%" {
		t.Errorf("FormatPercent(100) = %q, want 100.0%%", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDateTime(nil); got != "-" {
		t.Errorf("FormatDateTime(nil) = %q, want -", got)
	}
	ts := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	if got := FormatDateTime(&ts); got != "2024-03-01 09:05" {
		t.Errorf("FormatDateTime() = %q", got)
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 0, 123, time.UTC)
	got := NullTimeToPtr(NullTime(&ts))
	if got == nil || !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
	if NullTimeToPtr(NullTime(nil)) != nil {
		t.Error("nil time did not stay nil")
	}
	if NullTimeToPtr(sql.NullString{String: "garbage", Valid: true}) != nil {
		t.Error("garbage parsed as a time")
	}
}

func TestParseTimeSQL(t *testing.T) {
	want := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-01T09:05:00Z", "2024-03-01 09:05:00"} {
		if got := ParseTimeSQL(s); !got.Equal(want) {
			t.Errorf("ParseTimeSQL(%q) = %v, want %v", s, got, want)
		}
	}
}
