package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/momentum/internal/constants"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone America/New_York", timezone: "America/New_York", wantErr: false},
		{name: "invalid timezone", timezone: "Mars/Olympus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation(%q) returned nil location", tt.timezone)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	now := int64(1_717_200_000_000)
	if got := WeekStart(now); got != now-604800000 {
		t.Errorf("WeekStart() = %d, want %d", got, now-604800000)
	}
}

func TestCutoff(t *testing.T) {
	now := int64(1_717_200_000_000)
	tests := []struct {
		days int
		want int64
	}{
		{days: 0, want: now},
		{days: 1, want: now - 86400000},
		{days: 14, want: now - 14*86400000},
	}
	for _, tt := range tests {
		if got := Cutoff(now, tt.days); got != tt.want {
			t.Errorf("Cutoff(now, %d) = %d, want %d", tt.days, got, tt.want)
		}
	}
}

func TestValidateDateKey(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2024-06-01", wantErr: false},
		{in: "2024-02-29", wantErr: false},
		{in: "2023-02-29", wantErr: true},
		{in: "06/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		if err := ValidateDateKey(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateDateKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestTodayInTimezone(t *testing.T) {
	// 2024-06-01 02:00 UTC is still May 31 in New York
	now := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)

	got, err := TodayInTimezone(now, "UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-06-01" {
		t.Errorf("UTC date = %s, want 2024-06-01", got)
	}

	got, err = TodayInTimezone(now, "America/New_York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-05-31" {
		t.Errorf("New York date = %s, want 2024-05-31", got)
	}

	if _, err := TodayInTimezone(now, "Not/AZone"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestMillisRoundTrip(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	if got := FromMillis(ToMillis(ts)); !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
	if FixedClock(ts)().Format(constants.DateFormat) != "2024-06-01" {
		t.Error("FixedClock did not return the pinned time")
	}
}
