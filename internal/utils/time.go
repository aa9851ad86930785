package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/momentum/internal/constants"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// ToMillis converts t to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// WeekStart returns the inclusive lower bound of the trailing seven day window ending at nowMs.
func WeekStart(nowMs int64) int64 {
	return nowMs - constants.WeekMs
}

// Cutoff returns nowMs minus the given number of whole days.
// Records strictly older than the cutoff are expired.
func Cutoff(nowMs int64, days int) int64 {
	return nowMs - int64(days)*constants.DayMs
}

// ValidateDateKey checks that s is a YYYY-MM-DD date key.
func ValidateDateKey(s string) error {
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// TodayInTimezone returns the date key for now in the given timezone.
func TodayInTimezone(now time.Time, timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return now.In(loc).Format(constants.DateFormat), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
