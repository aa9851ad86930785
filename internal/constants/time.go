package constants

import "time"

const (
	// DateFormat is the date-key format used for commitments (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DayMs and WeekMs are window sizes in epoch milliseconds
	DayMs  int64 = 24 * 60 * 60 * 1000
	WeekMs int64 = 7 * DayMs

	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 10 * time.Second
)
