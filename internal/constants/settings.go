package constants

const (
	// Data source names
	SourceCalendar      = "calendar"
	SourceLocation      = "location"
	SourceNotifications = "notifications"
	SourceHealth        = "health"

	// Retention defaults in days
	DefaultNotificationRetentionDays = 14
	DefaultCheckinRetentionDays      = 14
	DefaultUnknownSourceRetention    = 14
)
