package constants

const (
	AppName            = "momentum"
	DefaultKeyringUser = "database-connection"
	TokenKeyringUser   = "api-token"
	DefaultConfigPath  = "~/.config/momentum/momentum.db"
	Version            = "v0.3.0"

	// Log file rotation
	LogFileName       = "momentum.log"
	LogMaxSizeMB      = 10
	LogMaxBackups     = 3
	LogMaxAgeDays     = 28
	DefaultHTTPAddr   = ":8080"
	DefaultPurgeCron  = "@every 24h"
	PurgeJobName      = "purge-expired-data"
	PurgeLeaseTTLMin  = 10
	DefaultTokenTTLHr = 24 * 30

	// Commitment status values. The empty string is the unset status.
	StatusUnset     = ""
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusNotYet    = "not_yet"
)
