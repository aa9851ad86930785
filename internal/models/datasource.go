package models

// DataSource is a per-user, per-source collection toggle with its retention window.
type DataSource struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	Source        string   `json:"source"`
	Enabled       bool     `json:"enabled"`
	RetentionDays int      `json:"retention_days"`
	Scopes        []string `json:"scopes,omitempty"`
	CreatedAt     int64    `json:"created_at"`
	UpdatedAt     int64    `json:"updated_at"`
}
