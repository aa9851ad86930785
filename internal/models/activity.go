package models

// Nudge and Checkin are append-only records subject to the retention purge.
type Nudge struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

type Checkin struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Note      string `json:"note"`
	CreatedAt int64  `json:"created_at"`
}
