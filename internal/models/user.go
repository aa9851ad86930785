package models

// User is keyed by the authentication subject.
type User struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Profile carries the user's ordered identity statements; the last one is the newest.
type Profile struct {
	UserID             string   `json:"user_id"`
	IdentityStatements []string `json:"identity_statements"`
	UpdatedAt          int64    `json:"updated_at"`
}

// LatestIdentityStatement returns the most recently appended statement, or nil.
func (p *Profile) LatestIdentityStatement() *string {
	if p == nil || len(p.IdentityStatements) == 0 {
		return nil
	}
	s := p.IdentityStatements[len(p.IdentityStatements)-1]
	return &s
}
