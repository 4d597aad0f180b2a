package connection

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Pair canonicalizes two identities so every unordered pair maps to exactly
// one row. All reads and writes go through this key.
func Pair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Profile is the directory projection returned by friends and suggestions.
type Profile struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	LinkedinURL string `json:"linkedinUrl"`
}

// IncomingRequest is a pending request addressed to the caller.
type IncomingRequest struct {
	RequesterID string    `json:"requesterId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photoURL"`
	LinkedinURL string    `json:"linkedinUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProfilePage struct {
	Items    []Profile `json:"items"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
}
