package admin

import (
	"time"

	"github.com/buildwithfavas/mind-merge/internal/post"
)

type User struct {
	ID            string     `json:"_id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	LinkedinURL   string     `json:"linkedinUrl"`
	PhotoURL      string     `json:"photoURL"`
	Role          string     `json:"role"`
	Blocked       bool       `json:"blocked"`
	BlockedReason string     `json:"blockedReason,omitempty"`
	BlockedAt     *time.Time `json:"blockedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type UserPage struct {
	Items    []User `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
	HasMore  bool   `json:"hasMore"`
}

type UserInput struct {
	ID          string `json:"_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	LinkedinURL string `json:"linkedinUrl"`
	PhotoURL    string `json:"photoURL"`
	Role        string `json:"role"`
}

// UserPatch distinguishes absent fields from explicit empty values.
type UserPatch struct {
	Email       *string `json:"email"`
	Name        *string `json:"name"`
	LinkedinURL *string `json:"linkedinUrl"`
	PhotoURL    *string `json:"photoURL"`
	Role        string  `json:"role"`
}

type PostPage struct {
	Items    []post.Post `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Total    int         `json:"total"`
	HasMore  bool        `json:"hasMore"`
}
