package post

import "time"

const maxTitleLen = 120

type Post struct {
	ID            string    `json:"_id"`
	URL           string    `json:"url"`
	Title         string    `json:"title,omitempty"`
	AddedByUserID string    `json:"addedByUserId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Sharer struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// Metrics are aggregated fresh across all users on every read; they are
// never denormalized onto the post row.
type Metrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

type Engagement struct {
	Liked     bool `json:"liked"`
	Commented bool `json:"commented"`
}

type FeedItem struct {
	Post
	Sharer  Sharer     `json:"sharer"`
	Metrics Metrics    `json:"metrics"`
	Me      Engagement `json:"me"`
}

type FeedPage struct {
	Items    []FeedItem `json:"items"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	Total    int        `json:"total"`
	HasMore  bool       `json:"hasMore"`
}

// FeedQuery selects and shapes the caller's feed. Paginate reflects whether
// the client sent a page at all; without it the full list is returned.
type FeedQuery struct {
	UserID      string
	Mine        bool
	IncludeDone bool
	Page        int
	PageSize    int
	Paginate    bool
}

// DoneItem is a completed post in the caller's history.
type DoneItem struct {
	Post
	DoneAt  time.Time `json:"doneAt"`
	Sharer  Sharer    `json:"sharer"`
	Metrics Metrics   `json:"metrics"`
}
