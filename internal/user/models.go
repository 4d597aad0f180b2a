package user

type Me struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Role          string `json:"role"`
	Blocked       bool   `json:"blocked"`
	BlockedReason string `json:"blockedReason,omitempty"`
	LinkedinURL   string `json:"linkedinUrl"`
}

type Profile struct {
	Name        string `json:"name"`
	LinkedinURL string `json:"linkedinUrl"`
	PhotoURL    string `json:"photoURL"`
}

// Member is a directory entry shown on the profiles page.
type Member struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	LinkedinURL string `json:"linkedinUrl"`
	PhotoURL    string `json:"photoURL"`
}

type MemberPage struct {
	Items   []Member `json:"items"`
	Total   int      `json:"total"`
	HasMore bool     `json:"hasMore"`
}
