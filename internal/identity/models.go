package identity

import "github.com/golang-jwt/jwt/v5"

// Caller is the verified identity attached to every authenticated request.
type Caller struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
}

// Claims mirrors the token payload issued by the identity provider. The
// stable user id is the subject claim.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}
