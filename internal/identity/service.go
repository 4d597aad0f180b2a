package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/buildwithfavas/mind-merge/internal/db"
	"github.com/golang-jwt/jwt/v5"
)

type Service struct {
	secret      []byte
	adminEmails map[string]bool
	db          db.Querier
}

func NewService(secret string, adminEmails map[string]bool, q db.Querier) *Service {
	return &Service{
		secret:      []byte(secret),
		adminEmails: adminEmails,
		db:          q,
	}
}

// Verify checks the bearer token against the provider key and extracts the
// caller identity from its claims.
func (s *Service) Verify(token string) (Caller, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return Caller{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Caller{}, errors.New("token invalid")
	}
	return Caller{
		UID:     claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// Resolve upserts the directory record for a verified caller, enforces the
// blocked gate and applies the admin allow-list. Provider name and picture
// only ever fill gaps; a user-chosen value is never overwritten.
func (s *Service) Resolve(ctx context.Context, caller Caller) (Caller, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, name, photo_url)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''))
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
	`, caller.UID, caller.Email, caller.Name, caller.Picture)
	if err != nil {
		return Caller{}, err
	}

	if caller.Name != "" {
		_, err = s.db.Exec(ctx, `
			UPDATE users SET name=$2 WHERE id=$1 AND COALESCE(name,'') = ''
		`, caller.UID, caller.Name)
		if err != nil {
			return Caller{}, err
		}
	}
	if caller.Picture != "" {
		_, err = s.db.Exec(ctx, `
			UPDATE users SET photo_url=$2 WHERE id=$1 AND COALESCE(photo_url,'') = ''
		`, caller.UID, caller.Picture)
		if err != nil {
			return Caller{}, err
		}
	}

	var blocked bool
	var blockedReason string
	row := s.db.QueryRow(ctx, `
		SELECT role, blocked, COALESCE(blocked_reason,'')
		FROM users WHERE id=$1
	`, caller.UID)
	if err := row.Scan(&caller.Role, &blocked, &blockedReason); err != nil {
		return Caller{}, err
	}
	if blocked {
		return Caller{}, apperr.Blocked(blockedReason)
	}

	if caller.Role != "admin" && s.adminEmails[strings.ToLower(caller.Email)] {
		if _, err := s.db.Exec(ctx, `UPDATE users SET role='admin' WHERE id=$1`, caller.UID); err != nil {
			return Caller{}, err
		}
		caller.Role = "admin"
	}

	return caller, nil
}
