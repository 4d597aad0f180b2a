package user

import (
	"context"
	"errors"
	"strings"

	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/buildwithfavas/mind-merge/internal/db"
	"github.com/buildwithfavas/mind-merge/internal/identity"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/buildwithfavas/mind-merge/internal/shared/validate"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Me combines the provider identity with the stored directory attributes.
func (s *Service) Me(ctx context.Context, caller identity.Caller) (Me, error) {
	me := Me{
		UID:     caller.UID,
		Email:   caller.Email,
		Name:    caller.Name,
		Picture: caller.Picture,
		Role:    "user",
	}
	row := s.db.QueryRow(ctx, `
		SELECT role, blocked, COALESCE(blocked_reason,''), COALESCE(linkedin_url,'')
		FROM users WHERE id=$1
	`, caller.UID)
	err := row.Scan(&me.Role, &me.Blocked, &me.BlockedReason, &me.LinkedinURL)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Me{}, err
	}
	return me, nil
}

// Profile fails with not found until the user has saved a LinkedIn URL;
// clients use that to route new users to onboarding.
func (s *Service) Profile(ctx context.Context, uid string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(name,''), COALESCE(linkedin_url,''), COALESCE(photo_url,'')
		FROM users WHERE id=$1
	`, uid)
	var p Profile
	if err := row.Scan(&p.Name, &p.LinkedinURL, &p.PhotoURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, apperr.NotFound("profile not found")
		}
		return Profile{}, err
	}
	if p.LinkedinURL == "" {
		return Profile{}, apperr.NotFound("profile not found")
	}
	return p, nil
}

// SaveProfile upserts name and LinkedIn URL; the photo is only replaced when
// a new one is supplied.
func (s *Service) SaveProfile(ctx context.Context, uid, name, linkedinURL, photoURL string) error {
	name = strings.TrimSpace(name)
	linkedinURL = strings.TrimSpace(linkedinURL)
	photoURL = strings.TrimSpace(photoURL)

	if name == "" {
		return apperr.InvalidInput("name is required")
	}
	if linkedinURL == "" {
		return apperr.InvalidInput("linkedin url is required")
	}
	if !validate.IsLinkedInURL(linkedinURL) {
		return apperr.InvalidInput("invalid linkedin url")
	}
	if photoURL != "" && !validate.IsHTTPSURL(photoURL) {
		return apperr.InvalidInput("invalid photo url (must be https)")
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, linkedin_url, photo_url)
		VALUES ($1,$2,$3,NULLIF($4,''))
		ON CONFLICT (id) DO UPDATE
		SET name=EXCLUDED.name,
		    linkedin_url=EXCLUDED.linkedin_url,
		    photo_url=COALESCE(EXCLUDED.photo_url, users.photo_url)
	`, uid, name, linkedinURL, photoURL)
	return err
}

// Directory lists members with a saved profile, newest first, excluding the
// caller and anyone already related to them in any status.
func (s *Service) Directory(ctx context.Context, uid string, page, pageSize int) (MemberPage, error) {
	const fromClause = `
		FROM users u
		WHERE u.id <> $1
		  AND COALESCE(u.linkedin_url,'') <> ''
		  AND NOT EXISTS (
			SELECT 1 FROM connections c
			WHERE (c.a_id=$1 AND c.b_id=u.id) OR (c.a_id=u.id AND c.b_id=$1)
		  )
	`

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) `+fromClause, uid).Scan(&total); err != nil {
		return MemberPage{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT u.id, COALESCE(u.name,''), COALESCE(u.linkedin_url,''), COALESCE(u.photo_url,'')
	`+fromClause+`
		ORDER BY u.created_at DESC
		LIMIT $2 OFFSET $3
	`, uid, pageSize, paging.Offset(page, pageSize))
	if err != nil {
		return MemberPage{}, err
	}
	defer rows.Close()

	items := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.LinkedinURL, &m.PhotoURL); err != nil {
			return MemberPage{}, err
		}
		items = append(items, m)
	}
	return MemberPage{
		Items:   items,
		Total:   total,
		HasMore: paging.HasMore(page, pageSize, total),
	}, nil
}
