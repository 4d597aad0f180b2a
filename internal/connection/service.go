package connection

import (
	"context"
	"errors"

	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/buildwithfavas/mind-merge/internal/db"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Request creates a pending row for the pair if none exists. An existing row
// is left untouched regardless of status, so repeated or crossed requests
// never duplicate or downgrade the relationship.
func (s *Service) Request(ctx context.Context, requester, addressee string) error {
	if addressee == "" || addressee == requester {
		return apperr.InvalidInput("invalid addressee")
	}
	aID, bID := Pair(requester, addressee)
	_, err := s.db.Exec(ctx, `
		INSERT INTO connections (a_id, b_id, requester_id, status)
		VALUES ($1,$2,$3,'pending')
		ON CONFLICT (a_id, b_id) DO NOTHING
	`, aID, bID, requester)
	return err
}

// Respond accepts or declines the pending request the other party sent.
// Decline deletes the row, resetting the pair so a fresh request can follow.
func (s *Service) Respond(ctx context.Context, responder, requesterID, action string) error {
	if requesterID == "" || (action != "accept" && action != "decline") {
		return apperr.InvalidInput("bad input")
	}
	if requesterID == responder {
		return apperr.Forbidden("not allowed")
	}

	aID, bID := Pair(responder, requesterID)
	var rowRequester, status string
	row := s.db.QueryRow(ctx, `
		SELECT requester_id, status FROM connections WHERE a_id=$1 AND b_id=$2
	`, aID, bID)
	if err := row.Scan(&rowRequester, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("no pending request")
		}
		return err
	}
	if status != StatusPending {
		return apperr.NotFound("no pending request")
	}
	if rowRequester == responder {
		return apperr.Forbidden("not allowed")
	}
	if rowRequester != requesterID {
		return apperr.NotFound("no pending request")
	}

	if action == "accept" {
		_, err := s.db.Exec(ctx, `
			UPDATE connections SET status='accepted', updated_at=now()
			WHERE a_id=$1 AND b_id=$2
		`, aID, bID)
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM connections WHERE a_id=$1 AND b_id=$2`, aID, bID)
	return err
}

// MarkAccepted records an externally confirmed connection, overriding any
// prior state. This is the one path that bypasses the request handshake.
func (s *Service) MarkAccepted(ctx context.Context, caller, other string) error {
	if other == "" || other == caller {
		return apperr.InvalidInput("invalid addressee")
	}
	aID, bID := Pair(caller, other)
	_, err := s.db.Exec(ctx, `
		INSERT INTO connections (a_id, b_id, requester_id, status)
		VALUES ($1,$2,$3,'accepted')
		ON CONFLICT (a_id, b_id) DO UPDATE
		SET requester_id=EXCLUDED.requester_id, status='accepted', updated_at=now()
	`, aID, bID, caller)
	return err
}

// Unfriend deletes only an accepted row. Pending or absent rows are left
// alone and the call still succeeds.
func (s *Service) Unfriend(ctx context.Context, caller, other string) error {
	aID, bID := Pair(caller, other)
	_, err := s.db.Exec(ctx, `
		DELETE FROM connections WHERE a_id=$1 AND b_id=$2 AND status='accepted'
	`, aID, bID)
	return err
}

func (s *Service) Friends(ctx context.Context, uid, q string, page, limit int) (ProfilePage, error) {
	const fromClause = `
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.a_id=$1 THEN c.b_id ELSE c.a_id END
		WHERE c.status='accepted' AND (c.a_id=$1 OR c.b_id=$1)
		  AND ($2 = '' OR u.name ILIKE '%'||$2||'%' OR u.email ILIKE '%'||$2||'%')
	`

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) `+fromClause, uid, q).Scan(&total); err != nil {
		return ProfilePage{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT u.id, COALESCE(u.name,''), COALESCE(u.email,''), COALESCE(u.photo_url,''), COALESCE(u.linkedin_url,'')
	`+fromClause+`
		ORDER BY u.name, u.email
		LIMIT $3 OFFSET $4
	`, uid, q, limit, paging.Offset(page, limit))
	if err != nil {
		return ProfilePage{}, err
	}
	defer rows.Close()

	items, err := scanProfiles(rows)
	if err != nil {
		return ProfilePage{}, err
	}
	return ProfilePage{
		Items:    items,
		Page:     page,
		PageSize: len(items),
		Total:    total,
		HasMore:  paging.HasMore(page, limit, total),
	}, nil
}

// IncomingRequests lists pending rows where the caller is a party but did
// not initiate, joined with the requester's profile.
func (s *Service) IncomingRequests(ctx context.Context, uid string) ([]IncomingRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.requester_id, COALESCE(u.name,''), COALESCE(u.email,''),
		       COALESCE(u.photo_url,''), COALESCE(u.linkedin_url,''), c.created_at
		FROM connections c
		JOIN users u ON u.id = c.requester_id
		WHERE c.status='pending' AND (c.a_id=$1 OR c.b_id=$1) AND c.requester_id <> $1
		ORDER BY c.created_at DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []IncomingRequest{}
	for rows.Next() {
		var r IncomingRequest
		if err := rows.Scan(&r.RequesterID, &r.Name, &r.Email, &r.PhotoURL, &r.LinkedinURL, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Suggestions lists everyone except the caller and anyone already related to
// them in any status.
func (s *Service) Suggestions(ctx context.Context, uid, q string, page, limit int) (ProfilePage, error) {
	const fromClause = `
		FROM users u
		WHERE u.id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM connections c
			WHERE (c.a_id=$1 AND c.b_id=u.id) OR (c.a_id=u.id AND c.b_id=$1)
		  )
		  AND ($2 = '' OR u.name ILIKE '%'||$2||'%' OR u.email ILIKE '%'||$2||'%')
	`

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) `+fromClause, uid, q).Scan(&total); err != nil {
		return ProfilePage{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT u.id, COALESCE(u.name,''), COALESCE(u.email,''), COALESCE(u.photo_url,''), COALESCE(u.linkedin_url,'')
	`+fromClause+`
		ORDER BY u.name, u.email
		LIMIT $3 OFFSET $4
	`, uid, q, limit, paging.Offset(page, limit))
	if err != nil {
		return ProfilePage{}, err
	}
	defer rows.Close()

	items, err := scanProfiles(rows)
	if err != nil {
		return ProfilePage{}, err
	}
	return ProfilePage{
		Items:    items,
		Page:     page,
		PageSize: len(items),
		Total:    total,
		HasMore:  paging.HasMore(page, limit, total),
	}, nil
}

func scanProfiles(rows pgx.Rows) ([]Profile, error) {
	items := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PhotoURL, &p.LinkedinURL); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}
