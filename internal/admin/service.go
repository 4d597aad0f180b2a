package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/buildwithfavas/mind-merge/internal/db"
	"github.com/buildwithfavas/mind-merge/internal/post"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userCols = `id, COALESCE(email,''), COALESCE(name,''), COALESCE(linkedin_url,''),
	COALESCE(photo_url,''), role, blocked, COALESCE(blocked_reason,''), blocked_at, created_at`

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) ListUsers(ctx context.Context, q, role, blocked string, page, pageSize int) (UserPage, error) {
	conds := []string{"TRUE"}
	args := []any{}
	if q != "" {
		args = append(args, q)
		conds = append(conds, fmt.Sprintf("(name ILIKE '%%'||$%d||'%%' OR email ILIKE '%%'||$%d||'%%')", len(args), len(args)))
	}
	if role == "admin" || role == "user" {
		args = append(args, role)
		conds = append(conds, fmt.Sprintf("role=$%d", len(args)))
	}
	switch blocked {
	case "true":
		conds = append(conds, "blocked")
	case "false":
		conds = append(conds, "NOT blocked")
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return UserPage{}, err
	}

	listArgs := append(args, pageSize, paging.Offset(page, pageSize))
	rows, err := s.db.Query(ctx, `
		SELECT `+userCols+`
		FROM users WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprint(len(args)+1)+` OFFSET $`+fmt.Sprint(len(args)+2),
		listArgs...)
	if err != nil {
		return UserPage{}, err
	}
	defer rows.Close()

	items := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return UserPage{}, err
		}
		items = append(items, u)
	}
	return UserPage{
		Items:    items,
		Page:     page,
		PageSize: len(items),
		Total:    total,
		HasMore:  paging.HasMore(page, pageSize, total),
	}, nil
}

func (s *Service) CreateUser(ctx context.Context, input UserInput) (User, error) {
	u := User{
		ID:          strings.TrimSpace(input.ID),
		Email:       strings.TrimSpace(input.Email),
		Name:        strings.TrimSpace(input.Name),
		LinkedinURL: strings.TrimSpace(input.LinkedinURL),
		PhotoURL:    strings.TrimSpace(input.PhotoURL),
		Role:        normalizeRole(input.Role),
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name, linkedin_url, photo_url, role)
		VALUES ($1,NULLIF($2,''),NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),$6)
		RETURNING created_at
	`, u.ID, u.Email, u.Name, u.LinkedinURL, u.PhotoURL, u.Role)
	if err := row.Scan(&u.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, apperr.Conflict("user already exists")
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, patch UserPatch) (User, error) {
	set := []string{}
	args := []any{id}
	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if patch.Email != nil {
		add("email", strings.TrimSpace(*patch.Email))
	}
	if patch.Name != nil {
		add("name", strings.TrimSpace(*patch.Name))
	}
	if patch.LinkedinURL != nil {
		add("linkedin_url", strings.TrimSpace(*patch.LinkedinURL))
	}
	if patch.PhotoURL != nil {
		add("photo_url", strings.TrimSpace(*patch.PhotoURL))
	}
	if patch.Role == "admin" || patch.Role == "user" {
		add("role", patch.Role)
	}
	if len(set) == 0 {
		return s.getUser(ctx, id)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users SET `+strings.Join(set, ", ")+`
		WHERE id=$1
		RETURNING `+userCols, args...)
	return scanUserNotFound(row)
}

func (s *Service) BlockUser(ctx context.Context, id, reason string) (User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET blocked=true, blocked_reason=NULLIF($2,''), blocked_at=now()
		WHERE id=$1
		RETURNING `+userCols, id, strings.TrimSpace(reason))
	return scanUserNotFound(row)
}

func (s *Service) UnblockUser(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET blocked=false, blocked_reason=NULL, blocked_at=NULL
		WHERE id=$1
		RETURNING `+userCols, id)
	return scanUserNotFound(row)
}

// DeleteUser removes the directory record only; posts and ledger rows the
// user left behind stay and are gated by application checks.
func (s *Service) DeleteUser(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return apperr.InvalidInput("cannot delete yourself")
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *Service) ListPosts(ctx context.Context, q, userID string, page, pageSize int) (PostPage, error) {
	conds := []string{"TRUE"}
	args := []any{}
	if q != "" {
		args = append(args, q)
		conds = append(conds, fmt.Sprintf("(title ILIKE '%%'||$%d||'%%' OR url ILIKE '%%'||$%d||'%%')", len(args), len(args)))
	}
	if userID != "" {
		args = append(args, userID)
		conds = append(conds, fmt.Sprintf("added_by_user_id=$%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE `+where, args...).Scan(&total); err != nil {
		return PostPage{}, err
	}

	listArgs := append(args, pageSize, paging.Offset(page, pageSize))
	rows, err := s.db.Query(ctx, `
		SELECT id, url, COALESCE(title,''), added_by_user_id, created_at
		FROM posts WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprint(len(args)+1)+` OFFSET $`+fmt.Sprint(len(args)+2),
		listArgs...)
	if err != nil {
		return PostPage{}, err
	}
	defer rows.Close()

	items := []post.Post{}
	for rows.Next() {
		var p post.Post
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.AddedByUserID, &p.CreatedAt); err != nil {
			return PostPage{}, err
		}
		items = append(items, p)
	}
	return PostPage{
		Items:    items,
		Page:     page,
		PageSize: len(items),
		Total:    total,
		HasMore:  paging.HasMore(page, pageSize, total),
	}, nil
}

// DeletePost is the moderation path: no ownership check, same ledger cascade
// as owner deletion.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("post not found")
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM post_statuses WHERE post_id=$1`, id); err != nil {
		log.Printf("cascade delete post statuses for %s: %v", id, err)
	}
	return nil
}

func (s *Service) getUser(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
	return scanUserNotFound(row)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.LinkedinURL, &u.PhotoURL,
		&u.Role, &u.Blocked, &u.BlockedReason, &u.BlockedAt, &u.CreatedAt)
	return u, err
}

func scanUserNotFound(row pgx.Row) (User, error) {
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func normalizeRole(role string) string {
	if role == "admin" {
		return "admin"
	}
	return "user"
}
