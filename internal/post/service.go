package post

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/buildwithfavas/mind-merge/internal/db"
	"github.com/buildwithfavas/mind-merge/internal/shared/display"
	"github.com/buildwithfavas/mind-merge/internal/shared/paging"
	"github.com/buildwithfavas/mind-merge/internal/shared/validate"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Create shares a new link. The URL is unique system-wide; a race between
// the existence check and the insert is normalized to the same conflict.
func (s *Service) Create(ctx context.Context, userID, rawURL, title string) (Post, error) {
	if !validate.IsLinkedInURL(rawURL) {
		return Post{}, apperr.InvalidInput("invalid linkedin url")
	}
	title = cleanTitle(title)

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE url=$1)`, rawURL).Scan(&exists); err != nil {
		return Post{}, err
	}
	if exists {
		return Post{}, apperr.Conflict("this post has already been shared")
	}

	p := Post{
		ID:            uuid.NewString(),
		URL:           rawURL,
		Title:         title,
		AddedByUserID: userID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, url, title, added_by_user_id)
		VALUES ($1,$2,NULLIF($3,''),$4)
		RETURNING created_at
	`, p.ID, p.URL, p.Title, p.AddedByUserID)
	if err := row.Scan(&p.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return Post{}, apperr.Conflict("this post has already been shared")
		}
		return Post{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, url, COALESCE(title,''), added_by_user_id, created_at
		FROM posts WHERE id=$1
	`, id)
	var p Post
	if err := row.Scan(&p.ID, &p.URL, &p.Title, &p.AddedByUserID, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, apperr.NotFound("post not found")
		}
		return Post{}, err
	}
	return p, nil
}

// Update patches title and/or URL; only the owner may do so.
func (s *Service) Update(ctx context.Context, userID, id string, title, rawURL *string) (Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if p.AddedByUserID != userID {
		return Post{}, apperr.Forbidden("forbidden")
	}

	if title != nil {
		p.Title = cleanTitle(*title)
	}
	if rawURL != nil {
		if !validate.IsLinkedInURL(*rawURL) {
			return Post{}, apperr.InvalidInput("invalid linkedin url")
		}
		p.URL = *rawURL
	}

	_, err = s.db.Exec(ctx, `
		UPDATE posts SET title=NULLIF($2,''), url=$3 WHERE id=$1
	`, p.ID, p.Title, p.URL)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Post{}, apperr.Conflict("a post with this url already exists")
		}
		return Post{}, err
	}
	return p, nil
}

// Delete removes a post owned by userID, then cascades over the ledger.
// The cascade is a second, best-effort statement: if it fails after the
// primary delete succeeded, the orphan rows are logged and left behind.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.AddedByUserID != userID {
		return apperr.Forbidden("forbidden")
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM post_statuses WHERE post_id=$1`, id); err != nil {
		log.Printf("cascade delete post statuses for %s: %v", id, err)
	}
	return nil
}

// Feed lists posts visible to the caller. When q.Paginate is false the total
// is not counted and every matching post is returned.
func (s *Service) Feed(ctx context.Context, q FeedQuery) ([]FeedItem, int, error) {
	where := `added_by_user_id <> $1`
	if q.Mine {
		where = `added_by_user_id = $1`
	}
	if !q.IncludeDone {
		where += `
		  AND NOT EXISTS (
			SELECT 1 FROM post_statuses ps
			WHERE ps.post_id = posts.id AND ps.user_id = $1 AND ps.status = 'done'
		  )`
	}

	total := 0
	if q.Paginate {
		if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE `+where, q.UserID).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	listSQL := `
		SELECT id, url, COALESCE(title,''), added_by_user_id, created_at
		FROM posts WHERE ` + where + `
		ORDER BY created_at DESC`
	args := []any{q.UserID}
	if q.Paginate {
		listSQL += ` LIMIT $2 OFFSET $3`
		args = append(args, q.PageSize, paging.Offset(q.Page, q.PageSize))
	}

	rows, err := s.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.AddedByUserID, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}

	items, err := s.enrich(ctx, q.UserID, posts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Engage sets both flags to the supplied values for the caller's ledger row,
// creating it on first interaction, then returns fresh aggregate metrics.
func (s *Service) Engage(ctx context.Context, userID, postID string, liked, commented bool) (Metrics, error) {
	if err := s.mustExist(ctx, postID); err != nil {
		return Metrics{}, err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO post_statuses (user_id, post_id, liked, commented)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, post_id) DO UPDATE
		SET liked=EXCLUDED.liked, commented=EXCLUDED.commented, updated_at=now()
	`, userID, postID, liked, commented)
	if err != nil {
		return Metrics{}, err
	}

	var m Metrics
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE liked), COUNT(*) FILTER (WHERE commented)
		FROM post_statuses WHERE post_id=$1
	`, postID)
	if err := row.Scan(&m.Likes, &m.Comments); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

// MarkDone upserts the done status, keeping any liked/commented flags.
func (s *Service) MarkDone(ctx context.Context, userID, postID string) error {
	if err := s.mustExist(ctx, postID); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO post_statuses (user_id, post_id, status)
		VALUES ($1,$2,'done')
		ON CONFLICT (user_id, post_id) DO UPDATE
		SET status='done', updated_at=now()
	`, userID, postID)
	return err
}

// UndoDone clears only the done status. Engagement flags survive the undo.
func (s *Service) UndoDone(ctx context.Context, userID, postID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE post_statuses SET status=NULL, updated_at=now()
		WHERE user_id=$1 AND post_id=$2
	`, userID, postID)
	return err
}

// DoneList returns the caller's completed posts, most recently done first.
func (s *Service) DoneList(ctx context.Context, userID string) ([]DoneItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.url, COALESCE(p.title,''), p.added_by_user_id, p.created_at, ps.updated_at
		FROM post_statuses ps
		JOIN posts p ON p.id = ps.post_id
		WHERE ps.user_id=$1 AND ps.status='done'
		ORDER BY ps.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []DoneItem{}
	var posts []Post
	for rows.Next() {
		var item DoneItem
		if err := rows.Scan(&item.ID, &item.URL, &item.Title, &item.AddedByUserID, &item.CreatedAt, &item.DoneAt); err != nil {
			return nil, err
		}
		items = append(items, item)
		posts = append(posts, item.Post)
	}
	if len(items) == 0 {
		return items, nil
	}

	sharers, err := s.loadSharers(ctx, ownerIDs(posts))
	if err != nil {
		return nil, err
	}
	metrics, err := s.loadMetrics(ctx, postIDs(posts))
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Sharer = sharers[items[i].AddedByUserID]
		items[i].Metrics = metrics[items[i].ID]
	}
	return items, nil
}

func (s *Service) mustExist(ctx context.Context, postID string) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)`, postID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("post not found")
	}
	return nil
}

// enrich joins sharer display data, aggregate metrics for exactly these
// posts, and the caller's own flags onto the page.
func (s *Service) enrich(ctx context.Context, userID string, posts []Post) ([]FeedItem, error) {
	items := []FeedItem{}
	if len(posts) == 0 {
		return items, nil
	}

	sharers, err := s.loadSharers(ctx, ownerIDs(posts))
	if err != nil {
		return nil, err
	}
	metrics, err := s.loadMetrics(ctx, postIDs(posts))
	if err != nil {
		return nil, err
	}
	own, err := s.loadOwn(ctx, userID, postIDs(posts))
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		items = append(items, FeedItem{
			Post:    p,
			Sharer:  sharers[p.AddedByUserID],
			Metrics: metrics[p.ID],
			Me:      own[p.ID],
		})
	}
	return items, nil
}

func (s *Service) loadSharers(ctx context.Context, userIDs []string) (map[string]Sharer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, COALESCE(name,''), COALESCE(email,''), COALESCE(photo_url,'')
		FROM users WHERE id = ANY($1)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sharers := map[string]Sharer{}
	for rows.Next() {
		var id, name, email, photo string
		if err := rows.Scan(&id, &name, &email, &photo); err != nil {
			return nil, err
		}
		derived := display.Name(name, email)
		sharers[id] = Sharer{Name: derived, PhotoURL: display.Avatar(photo, derived)}
	}
	return sharers, nil
}

func (s *Service) loadMetrics(ctx context.Context, ids []string) (map[string]Metrics, error) {
	rows, err := s.db.Query(ctx, `
		SELECT post_id, COUNT(*) FILTER (WHERE liked), COUNT(*) FILTER (WHERE commented)
		FROM post_statuses WHERE post_id = ANY($1)
		GROUP BY post_id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := map[string]Metrics{}
	for rows.Next() {
		var id string
		var m Metrics
		if err := rows.Scan(&id, &m.Likes, &m.Comments); err != nil {
			return nil, err
		}
		metrics[id] = m
	}
	return metrics, nil
}

func (s *Service) loadOwn(ctx context.Context, userID string, ids []string) (map[string]Engagement, error) {
	rows, err := s.db.Query(ctx, `
		SELECT post_id, liked, commented
		FROM post_statuses WHERE user_id=$1 AND post_id = ANY($2)
	`, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	own := map[string]Engagement{}
	for rows.Next() {
		var id string
		var e Engagement
		if err := rows.Scan(&id, &e.Liked, &e.Commented); err != nil {
			return nil, err
		}
		own[id] = e
	}
	return own, nil
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen])
	}
	return title
}

func ownerIDs(posts []Post) []string {
	seen := map[string]bool{}
	var ids []string
	for _, p := range posts {
		if !seen[p.AddedByUserID] {
			seen[p.AddedByUserID] = true
			ids = append(ids, p.AddedByUserID)
		}
	}
	return ids
}

func postIDs(posts []Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
