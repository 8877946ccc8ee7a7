package clip

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"referencer/internal/adapters/storage"
	domain "referencer/internal/domain/clip"
)

// ErrNotFound is returned when no clip matches the lookup.
var ErrNotFound = errors.New("clip not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new clip store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const clipColumns = "id, user_id, video_id, title, thumbnail, start_time, end_time, video_duration, notes, is_public, share_slug, created_at, updated_at"

// GetByID retrieves a clip by its ID.
// PRE: id is non-empty
// POST: returns the clip or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Clip, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+clipColumns+" FROM clip WHERE id = ?", id)
	return scanClip(row.Scan)
}

// GetByShareSlug retrieves a public clip by its share slug.
// PRE: slug is non-empty
// POST: returns the clip or ErrNotFound; never returns private clips
func (s *SQLiteStore) GetByShareSlug(ctx context.Context, slug string) (domain.Clip, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+clipColumns+" FROM clip WHERE share_slug = ? AND is_public = 1", slug)
	return scanClip(row.Scan)
}

// Save inserts or updates a clip.
// PRE: value has been validated and has a non-empty ID
// POST: clip is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Clip) error {
	isPublic := 0
	if value.IsPublic {
		isPublic = 1
	}
	var shareSlug any
	if value.ShareSlug != "" {
		shareSlug = value.ShareSlug
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clip (`+clipColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			thumbnail=excluded.thumbnail,
			start_time=excluded.start_time,
			end_time=excluded.end_time,
			video_duration=excluded.video_duration,
			notes=excluded.notes,
			is_public=excluded.is_public,
			share_slug=excluded.share_slug,
			updated_at=excluded.updated_at`,
		value.ID, value.UserID, value.VideoID, value.Title, value.Thumbnail,
		value.StartTime, value.EndTime, value.VideoDuration, value.Notes,
		isPublic, shareSlug,
		value.CreatedAt.Format(time.RFC3339Nano),
		value.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a clip by ID. Associations cascade.
// PRE: id is non-empty
// POST: clip is removed from storage
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM clip WHERE id = ?", id)
	return err
}

// ListByUser returns a page of the user's clips, newest first.
// A non-empty search narrows results to titles containing the term
// (case-insensitive).
// PRE: userID is non-empty; limit > 0
// POST: returns at most limit clips starting at offset
func (s *SQLiteStore) ListByUser(ctx context.Context, userID, search string, limit, offset int) ([]domain.Clip, error) {
	query := "SELECT " + clipColumns + " FROM clip WHERE user_id = ?"
	args := []any{userID}
	if search != "" {
		query += " AND title LIKE ? ESCAPE '\\'"
		args = append(args, likePattern(search))
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClips(rows)
}

// CountByUser returns the number of the user's clips matching the search term
// (all clips when search is empty).
func (s *SQLiteStore) CountByUser(ctx context.Context, userID, search string) (int, error) {
	query := "SELECT COUNT(*) FROM clip WHERE user_id = ?"
	args := []any{userID}
	if search != "" {
		query += " AND title LIKE ? ESCAPE '\\'"
		args = append(args, likePattern(search))
	}
	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// likePattern builds a substring LIKE pattern with metacharacters escaped.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(search)
	return "%" + escaped + "%"
}

// scanClip extracts a Clip from a row scanner function.
func scanClip(scan func(dest ...any) error) (domain.Clip, error) {
	var c domain.Clip
	var isPublic int
	var shareSlug sql.NullString
	var createdAt, updatedAt string
	err := scan(
		&c.ID, &c.UserID, &c.VideoID, &c.Title, &c.Thumbnail,
		&c.StartTime, &c.EndTime, &c.VideoDuration, &c.Notes,
		&isPublic, &shareSlug, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Clip{}, ErrNotFound
	}
	if err != nil {
		return domain.Clip{}, err
	}
	c.IsPublic = isPublic == 1
	c.ShareSlug = shareSlug.String
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	c.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return c, nil
}

// collectClips drains rows into a slice.
func collectClips(rows *sql.Rows) ([]domain.Clip, error) {
	var list []domain.Clip
	for rows.Next() {
		c, err := scanClip(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
