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

// ErrTagNotFound is returned when no tag matches the lookup.
var ErrTagNotFound = errors.New("tag not found")

// ErrDuplicateTagName is returned when a tag name already exists for the user.
var ErrDuplicateTagName = errors.New("tag name already exists")

// SQLiteTagStore implements TagStore using SQLite.
type SQLiteTagStore struct {
	db storage.SQLDB
}

// NewSQLiteTagStore creates a new tag store.
func NewSQLiteTagStore(db storage.SQLDB) *SQLiteTagStore {
	return &SQLiteTagStore{db: db}
}

const tagColumns = "id, user_id, name, created_at, updated_at"

// SaveTag inserts or updates a tag. Update-then-insert rather than an
// ON CONFLICT upsert: renaming a tag to a case variant of its own name must
// not trip the case-insensitive unique index against the tag's own row.
// PRE: tag has been validated and has a non-empty ID
// POST: tag persisted; ErrDuplicateTagName if the user already has the name
// (case-insensitive)
func (s *SQLiteTagStore) SaveTag(ctx context.Context, tag domain.Tag) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tag SET name = ?, updated_at = ? WHERE id = ?",
		tag.Name, tag.UpdatedAt.Format(time.RFC3339Nano), tag.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTagName
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO tag ("+tagColumns+") VALUES (?, ?, ?, ?, ?)",
		tag.ID, tag.UserID, tag.Name,
		tag.CreatedAt.Format(time.RFC3339Nano),
		tag.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateTagName
	}
	return err
}

// isUniqueViolation detects a UNIQUE constraint failure from the driver.
// modernc.org/sqlite surfaces constraint errors by message, not a typed error.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetTagByID retrieves a tag by ID.
// PRE: id is non-empty
// POST: returns the tag or ErrTagNotFound
func (s *SQLiteTagStore) GetTagByID(ctx context.Context, id string) (domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tag WHERE id = ?", id)
	return scanTag(row.Scan)
}

// GetTagByName retrieves a user's tag by name (case-insensitive).
// PRE: userID and name are non-empty
// POST: returns the tag or ErrTagNotFound
func (s *SQLiteTagStore) GetTagByName(ctx context.Context, userID, name string) (domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tag WHERE user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	return scanTag(row.Scan)
}

// ListTags returns all of the user's tags ordered by name.
func (s *SQLiteTagStore) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tag WHERE user_id = ? ORDER BY name ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Tag
	for rows.Next() {
		t, err := scanTag(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// DeleteTag removes a tag. Associations cascade.
// PRE: id is non-empty
// POST: tag and its clip associations are removed
func (s *SQLiteTagStore) DeleteTag(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tag WHERE id = ?", id)
	return err
}

// UpsertClipTag associates a tag with a clip, overwriting the rating
// if the association already exists.
// PRE: clipTag has been validated
// POST: one association per (clip, tag) with the latest rating
func (s *SQLiteTagStore) UpsertClipTag(ctx context.Context, clipTag domain.ClipTag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clip_tag (clip_id, tag_id, rating, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(clip_id, tag_id) DO UPDATE SET rating=excluded.rating`,
		clipTag.ClipID, clipTag.TagID, clipTag.Rating,
		clipTag.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// RemoveTagFromClip removes a tag association from a clip.
// PRE: clipID and tagID are non-empty
// POST: association removed if it existed
func (s *SQLiteTagStore) RemoveTagFromClip(ctx context.Context, clipID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM clip_tag WHERE clip_id = ? AND tag_id = ?", clipID, tagID)
	return err
}

// GetTagsForClip returns all tags on a clip with their ratings, ordered by name.
// PRE: clipID is non-empty
// POST: returns tags with ratings or empty slice
func (s *SQLiteTagStore) GetTagsForClip(ctx context.Context, clipID string) ([]domain.RatedTag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.name, t.created_at, t.updated_at, a.rating
		 FROM tag t
		 JOIN clip_tag a ON t.id = a.tag_id
		 WHERE a.clip_id = ?
		 ORDER BY t.name ASC`, clipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.RatedTag
	for rows.Next() {
		var rt domain.RatedTag
		var createdAt, updatedAt string
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.Name, &createdAt, &updatedAt, &rt.Rating); err != nil {
			return nil, err
		}
		rt.CreatedAt, _ = storage.ParseTime(createdAt)
		rt.UpdatedAt, _ = storage.ParseTime(updatedAt)
		list = append(list, rt)
	}
	return list, rows.Err()
}

// GetClipsForTag returns all clip IDs carrying a tag.
// PRE: tagID is non-empty
// POST: returns clip IDs or empty slice
func (s *SQLiteTagStore) GetClipsForTag(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT clip_id FROM clip_tag WHERE tag_id = ?", tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var clipID string
		if err := rows.Scan(&clipID); err != nil {
			return nil, err
		}
		list = append(list, clipID)
	}
	return list, rows.Err()
}

// SearchClipsByTags returns the user's clips that carry ALL of the given tags.
// PRE: none (empty tagIDs returns nil, nil)
// POST: returns clips matching every tag, newest first
func (s *SQLiteTagStore) SearchClipsByTags(ctx context.Context, userID string, tagIDs []string) ([]domain.Clip, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	// AND search: the clip must have every requested tag
	query := "SELECT " + prefixColumns("c", clipColumns) + `
		 FROM clip c
		 JOIN clip_tag a ON c.id = a.clip_id
		 WHERE c.user_id = ? AND a.tag_id IN (` + placeholders(len(tagIDs)) + `)
		 GROUP BY c.id
		 HAVING COUNT(DISTINCT a.tag_id) = ?
		 ORDER BY c.created_at DESC, c.id DESC`
	params := make([]any, 0, len(tagIDs)+2)
	params = append(params, userID)
	for _, id := range tagIDs {
		params = append(params, id)
	}
	params = append(params, len(tagIDs))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClips(rows)
}

// scanTag extracts a Tag from a row scanner function.
func scanTag(scan func(dest ...any) error) (domain.Tag, error) {
	var t domain.Tag
	var createdAt, updatedAt string
	err := scan(&t.ID, &t.UserID, &t.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tag{}, ErrTagNotFound
	}
	if err != nil {
		return domain.Tag{}, err
	}
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	t.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return t, nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// prefixColumns qualifies each column in a comma-separated list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
