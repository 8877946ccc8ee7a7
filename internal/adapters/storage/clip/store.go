package clip

import (
	"context"

	domain "referencer/internal/domain/clip"
)

// Store persists Clip state. All listing is scoped to a single user.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Clip, error)
	GetByShareSlug(ctx context.Context, slug string) (domain.Clip, error)
	Save(ctx context.Context, value domain.Clip) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID, search string, limit, offset int) ([]domain.Clip, error)
	CountByUser(ctx context.Context, userID, search string) (int, error)
}
