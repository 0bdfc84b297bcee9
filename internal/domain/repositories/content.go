package repositories

import (
	"context"

	"ideaforge/internal/domain/models"
)

// ContentRepository defines owner-scoped persistence operations for content
// records. Every read, update and delete takes the owner identity and must
// filter by it; a record owned by someone else behaves exactly like a
// missing record.
type ContentRepository interface {
	// Create persists a new record and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, rec *models.ContentRecord) error

	// ListByOwner returns the owner's records ordered by creation time
	// descending, with limit/offset pagination.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.ContentRecord, error)

	// AllByOwner returns the owner's full record set ordered by creation
	// time descending. Used by the analytics aggregator.
	AllByOwner(ctx context.Context, ownerID string) ([]models.ContentRecord, error)

	// GetByID returns the record if it exists and belongs to the owner,
	// else domain.ErrNotFound.
	GetByID(ctx context.Context, id, ownerID string) (*models.ContentRecord, error)

	// Delete removes the record if it belongs to the owner, else
	// domain.ErrNotFound.
	Delete(ctx context.Context, id, ownerID string) error

	// ToggleFavorite inverts the favorite flag and returns the updated
	// record, else domain.ErrNotFound.
	ToggleFavorite(ctx context.Context, id, ownerID string) (*models.ContentRecord, error)

	// Search returns the owner's records whose topic, description or tags
	// contain the keyword (case-insensitive), newest first.
	Search(ctx context.Context, ownerID, keyword string) ([]models.ContentRecord, error)

	// ListFavorites returns the owner's favorited records, newest first.
	ListFavorites(ctx context.Context, ownerID string) ([]models.ContentRecord, error)
}
