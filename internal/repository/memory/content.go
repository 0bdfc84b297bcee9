package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ideaforge/internal/domain"
	"ideaforge/internal/domain/models"
	"ideaforge/internal/domain/repositories"

	"github.com/google/uuid"
)

// ContentStore is an in-process ContentRepository used by tests and local
// development without a database. It enforces the same owner scoping as the
// Postgres implementation.
type ContentStore struct {
	mu      sync.RWMutex
	records map[string]models.ContentRecord
	now     func() time.Time
}

// NewContentStore initializes an empty in-memory store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		records: make(map[string]models.ContentRecord),
		now:     time.Now,
	}
}

// SetClock overrides the store's clock for deterministic timestamps in tests.
func (m *ContentStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

var _ repositories.ContentRepository = (*ContentStore)(nil)

// Create assigns an id and timestamps and stores a copy of the record.
func (m *ContentStore) Create(_ context.Context, rec *models.ContentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = uuid.New().String()
	rec.CreatedAt = m.now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	m.records[rec.ID] = *rec
	return nil
}

// ListByOwner returns the owner's records newest first, paginated.
func (m *ContentStore) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]models.ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.ownedDescLocked(ownerID)
	if offset >= len(all) {
		return []models.ContentRecord{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// AllByOwner returns the owner's full record set newest first.
func (m *ContentStore) AllByOwner(_ context.Context, ownerID string) ([]models.ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ownedDescLocked(ownerID), nil
}

// GetByID returns the record only when it belongs to the owner.
func (m *ContentStore) GetByID(_ context.Context, id, ownerID string) (*models.ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	out := rec
	return &out, nil
}

// Delete removes the record only when it belongs to the owner.
func (m *ContentStore) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// ToggleFavorite inverts the favorite flag and returns the updated record.
func (m *ContentStore) ToggleFavorite(_ context.Context, id, ownerID string) (*models.ContentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	rec.IsFavorite = !rec.IsFavorite
	rec.UpdatedAt = m.now().UTC()
	m.records[id] = rec
	out := rec
	return &out, nil
}

// Search matches the keyword case-insensitively against topic, description
// and tags.
func (m *ContentStore) Search(_ context.Context, ownerID, keyword string) ([]models.ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kw := strings.ToLower(keyword)
	matched := []models.ContentRecord{}
	for _, rec := range m.ownedDescLocked(ownerID) {
		if strings.Contains(strings.ToLower(rec.Topic), kw) ||
			strings.Contains(strings.ToLower(rec.Description), kw) ||
			tagsMatch(rec.Tags, kw) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// ListFavorites returns the owner's favorited records newest first.
func (m *ContentStore) ListFavorites(_ context.Context, ownerID string) ([]models.ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	favorites := []models.ContentRecord{}
	for _, rec := range m.ownedDescLocked(ownerID) {
		if rec.IsFavorite {
			favorites = append(favorites, rec)
		}
	}
	return favorites, nil
}

func (m *ContentStore) ownedDescLocked(ownerID string) []models.ContentRecord {
	owned := []models.ContentRecord{}
	for _, rec := range m.records {
		if rec.OwnerID == ownerID {
			owned = append(owned, rec)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned
}

func tagsMatch(tags []string, kw string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), kw) {
			return true
		}
	}
	return false
}
