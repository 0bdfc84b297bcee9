package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ideaforge/internal/domain"
	"ideaforge/internal/domain/models"
	"ideaforge/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema (see migrations): the content table is indexed on owner_id and on
// (owner_id, is_favorite) to serve the history and favorites queries.

// PostgresContentRepository implements the ContentRepository interface
type PostgresContentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewContentRepository creates a new content repository
func NewContentRepository(config *RepositoryConfig) repositories.ContentRepository {
	return &PostgresContentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const contentColumns = `id, owner_id, topic, titles, description, tags, thumbnail_ideas, script_outline, ai_model, is_favorite, created_at, updated_at`

// Create inserts a new record; id and timestamps are assigned here.
func (r *PostgresContentRepository) Create(ctx context.Context, rec *models.ContentRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, topic, titles, description, tags, thumbnail_ideas, script_outline, ai_model, is_favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, now(), now())
		RETURNING created_at, updated_at
	`, r.tables.Content)

	rec.ID = uuid.New().String()
	err := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.Topic,
		rec.Titles,
		rec.Description,
		rec.Tags,
		rec.ThumbnailIdeas,
		rec.ScriptOutline,
		rec.AIModel,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create content record: %w", err)
	}
	rec.IsFavorite = false
	return nil
}

// ListByOwner returns the owner's records newest first with pagination.
func (r *PostgresContentRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.ContentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, contentColumns, r.tables.Content)

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list content records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllByOwner returns the owner's full record set newest first.
func (r *PostgresContentRepository) AllByOwner(ctx context.Context, ownerID string) ([]models.ContentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, contentColumns, r.tables.Content)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list content records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByID retrieves a record scoped to its owner. A record owned by a
// different user is indistinguishable from a missing one.
func (r *PostgresContentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.ContentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND owner_id = $2
	`, contentColumns, r.tables.Content)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("content record %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get content record: %w", err)
	}
	return rec, nil
}

// Delete removes a record scoped to its owner.
func (r *PostgresContentRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, r.tables.Content)

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete content record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ToggleFavorite inverts the favorite flag atomically and returns the
// updated record.
func (r *PostgresContentRepository) ToggleFavorite(ctx context.Context, id, ownerID string) (*models.ContentRecord, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_favorite = NOT is_favorite, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING %s
	`, r.tables.Content, contentColumns)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("content record %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	return rec, nil
}

// Search matches the keyword case-insensitively against topic, description
// and tags, newest first.
func (r *PostgresContentRepository) Search(ctx context.Context, ownerID, keyword string) ([]models.ContentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1
		  AND (topic ILIKE $2
		       OR description ILIKE $2
		       OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $2))
		ORDER BY created_at DESC, id DESC
	`, contentColumns, r.tables.Content)

	rows, err := r.pool.Query(ctx, query, ownerID, "%"+likeEscaper.Replace(keyword)+"%")
	if err != nil {
		return nil, fmt.Errorf("search content records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListFavorites returns the owner's favorited records newest first.
// Served by the (owner_id, is_favorite) partial index.
func (r *PostgresContentRepository) ListFavorites(ctx context.Context, ownerID string) ([]models.ContentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND is_favorite
		ORDER BY created_at DESC, id DESC
	`, contentColumns, r.tables.Content)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list favorite records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.ContentRecord, error) {
	var rec models.ContentRecord
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Topic,
		&rec.Titles,
		&rec.Description,
		&rec.Tags,
		&rec.ThumbnailIdeas,
		&rec.ScriptOutline,
		&rec.AIModel,
		&rec.IsFavorite,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]models.ContentRecord, error) {
	records := []models.ContentRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content records: %w", err)
	}
	return records, nil
}

// likeEscaper neutralizes LIKE wildcards in user-supplied keywords.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
