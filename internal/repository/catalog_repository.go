package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sales-order-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// GetAll retrieves catalog items with pagination support.
func (r *catalogRepository) GetAll(ctx context.Context, limit, offset int) ([]model.CatalogItem, error) {
	query := `
		SELECT id, name, price, created_at
		FROM catalog
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query catalog items")
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		var item model.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan catalog row")
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating catalog rows")
		return nil, fmt.Errorf("error iterating catalog items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single catalog item by its ID.
func (r *catalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	query := `
		SELECT id, name, price, created_at
		FROM catalog
		WHERE id = $1
	`

	var item model.CatalogItem
	err := r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("item_id", id.String()).Msg("catalog item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to query catalog item")
		return nil, fmt.Errorf("failed to query catalog item: %w", err)
	}

	return &item, nil
}

// GetByName retrieves a single catalog item by its unique name.
func (r *catalogRepository) GetByName(ctx context.Context, name string) (*model.CatalogItem, error) {
	query := `
		SELECT id, name, price, created_at
		FROM catalog
		WHERE name = $1
	`

	var item model.CatalogItem
	err := r.pool.QueryRow(ctx, query, name).Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to query catalog item by name")
		return nil, fmt.Errorf("failed to query catalog item by name: %w", err)
	}

	return &item, nil
}

// Create inserts a new catalog item. The unique index on name backs conflict
// detection, so concurrent creates cannot race past a pre-check.
func (r *catalogRepository) Create(ctx context.Context, item *model.CatalogItem) error {
	query := `
		INSERT INTO catalog (id, name, price, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, item.ID, item.Name, item.Price, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().Str("name", item.Name).Msg("duplicate catalog item name")
			return model.ErrDuplicateItemName
		}
		r.logger.Error().Err(err).Str("item_id", item.ID.String()).Msg("failed to create catalog item")
		return fmt.Errorf("failed to create catalog item: %w", err)
	}

	r.logger.Debug().
		Str("item_id", item.ID.String()).
		Str("name", item.Name).
		Msg("catalog item created")

	return nil
}

// UpdatePrice sets a new price on an existing item. Already-placed orders keep
// their snapshotted price; only future orders see the change.
func (r *catalogRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (bool, error) {
	query := `
		UPDATE catalog
		SET price = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, price)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to update price")
		return false, fmt.Errorf("failed to update price: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a catalog item. Order lines referencing the item are left
// untouched; they carry their own name and price snapshot.
func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM catalog WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to delete catalog item")
		return false, fmt.Errorf("failed to delete catalog item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// isUniqueViolation checks whether an error is a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}
