package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sales-order-api/internal/model"
	"sales-order-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// catalogService implements CatalogService.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// GetAll retrieves catalog items with pagination.
func (s *catalogService) GetAll(ctx context.Context, limit, offset int) ([]model.CatalogItem, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.catalogRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get catalog items")
		return nil, fmt.Errorf("failed to get catalog items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single catalog item by ID.
func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	item, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to get catalog item")
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}

	if item == nil {
		return nil, model.ErrCatalogItemNotFound
	}

	return item, nil
}

// Create adds a new catalog item. The price must be strictly positive and the
// name non-blank; name uniqueness is enforced by the store.
func (s *catalogService) Create(ctx context.Context, name string, price decimal.Decimal) (*model.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrBlankItemName
	}
	if !price.IsPositive() {
		s.logger.Warn().Str("name", name).Str("price", price.String()).Msg("non-positive price rejected")
		return nil, model.ErrInvalidPrice
	}

	item := &model.CatalogItem{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		CreatedAt: time.Now(),
	}

	if err := s.catalogRepo.Create(ctx, item); err != nil {
		if err == model.ErrDuplicateItemName {
			return nil, err
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create catalog item")
		return nil, fmt.Errorf("failed to create catalog item: %w", err)
	}

	s.logger.Info().
		Str("item_id", item.ID.String()).
		Str("name", name).
		Str("price", price.StringFixed(2)).
		Msg("catalog item created")

	return item, nil
}

// UpdatePrice reprices an existing item. The change takes effect only for
// orders created afterward; existing orders keep their snapshot.
func (s *catalogService) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*model.CatalogItem, error) {
	if !price.IsPositive() {
		s.logger.Warn().Str("item_id", id.String()).Str("price", price.String()).Msg("non-positive price rejected")
		return nil, model.ErrInvalidPrice
	}

	updated, err := s.catalogRepo.UpdatePrice(ctx, id, price)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to update price")
		return nil, fmt.Errorf("failed to update price: %w", err)
	}

	if !updated {
		return nil, model.ErrCatalogItemNotFound
	}

	item, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load repriced item: %w", err)
	}
	if item == nil {
		return nil, model.ErrCatalogItemNotFound
	}

	s.logger.Info().
		Str("item_id", id.String()).
		Str("price", price.StringFixed(2)).
		Msg("catalog item repriced")

	return item, nil
}

// Delete removes a catalog item. Orders that snapshotted it keep their copied
// name and price and simply hold a dangling reference.
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.catalogRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to delete catalog item")
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}

	if !deleted {
		return model.ErrCatalogItemNotFound
	}

	s.logger.Info().Str("item_id", id.String()).Msg("catalog item deleted")

	return nil
}
