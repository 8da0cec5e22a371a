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

// VATRate is the fixed tax rate applied to every order at creation. Changing
// it never alters already-persisted orders; their amounts are stored.
var VATRate = decimal.RequireFromString("0.12")

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// Create validates the request against the catalog, snapshots item names and
// prices, computes subtotal/VAT/total in exact decimal arithmetic and persists
// the order atomically. Any missing catalog item aborts the whole operation
// before anything is persisted.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid order request")
		return nil, err
	}

	orderID := uuid.New()
	lines := make([]model.OrderLine, 0, len(req.Items))
	subtotal := decimal.Zero

	// Catalog lookups happen in input line order and prices are copied at
	// this instant; a later reprice or delete never reaches this order.
	for i, item := range req.Items {
		catalogItem, err := s.catalogRepo.GetByID(ctx, item.CatalogItemID)
		if err != nil {
			s.logger.Error().Err(err).
				Str("catalog_item_id", item.CatalogItemID.String()).
				Msg("catalog lookup failed")
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if catalogItem == nil {
			s.logger.Warn().
				Str("catalog_item_id", item.CatalogItemID.String()).
				Msg("order references unknown catalog item")
			return nil, model.ErrCatalogItemNotFound
		}

		quantity := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(catalogItem.Price.Mul(quantity))

		lines = append(lines, model.OrderLine{
			ID:            uuid.New(),
			OrderID:       orderID,
			LineNo:        i + 1,
			CatalogItemID: catalogItem.ID,
			ItemName:      catalogItem.Name,
			UnitPrice:     catalogItem.Price,
			Quantity:      item.Quantity,
		})
	}

	vat := subtotal.Mul(VATRate).Round(2)
	total := subtotal.Add(vat)

	order := &model.Order{
		ID:           orderID,
		CustomerName: req.CustomerName,
		CreationDate: model.DateOf(s.now()),
		Subtotal:     subtotal,
		VAT:          vat,
		Total:        total,
		Lines:        lines,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to persist order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("customer", req.CustomerName).
		Int("line_count", len(lines)).
		Str("total", total.StringFixed(2)).
		Msg("order created")

	return order, nil
}

// Cancel transitions an active order to cancelled. The repository performs the
// not-already-cancelled check and the write as one guarded update, so two
// concurrent cancellations cannot both succeed.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	cancelled, err := s.orderRepo.Cancel(ctx, id, model.DateOf(s.now()))
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to cancel order")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if !cancelled {
		// No row transitioned: either the order does not exist or it is
		// already cancelled. Disambiguate for the caller.
		exists, err := s.orderRepo.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel order: %w", err)
		}
		if !exists {
			return nil, model.ErrOrderNotFound
		}
		s.logger.Warn().Str("order_id", id.String()).Msg("rejected second cancellation")
		return nil, model.ErrOrderAlreadyCancelled
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load cancelled order: %w", err)
	}
	if order == nil {
		// Deleted between the cancel and the reload.
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order cancelled")

	return order, nil
}

// GetByID retrieves an order with its lines eagerly loaded.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List returns a filtered, sorted page of orders. Cancelled orders remain
// visible; cancellation is a flag, not a deletion.
func (s *orderService) List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) (*model.OrderPage, error) {
	result, err := s.orderRepo.List(ctx, filter, page)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	s.logger.Debug().
		Int64("total", result.Total).
		Int("page", result.Page).
		Int("size", result.Size).
		Msg("orders listed")

	return result, nil
}

// Delete permanently removes an order and its lines. Irreversible.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if !deleted {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")

	return nil
}

// validateOrderRequest checks the request shape before any catalog lookup.
// Quantity is validated again here even though the transport layer already
// rejects non-positive values.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.ErrEmptyOrder
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return model.ErrBlankCustomerName
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	for _, item := range req.Items {
		if item.CatalogItemID == uuid.Nil {
			return model.ErrCatalogItemNotFound
		}
		if item.Quantity < 1 {
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
