package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales-order-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = "id, customer_name, creation_date, cancellation_date, subtotal, vat, total"

// Create persists the order header and all its lines in one transaction. A
// failure at any point rolls back the whole insert, so a reader never sees an
// order with a missing subset of lines.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	headerQuery := `
		INSERT INTO orders (id, customer_name, creation_date, cancellation_date, subtotal, vat, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, headerQuery,
		order.ID, order.CustomerName, order.CreationDate, order.CancellationDate,
		order.Subtotal, order.VAT, order.Total,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to insert order header")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_lines (id, order_id, line_no, catalog_item_id, item_name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, line := range order.Lines {
		batch.Queue(lineQuery,
			line.ID, line.OrderID, line.LineNo, line.CatalogItemID,
			line.ItemName, line.UnitPrice, line.Quantity,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < len(order.Lines); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Int("line_no", order.Lines[i].LineNo).
				Msg("failed to insert order line")
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert order lines: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit order")
		return fmt.Errorf("failed to commit order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("line_count", len(order.Lines)).
		Msg("order created")

	return nil
}

// GetByID retrieves an order with its lines eagerly loaded.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.CustomerName, &order.CreationDate, &order.CancellationDate,
		&order.Subtotal, &order.VAT, &order.Total,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	lines, err := r.loadLines(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[id]

	return &order, nil
}

// List returns one page of orders matching the filter plus the total match
// count. Lines are eagerly loaded for every order on the page.
func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) (*model.OrderPage, error) {
	page = normalizePage(page)
	where, args := whereOrders(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM orders` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where + orderByOrders(page) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Page*page.Size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		var order model.Order
		err := rows.Scan(
			&order.ID, &order.CustomerName, &order.CreationDate, &order.CancellationDate,
			&order.Subtotal, &order.VAT, &order.Total,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}

	return &model.OrderPage{
		Orders: orders,
		Total:  total,
		Page:   page.Page,
		Size:   page.Size,
	}, nil
}

// loadLines fetches the lines for a set of orders, keyed by order ID and in
// line order.
func (r *orderRepository) loadLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderLine, error) {
	result := make(map[uuid.UUID][]model.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, order_id, line_no, catalog_item_id, item_name, unit_price, quantity
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.OrderLine
		err := rows.Scan(
			&line.ID, &line.OrderID, &line.LineNo, &line.CatalogItemID,
			&line.ItemName, &line.UnitPrice, &line.Quantity,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		result[line.OrderID] = append(result[line.OrderID], line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order line rows")
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return result, nil
}

// Cancel sets the cancellation date if and only if the order is not already
// cancelled. The IS NULL guard makes the read-check-write race-free: of two
// concurrent cancellations, exactly one sees a row transition.
func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID, date time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET cancellation_date = $2
		WHERE id = $1 AND cancellation_date IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, date)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to cancel order")
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Exists reports whether an order with the given ID exists.
func (r *orderRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to check order existence")
		return false, fmt.Errorf("failed to check order existence: %w", err)
	}
	return exists, nil
}

// Delete permanently removes an order; its lines go with it via ON DELETE CASCADE.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
