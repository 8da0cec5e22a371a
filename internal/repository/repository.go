package repository

import (
	"context"
	"time"

	"sales-order-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogRepository defines the interface for catalog data access operations.
// Absent rows are reported as nil results, not errors.
type CatalogRepository interface {
	// GetAll retrieves catalog items with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.CatalogItem, error)

	// GetByID retrieves a single catalog item by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)

	// GetByName retrieves a single catalog item by its unique name.
	GetByName(ctx context.Context, name string) (*model.CatalogItem, error)

	// Create inserts a new catalog item. A duplicate name yields
	// model.ErrDuplicateItemName.
	Create(ctx context.Context, item *model.CatalogItem) error

	// UpdatePrice sets a new price on an existing item. Returns false if no
	// item with that ID exists.
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (bool, error)

	// Delete removes a catalog item. Returns false if no item with that ID
	// exists. Historical orders keep their snapshotted name and price.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create persists the order header and all its lines in one transaction:
	// either the whole order becomes visible or none of it does.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order with its lines eagerly loaded. Returns nil
	// if no order with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns one page of orders matching the filter plus the total
	// match count.
	List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) (*model.OrderPage, error)

	// Cancel sets the cancellation date if and only if the order is not
	// already cancelled (compare-and-swap at the database). Returns true if
	// the row transitioned.
	Cancel(ctx context.Context, id uuid.UUID, date time.Time) (bool, error)

	// Exists reports whether an order with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete permanently removes an order and its lines. Returns false if no
	// order with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository defines the interface for user account data access.
type UserRepository interface {
	// GetByUsername retrieves a user by unique username, nil if absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Create inserts a new user. A duplicate username yields
	// model.ErrUsernameTaken.
	Create(ctx context.Context, user *model.User) error
}
