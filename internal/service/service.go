package service

import (
	"context"

	"sales-order-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService defines operations for catalog management.
type CatalogService interface {
	// GetAll retrieves catalog items with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.CatalogItem, error)

	// GetByID retrieves a single catalog item by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)

	// Create adds a new catalog item with a strictly positive price.
	Create(ctx context.Context, name string, price decimal.Decimal) (*model.CatalogItem, error)

	// UpdatePrice reprices an existing item; already-placed orders are unaffected.
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*model.CatalogItem, error)

	// Delete removes a catalog item without touching historical orders.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderService defines the order lifecycle operations.
type OrderService interface {
	// Create validates the request against the catalog, snapshots prices,
	// computes VAT and persists the order atomically.
	Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// Cancel transitions an active order to cancelled. Cancelled is terminal.
	Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByID retrieves an order with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns a filtered, sorted page of orders.
	List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) (*model.OrderPage, error)

	// Delete permanently removes an order and its lines.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthService resolves credentials to tokens and manages accounts.
type AuthService interface {
	// Login verifies username/password and issues a bearer token carrying the
	// user's roles.
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates a new account with the default "user" role.
	Register(ctx context.Context, username, password string) (*model.User, error)

	// EnsureAdmin creates the seed admin account if it does not exist.
	EnsureAdmin(ctx context.Context, password string) error
}
