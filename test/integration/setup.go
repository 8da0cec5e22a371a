package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sales-order-api/internal/database"
	"sales-order-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromConnString(ctx, connStr, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS catalog (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			price NUMERIC(19, 2) NOT NULL CHECK (price > 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			customer_name VARCHAR(255) NOT NULL,
			creation_date DATE NOT NULL,
			cancellation_date DATE,
			subtotal NUMERIC(19, 2) NOT NULL,
			vat NUMERIC(19, 2) NOT NULL,
			total NUMERIC(19, 2) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_lines (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			line_no INTEGER NOT NULL,
			catalog_item_id UUID NOT NULL,
			item_name VARCHAR(255) NOT NULL,
			unit_price NUMERIC(19, 2) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0)
		);

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			roles TEXT[] NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id);
		CREATE INDEX IF NOT EXISTS idx_orders_customer_name ON orders(LOWER(customer_name));
		CREATE INDEX IF NOT EXISTS idx_orders_creation_date ON orders(creation_date);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalog inserts test catalog items and returns them keyed by name.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) map[string]model.CatalogItem {
	t.Helper()

	ctx := context.Background()

	items := []struct {
		name  string
		price string
	}{
		{"Widget", "10.00"},
		{"Gadget", "25.50"},
		{"Gizmo", "3.99"},
	}

	seeded := make(map[string]model.CatalogItem, len(items))
	for _, it := range items {
		item := model.CatalogItem{
			ID:        uuid.New(),
			Name:      it.name,
			Price:     decimal.RequireFromString(it.price),
			CreatedAt: time.Now(),
		}
		_, err := pool.Exec(ctx,
			"INSERT INTO catalog (id, name, price, created_at) VALUES ($1, $2, $3, $4)",
			item.ID, item.Name, item.Price, item.CreatedAt,
		)
		if err != nil {
			t.Fatalf("failed to seed catalog item %s: %v", it.name, err)
		}
		seeded[it.name] = item
	}

	return seeded
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_lines", "orders", "catalog", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
