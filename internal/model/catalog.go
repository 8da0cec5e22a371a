package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItem represents a priced, named item in the catalog. The catalog is
// the source of truth for the unit price at order time; orders copy the price
// instead of referencing it.
type CatalogItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// CatalogItemRequest represents the request payload for creating a catalog item.
type CatalogItemRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// PriceUpdateRequest represents the request payload for repricing a catalog item.
type PriceUpdateRequest struct {
	Price decimal.Decimal `json:"price"`
}
