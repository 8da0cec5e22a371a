package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a customer order. The monetary amounts are computed once at
// creation and stored, so later catalog changes never alter an existing order.
type Order struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	CustomerName     string          `json:"customerName" db:"customer_name"`
	CreationDate     time.Time       `json:"creationDate" db:"creation_date"`
	CancellationDate *time.Time      `json:"cancellationDate,omitempty" db:"cancellation_date"`
	Subtotal         decimal.Decimal `json:"subtotal" db:"subtotal"`
	VAT              decimal.Decimal `json:"vat" db:"vat"`
	Total            decimal.Decimal `json:"total" db:"total"`
	Lines            []OrderLine     `json:"items"`
}

// Cancelled reports whether the order has been cancelled.
func (o *Order) Cancelled() bool {
	return o.CancellationDate != nil
}

// OrderLine represents a line item in an order. ItemName and UnitPrice are
// snapshots of the catalog item at order time, not live references; the
// catalog item may be repriced or deleted afterwards.
type OrderLine struct {
	ID            uuid.UUID       `json:"-" db:"id"`
	OrderID       uuid.UUID       `json:"-" db:"order_id"`
	LineNo        int             `json:"-" db:"line_no"`
	CatalogItemID uuid.UUID       `json:"catalogItemId" db:"catalog_item_id"`
	ItemName      string          `json:"itemName" db:"item_name"`
	UnitPrice     decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity      int             `json:"quantity" db:"quantity"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CustomerName string             `json:"customerName"`
	Items        []OrderLineRequest `json:"items"`
}

// OrderLineRequest represents a single item in an order request.
type OrderLineRequest struct {
	CatalogItemID uuid.UUID `json:"catalogItemId"`
	Quantity      int       `json:"quantity"`
}

// OrderFilter holds the optional listing predicates. Unset fields impose no
// constraint; predicates are combined with AND. The date range applies only
// when both bounds are set.
type OrderFilter struct {
	CustomerName string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// PageRequest holds pagination and sorting parameters for order listings.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	SortDesc  bool
}

// OrderPage is one page of matching orders plus the total match count.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}

// DateOf truncates a timestamp to date granularity (midnight UTC). Order
// creation and cancellation dates are stored at this granularity.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
