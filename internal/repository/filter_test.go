package repository

import (
	"testing"
	"time"

	"sales-order-api/internal/model"

	"github.com/stretchr/testify/assert"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestWhereOrders(t *testing.T) {
	start := datePtr(2024, 1, 1)
	end := datePtr(2024, 1, 31)

	tests := []struct {
		name       string
		filter     model.OrderFilter
		wantClause string
		wantArgs   int
	}{
		{
			name:       "Empty filter imposes no constraint",
			filter:     model.OrderFilter{},
			wantClause: "",
			wantArgs:   0,
		},
		{
			name:       "Customer name only",
			filter:     model.OrderFilter{CustomerName: "Acme"},
			wantClause: " WHERE LOWER(customer_name) LIKE $1",
			wantArgs:   1,
		},
		{
			name:       "Blank customer name ignored",
			filter:     model.OrderFilter{CustomerName: "   "},
			wantClause: "",
			wantArgs:   0,
		},
		{
			name:       "Both date bounds",
			filter:     model.OrderFilter{CreatedFrom: start, CreatedTo: end},
			wantClause: " WHERE creation_date BETWEEN $1 AND $2",
			wantArgs:   2,
		},
		{
			name:       "Only start date is ignored",
			filter:     model.OrderFilter{CreatedFrom: start},
			wantClause: "",
			wantArgs:   0,
		},
		{
			name:       "Only end date is ignored",
			filter:     model.OrderFilter{CreatedTo: end},
			wantClause: "",
			wantArgs:   0,
		},
		{
			name:       "Name and date range combined with AND",
			filter:     model.OrderFilter{CustomerName: "acme", CreatedFrom: start, CreatedTo: end},
			wantClause: " WHERE LOWER(customer_name) LIKE $1 AND creation_date BETWEEN $2 AND $3",
			wantArgs:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := whereOrders(tt.filter)
			assert.Equal(t, tt.wantClause, clause)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestWhereOrders_NameIsLowercased(t *testing.T) {
	_, args := whereOrders(model.OrderFilter{CustomerName: "AcMe"})
	assert.Equal(t, []any{"%acme%"}, args)
}

func TestOrderByOrders(t *testing.T) {
	tests := []struct {
		name string
		page model.PageRequest
		want string
	}{
		{
			name: "Default sort",
			page: model.PageRequest{},
			want: " ORDER BY creation_date DESC",
		},
		{
			name: "Whitelisted field ascending",
			page: model.PageRequest{SortField: "customerName"},
			want: " ORDER BY customer_name ASC",
		},
		{
			name: "Whitelisted field descending",
			page: model.PageRequest{SortField: "total", SortDesc: true},
			want: " ORDER BY total DESC",
		},
		{
			name: "Unknown field falls back to default",
			page: model.PageRequest{SortField: "password_hash; DROP TABLE orders"},
			want: " ORDER BY creation_date DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderByOrders(tt.page))
		})
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name string
		in   model.PageRequest
		want model.PageRequest
	}{
		{
			name: "Defaults applied",
			in:   model.PageRequest{},
			want: model.PageRequest{Page: 0, Size: 10},
		},
		{
			name: "Negative page clamped",
			in:   model.PageRequest{Page: -3, Size: 20},
			want: model.PageRequest{Page: 0, Size: 20},
		},
		{
			name: "Oversized page capped",
			in:   model.PageRequest{Page: 2, Size: 500},
			want: model.PageRequest{Page: 2, Size: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizePage(tt.in)
			assert.Equal(t, tt.want.Page, got.Page)
			assert.Equal(t, tt.want.Size, got.Size)
		})
	}
}
