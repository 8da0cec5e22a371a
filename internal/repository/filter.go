package repository

import (
	"fmt"
	"strings"

	"sales-order-api/internal/model"
)

// sortColumns whitelists the sortable fields against their column names.
// Requests outside the whitelist fall back to the default sort.
var sortColumns = map[string]string{
	"creationDate": "creation_date",
	"customerName": "customer_name",
	"subtotal":     "subtotal",
	"total":        "total",
	"id":           "id",
}

const defaultSort = "creation_date DESC"

// whereOrders composes the optional listing predicates into a WHERE clause and
// its arguments. Predicates are ANDed; an unset predicate imposes no
// constraint. The date range applies only when both bounds are present; a
// half-open range is ignored entirely.
func whereOrders(f model.OrderFilter) (string, []any) {
	var clauses []string
	var args []any

	if name := strings.TrimSpace(f.CustomerName); name != "" {
		args = append(args, "%"+strings.ToLower(name)+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(customer_name) LIKE $%d", len(args)))
	}

	if f.CreatedFrom != nil && f.CreatedTo != nil {
		args = append(args, model.DateOf(*f.CreatedFrom))
		from := len(args)
		args = append(args, model.DateOf(*f.CreatedTo))
		to := len(args)
		clauses = append(clauses, fmt.Sprintf("creation_date BETWEEN $%d AND $%d", from, to))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// orderByOrders builds the ORDER BY clause for a page request, defaulting to
// creation date descending.
func orderByOrders(p model.PageRequest) string {
	column, ok := sortColumns[p.SortField]
	if !ok {
		return " ORDER BY " + defaultSort
	}
	direction := "ASC"
	if p.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// normalizePage clamps page and size to sane bounds.
func normalizePage(p model.PageRequest) model.PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}
