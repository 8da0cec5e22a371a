package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sales-order-api/internal/model"
	"sales-order-api/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/v1/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/v1/orders requests with filtering and pagination.
//
// Query parameters: customerName (case-insensitive substring), start and end
// (both YYYY-MM-DD, applied only together), page, size, and sort as
// "field,direction" defaulting to creationDate,desc.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	query := r.URL.Query()

	filter := model.OrderFilter{CustomerName: strings.TrimSpace(query.Get("customerName"))}

	if startStr := query.Get("start"); startStr != "" {
		start, err := time.Parse(dateLayout, startStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid start date, expected YYYY-MM-DD", h.logger)
			return
		}
		filter.CreatedFrom = &start
	}

	if endStr := query.Get("end"); endStr != "" {
		end, err := time.Parse(dateLayout, endStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid end date, expected YYYY-MM-DD", h.logger)
			return
		}
		filter.CreatedTo = &end
	}

	page := model.PageRequest{SortDesc: true, SortField: "creationDate"}

	if pageStr := query.Get("page"); pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid page parameter", h.logger)
			return
		}
		page.Page = n
	}

	if sizeStr := query.Get("size"); sizeStr != "" {
		n, err := strconv.Atoi(sizeStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid size parameter", h.logger)
			return
		}
		page.Size = n
	}

	if sortStr := query.Get("sort"); sortStr != "" {
		field, dir, _ := strings.Cut(sortStr, ",")
		page.SortField = field
		page.SortDesc = !strings.EqualFold(dir, "asc")
	}

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/v1/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	orderID, ok := h.orderIDFromPath(w, r.URL.Path)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Cancel handles PUT /api/v1/orders/{id}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/cancel")
	orderID, ok := h.orderIDFromPath(w, path)
	if !ok {
		return
	}

	order, err := h.service.Cancel(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/v1/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	orderID, ok := h.orderIDFromPath(w, r.URL.Path)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), orderID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// orderIDFromPath extracts and parses the order ID from a /api/v1/orders/{id}
// path, writing the error response itself when the ID is missing or malformed.
func (h *OrderHandler) orderIDFromPath(w http.ResponseWriter, path string) (uuid.UUID, bool) {
	const prefix = "/api/v1/orders/"
	if len(path) <= len(prefix) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "order ID is required", h.logger)
		return uuid.Nil, false
	}

	orderID, err := uuid.Parse(path[len(prefix):])
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}

	return orderID, true
}
