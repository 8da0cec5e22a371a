package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sales-order-api/internal/model"
	"sales-order-api/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogHandler handles catalog-related HTTP requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// GetAll handles GET /api/v1/catalog requests with pagination.
func (h *CatalogHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid offset parameter", h.logger)
			return
		}
	}

	items, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetByID handles GET /api/v1/catalog/{id} requests.
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	itemID, ok := h.itemIDFromPath(w, r.URL.Path)
	if !ok {
		return
	}

	item, err := h.service.GetByID(r.Context(), itemID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /api/v1/catalog requests.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	var req model.CatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.Create(r.Context(), req.Name, req.Price)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// UpdatePrice handles PUT /api/v1/catalog/{id}/price requests.
func (h *CatalogHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/price")
	itemID, ok := h.itemIDFromPath(w, path)
	if !ok {
		return
	}

	var req model.PriceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.UpdatePrice(r.Context(), itemID, req.Price)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/catalog/{id} requests.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidOperation, "method not allowed", h.logger)
		return
	}

	itemID, ok := h.itemIDFromPath(w, r.URL.Path)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), itemID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) itemIDFromPath(w http.ResponseWriter, path string) (uuid.UUID, bool) {
	const prefix = "/api/v1/catalog/"
	if len(path) <= len(prefix) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "catalog item ID is required", h.logger)
		return uuid.Nil, false
	}

	itemID, err := uuid.Parse(path[len(prefix):])
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidOperation, "invalid catalog item ID format", h.logger)
		return uuid.Nil, false
	}

	return itemID, true
}
