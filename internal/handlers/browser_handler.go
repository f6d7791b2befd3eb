package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/catalog-browser/internal/middleware"
	"github.com/Lixing-Zhang/catalog-browser/internal/repository"
	"github.com/Lixing-Zhang/catalog-browser/internal/service"
	"github.com/Lixing-Zhang/catalog-browser/internal/view"
	"github.com/go-chi/chi/v5"
)

// BrowserHandler translates HTTP requests into page events. Every event
// responds with the freshly derived view.
type BrowserHandler struct {
	service *service.BrowserService
	logger  *slog.Logger
}

// NewBrowserHandler creates a new browser handler
func NewBrowserHandler(service *service.BrowserService, logger *slog.Logger) *BrowserHandler {
	return &BrowserHandler{
		service: service,
		logger:  logger,
	}
}

// MountResponse is returned when a new page is mounted
type MountResponse struct {
	ID   string    `json:"id"`
	View view.View `json:"view"`
}

// SearchTermRequest carries the current text of the search field
type SearchTermRequest struct {
	Term *string `json:"term" validate:"required"`
}

// AddToCartRequest identifies a listed product to put in the cart
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

// Mount handles POST /api/sessions
func (h *BrowserHandler) Mount(w http.ResponseWriter, r *http.Request) {
	id, page, err := h.service.Mount(r.Context())
	if err != nil {
		h.logger.Error("failed to mount page", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, MountResponse{ID: id, View: page.View()}, h.logger)
}

// GetView handles GET /api/sessions/{sessionId}
func (h *BrowserHandler) GetView(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, page.View(), h.logger)
}

// Unmount handles DELETE /api/sessions/{sessionId}
func (h *BrowserHandler) Unmount(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if err := h.service.Unmount(r.Context(), sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found", h.logger)
			return
		}
		h.logger.Error("failed to unmount page", "session_id", sessionID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetSearchTerm handles PUT /api/sessions/{sessionId}/search-term
func (h *BrowserHandler) SetSearchTerm(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	var req SearchTermRequest
	if err := decodeRequest(r, &req); err != nil {
		h.logger.Warn("invalid search term request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	page.SetSearchTerm(*req.Term)
	WriteJSON(w, http.StatusOK, page.View(), h.logger)
}

// Search handles POST /api/sessions/{sessionId}/search (button or Enter key)
func (h *BrowserHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	page.Search(r.Context())
	WriteJSON(w, http.StatusOK, page.View(), h.logger)
}

// Clear handles POST /api/sessions/{sessionId}/clear
func (h *BrowserHandler) Clear(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	page.Clear(r.Context())
	WriteJSON(w, http.StatusOK, page.View(), h.logger)
}

// AddToCart handles POST /api/sessions/{sessionId}/cart
// - 200: product in cart (adding a product already present is a no-op)
// - 400: invalid body
// - 404: product is not in the current product list
func (h *BrowserHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := decodeRequest(r, &req); err != nil {
		h.logger.Warn("invalid add to cart request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := page.AddToCartByID(req.ProductID); err != nil {
		if errors.Is(err, view.ErrProductNotFound) {
			h.logger.Info("product not found", "productId", req.ProductID)
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error("failed to add to cart", "productId", req.ProductID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, page.View(), h.logger)
}

// RemoveFromCart handles DELETE /api/sessions/{sessionId}/cart/{productId}
// Removing a product that is not in the cart is a no-op.
func (h *BrowserHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		h.logger.Warn("invalid product ID format", "productId", chi.URLParam(r, "productId"), "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	page.RemoveFromCart(productID)
	WriteJSON(w, http.StatusOK, page.View(), h.logger)
}

func (h *BrowserHandler) page(w http.ResponseWriter, r *http.Request) (*view.Page, bool) {
	page, ok := middleware.PageFromContext(r.Context())
	if !ok {
		h.logger.Error("session middleware not installed", "path", r.URL.Path)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return nil, false
	}
	return page, true
}
