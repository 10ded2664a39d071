package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/atlanticave/storefront/internal/application/storefront"
	"github.com/atlanticave/storefront/internal/infrastructure/i18n"
	"github.com/atlanticave/storefront/internal/interfaces/http/dto"
	"github.com/atlanticave/storefront/internal/interfaces/http/middleware"
)

// SessionCartHandler serves the cart owned by the caller's session
type SessionCartHandler struct {
	BaseHandler
	carts *storefront.CartService
}

// NewSessionCartHandler creates a SessionCartHandler
func NewSessionCartHandler(carts *storefront.CartService) *SessionCartHandler {
	return &SessionCartHandler{carts: carts}
}

// Get godoc
// @Summary      Get the session cart
// @Tags         session-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Router       /session/cart [get]
func (h *SessionCartHandler) Get(c *gin.Context) {
	view, err := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err, i18n.CartLoadFailed)
		return
	}
	h.Success(c, view)
}

// AddItem godoc
// @Summary      Add an item to the session cart
// @Description  Adding an existing product and size increments its quantity.
// @Tags         session-cart
// @Accept       json
// @Produce      json
// @Param        request body dto.AddItemRequest true "Item"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /session/cart/items [post]
func (h *SessionCartHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	view, err := h.carts.Add(c.Request.Context(), middleware.GetSessionID(c), req.ToAddItem())
	if err != nil {
		h.HandleError(c, err, i18n.CartAddFailed)
		return
	}
	h.Success(c, view)
}

// SetQuantity godoc
// @Summary      Set the quantity of a line
// @Description  A quantity below 1 removes the line.
// @Tags         session-cart
// @Accept       json
// @Produce      json
// @Param        index   path int                    true "Line index"
// @Param        request body dto.SetQuantityRequest true "Quantity"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /session/cart/items/{index} [put]
func (h *SessionCartHandler) SetQuantity(c *gin.Context) {
	var uri dto.LineIndexURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	view, err := h.carts.SetQuantity(c.Request.Context(), middleware.GetSessionID(c), uri.Index, *req.Quantity)
	if err != nil {
		h.HandleError(c, err, i18n.CartAddFailed)
		return
	}
	h.Success(c, view)
}

// RemoveItem godoc
// @Summary      Remove a line
// @Tags         session-cart
// @Produce      json
// @Param        index path int true "Line index"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      404 {object} dto.Response
// @Router       /session/cart/items/{index} [delete]
func (h *SessionCartHandler) RemoveItem(c *gin.Context) {
	var uri dto.LineIndexURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	view, err := h.carts.Remove(c.Request.Context(), middleware.GetSessionID(c), uri.Index)
	if err != nil {
		h.HandleError(c, err, i18n.CartRemoveFailed)
		return
	}
	h.Success(c, view)
}

// RefreshStock godoc
// @Summary      Replace the stock ceiling of a line
// @Description  Replaces the cached stock ceiling of the line. The quantity is left unchanged, even above the new ceiling; a null ceiling clears it.
// @Tags         session-cart
// @Accept       json
// @Produce      json
// @Param        index   path int                     true "Line index"
// @Param        request body dto.RefreshStockRequest true "Ceiling"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      404 {object} dto.Response
// @Router       /session/cart/items/{index}/stock [put]
func (h *SessionCartHandler) RefreshStock(c *gin.Context) {
	var uri dto.LineIndexURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	var req dto.RefreshStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	view, err := h.carts.RefreshStock(c.Request.Context(), middleware.GetSessionID(c), uri.Index, req.AvailableQuantity)
	if err != nil {
		h.HandleError(c, err, i18n.CartLoadFailed)
		return
	}
	h.Success(c, view)
}

// Reconcile godoc
// @Summary      Refresh every line's ceiling from live stock
// @Tags         session-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      502 {object} dto.Response
// @Router       /session/cart/reconcile [post]
func (h *SessionCartHandler) Reconcile(c *gin.Context) {
	view, err := h.carts.ReconcileStock(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err, i18n.CartLoadFailed)
		return
	}
	h.Success(c, view)
}
