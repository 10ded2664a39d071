package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/infrastructure/i18n"
	"github.com/atlanticave/storefront/internal/infrastructure/logger"
	"github.com/atlanticave/storefront/internal/interfaces/http/dto"
	"github.com/atlanticave/storefront/internal/interfaces/http/middleware"
)

// ForwardingHandler relays catalog and cart requests to the commerce backend.
// Successful responses carry the backend payload unchanged.
type ForwardingHandler struct {
	BaseHandler
	platform commerce.StorefrontPlatform
	pageSize int
}

// NewForwardingHandler creates a ForwardingHandler listing pageSize products
func NewForwardingHandler(platform commerce.StorefrontPlatform, pageSize int) *ForwardingHandler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &ForwardingHandler{platform: platform, pageSize: pageSize}
}

// ListProducts godoc
// @Summary      List products
// @Tags         forwarding
// @Produce      json
// @Success      200 {object} commerce.ProductsData
// @Failure      500 {object} dto.Response
// @Router       /products [get]
func (h *ForwardingHandler) ListProducts(c *gin.Context) {
	data, err := h.platform.ListProducts(c.Request.Context(), h.pageSize)
	if err != nil {
		h.fail(c, err, i18n.ProductsLoadFailed)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetProduct godoc
// @Summary      Get a product by handle
// @Tags         forwarding
// @Produce      json
// @Param        handle path string true "Product handle"
// @Success      200 {object} commerce.ProductByHandleData
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /products/{handle} [get]
func (h *ForwardingHandler) GetProduct(c *gin.Context) {
	data, err := h.platform.GetProductByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.fail(c, err, i18n.ProductLoadFailed)
		return
	}
	if data.ProductByHandle == nil {
		h.NotFound(c, msg(c, i18n.ProductNotFound))
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetPolicies godoc
// @Summary      Get shop policies
// @Tags         forwarding
// @Produce      json
// @Success      200 {object} commerce.ShopPoliciesData
// @Failure      500 {object} dto.Response
// @Router       /policies [get]
func (h *ForwardingHandler) GetPolicies(c *gin.Context) {
	data, err := h.platform.GetShopPolicies(c.Request.Context())
	if err != nil {
		h.fail(c, err, i18n.PoliciesLoadFailed)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetCart godoc
// @Summary      Get a backend cart
// @Tags         forwarding
// @Produce      json
// @Param        cartId path string true "Backend cart ID"
// @Success      200 {object} commerce.CartData
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /cart/{cartId} [get]
func (h *ForwardingHandler) GetCart(c *gin.Context) {
	data, err := h.platform.GetCart(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		h.fail(c, err, i18n.CartLoadFailed)
		return
	}
	if data.Cart == nil {
		h.NotFound(c, msg(c, i18n.CartNotFound))
		return
	}
	c.JSON(http.StatusOK, data)
}

// CreateCart godoc
// @Summary      Create a backend cart
// @Tags         forwarding
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCartRequest true "Cart lines"
// @Success      200 {object} commerce.CartCreateData
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /cart/create [post]
func (h *ForwardingHandler) CreateCart(c *gin.Context) {
	var req dto.CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	data, err := h.platform.CreateCart(c.Request.Context(), dto.ToCartLines(req.Lines))
	if err != nil {
		h.fail(c, err, i18n.CartCreateFailed)
		return
	}
	c.JSON(http.StatusOK, data)
}

// AddCartLines godoc
// @Summary      Add lines to a backend cart
// @Tags         forwarding
// @Accept       json
// @Produce      json
// @Param        request body dto.AddCartLinesRequest true "Cart ID and lines"
// @Success      200 {object} commerce.CartLinesAddData
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /cart/add [post]
func (h *ForwardingHandler) AddCartLines(c *gin.Context) {
	var req dto.AddCartLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	data, err := h.platform.AddCartLines(c.Request.Context(), req.CartID, dto.ToCartLines(req.Lines))
	if err != nil {
		h.fail(c, err, i18n.CartAddFailed)
		return
	}
	c.JSON(http.StatusOK, data)
}

// RemoveCartLines godoc
// @Summary      Remove lines from a backend cart
// @Tags         forwarding
// @Accept       json
// @Produce      json
// @Param        request body dto.RemoveCartLinesRequest true "Cart ID and line IDs"
// @Success      200 {object} commerce.CartLinesRemoveData
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /cart/remove [post]
func (h *ForwardingHandler) RemoveCartLines(c *gin.Context) {
	var req dto.RemoveCartLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	data, err := h.platform.RemoveCartLines(c.Request.Context(), req.CartID, req.LineIDs)
	if err != nil {
		h.fail(c, err, i18n.CartRemoveFailed)
		return
	}
	c.JSON(http.StatusOK, data)
}

// fail answers a backend failure with 500 and the route's message
func (h *ForwardingHandler) fail(c *gin.Context, err error, key i18n.Key) {
	switch {
	case errors.Is(err, context.Canceled):
		h.HandleError(c, err, key)
	case errors.Is(err, commerce.ErrInvalidCartLine):
		h.BadRequest(c)
	default:
		logger.L(c.Request.Context()).Error("forwarding request failed",
			zap.String("route", c.FullPath()), zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeUpstream, msg(c, key))
	}
}
