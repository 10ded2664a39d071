package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlanticave/storefront/internal/application/storefront"
	"github.com/atlanticave/storefront/internal/infrastructure/i18n"
	"github.com/atlanticave/storefront/internal/interfaces/http/dto"
	"github.com/atlanticave/storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler hands the session cart to the hosted checkout
type CheckoutHandler struct {
	BaseHandler
	checkout *storefront.CheckoutService
}

// NewCheckoutHandler creates a CheckoutHandler
func NewCheckoutHandler(checkout *storefront.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Checkout godoc
// @Summary      Start checkout
// @Description  Creates a backend cart from the session cart. With redirect=1 the
// @Description  response is a 303 to the hosted checkout instead of JSON.
// @Tags         checkout
// @Produce      json
// @Param        redirect query bool false "Answer with a redirect"
// @Success      200 {object} dto.Response{data=storefront.CheckoutResult}
// @Success      303
// @Failure      422 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var query dto.CheckoutQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err, i18n.CheckoutFailed)
		return
	}

	if query.Redirect {
		c.Redirect(http.StatusSeeOther, result.CheckoutURL)
		return
	}
	h.Success(c, result)
}

// Complete godoc
// @Summary      Finish checkout
// @Description  Called from the confirmation page; clears the session cart.
// @Tags         checkout
// @Success      204
// @Router       /checkout/complete [post]
func (h *CheckoutHandler) Complete(c *gin.Context) {
	if err := h.checkout.Complete(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.HandleError(c, err, i18n.CartLoadFailed)
		return
	}
	c.Status(http.StatusNoContent)
}
