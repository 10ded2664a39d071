// Package handler contains the HTTP handlers of the storefront API.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/application/storefront"
	"github.com/atlanticave/storefront/internal/domain/cart"
	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/domain/shared"
	"github.com/atlanticave/storefront/internal/infrastructure/i18n"
	"github.com/atlanticave/storefront/internal/infrastructure/logger"
	"github.com/atlanticave/storefront/internal/interfaces/http/dto"
	"github.com/atlanticave/storefront/internal/interfaces/http/middleware"
)

// statusClientClosedRequest is logged when the client went away before the response
const statusClientClosedRequest = 499

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// msg returns the localized message for key
func msg(c *gin.Context, key i18n.Key) string {
	return middleware.GetMessages(c).Get(key)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response. Error responses are never cached.
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.Header("Cache-Control", "no-store")
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// BadRequest sends a 400 response with the localized invalid-body message
func (h *BaseHandler) BadRequest(c *gin.Context) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, msg(c, i18n.InvalidRequestBody))
}

// HandleError maps service errors to responses. Backend failures answer
// 502 with the localized message of fallback.
func (h *BaseHandler) HandleError(c *gin.Context, err error, fallback i18n.Key) {
	if err == nil {
		return
	}

	var ceiling *cart.StockCeilingError
	var rejected *storefront.CheckoutUserError
	var domainErr *shared.DomainError

	switch {
	case errors.Is(err, context.Canceled):
		logger.L(c.Request.Context()).Debug("client canceled request", zap.Error(err))
		c.Abort()
		c.Status(statusClientClosedRequest)

	case errors.As(err, &ceiling):
		if ceiling.Ceiling == 0 {
			h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeOutOfStock, msg(c, i18n.OutOfStock))
			return
		}
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock,
			fmt.Sprintf(msg(c, i18n.InsufficientStock), ceiling.Ceiling))

	case errors.As(err, &rejected):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeCheckoutRejected, rejected.Message)

	case errors.Is(err, cart.ErrOutOfStock):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeOutOfStock, msg(c, i18n.OutOfStock))

	case errors.Is(err, storefront.ErrSizeNotAvailable):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeSizeNotAvailable, msg(c, i18n.SizeNotAvailable))

	case errors.Is(err, storefront.ErrProductUnavailable):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeProductUnavailable, msg(c, i18n.ProductUnavailable))

	case errors.Is(err, cart.ErrEmptyCart):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeCartEmpty, msg(c, i18n.CartEmpty))

	case errors.Is(err, cart.ErrLineNotFound):
		h.NotFound(c, msg(c, i18n.CartLineNotFound))

	case errors.Is(err, cart.ErrInvalidItem), errors.Is(err, commerce.ErrInvalidCartLine):
		h.BadRequest(c)

	case errors.Is(err, cart.ErrConcurrentUpdate):
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, err.Error())

	case errors.Is(err, storefront.ErrCheckoutURLMissing):
		h.upstream(c, err, msg(c, i18n.CheckoutURLMissing))

	case errors.Is(err, storefront.ErrCheckoutFailed):
		h.upstream(c, err, msg(c, i18n.CheckoutFailed))

	case isPlatformError(err):
		h.upstream(c, err, msg(c, fallback))

	case errors.As(err, &domainErr):
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)

	default:
		logger.L(c.Request.Context()).Error("unhandled error", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, msg(c, i18n.InternalServerError))
	}
}

func (h *BaseHandler) upstream(c *gin.Context, err error, message string) {
	logger.L(c.Request.Context()).Warn("commerce backend failure", zap.Error(err))
	h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, message)
}

func isPlatformError(err error) bool {
	return errors.Is(err, commerce.ErrPlatformNotConfigured) ||
		errors.Is(err, commerce.ErrPlatformUnavailable) ||
		errors.Is(err, commerce.ErrPlatformRequestFailed) ||
		errors.Is(err, commerce.ErrPlatformInvalidResponse)
}
