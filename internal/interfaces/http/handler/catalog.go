package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/atlanticave/storefront/internal/application/storefront"
	"github.com/atlanticave/storefront/internal/infrastructure/i18n"
)

// CatalogHandler serves the mapped product catalog and policy pages
type CatalogHandler struct {
	BaseHandler
	catalog *storefront.CatalogService
}

// NewCatalogHandler creates a CatalogHandler
func NewCatalogHandler(catalog *storefront.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts godoc
// @Summary      List display products
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.Product}
// @Failure      502 {object} dto.Response
// @Router       /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err, i18n.ProductsLoadFailed)
		return
	}
	h.Success(c, products)
}

// GetProduct godoc
// @Summary      Get a display product
// @Tags         catalog
// @Produce      json
// @Param        handle path string true "Product handle"
// @Success      200 {object} dto.Response{data=catalog.Product}
// @Failure      404 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /catalog/products/{handle} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.HandleError(c, err, i18n.ProductLoadFailed)
		return
	}
	if product == nil {
		h.NotFound(c, msg(c, i18n.ProductNotFound))
		return
	}
	h.Success(c, product)
}

// GetPolicies godoc
// @Summary      Get every shop policy
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=catalog.Policies}
// @Failure      502 {object} dto.Response
// @Router       /catalog/policies [get]
func (h *CatalogHandler) GetPolicies(c *gin.Context) {
	policies, err := h.catalog.GetPolicies(c.Request.Context())
	if err != nil {
		h.HandleError(c, err, i18n.PoliciesLoadFailed)
		return
	}
	h.Success(c, policies)
}

// GetPolicy godoc
// @Summary      Get a policy page by its slug
// @Tags         catalog
// @Produce      json
// @Param        slug path string true "Policy slug, e.g. vraceni-penez"
// @Success      200 {object} dto.Response{data=catalog.Policy}
// @Failure      404 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /catalog/policies/{slug} [get]
func (h *CatalogHandler) GetPolicy(c *gin.Context) {
	policy, err := h.catalog.GetPolicy(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err, i18n.PoliciesLoadFailed)
		return
	}
	if policy == nil {
		h.NotFound(c, msg(c, i18n.PolicyNotFound))
		return
	}
	h.Success(c, policy)
}
