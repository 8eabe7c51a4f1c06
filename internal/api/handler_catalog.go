package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitrine/internal/reservation"
)

// GetHome returns the landing page data: active categories with their
// products.
func (h *Handler) GetHome(c *gin.Context) {
	categories, err := h.gw.CategoriesWithProducts(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryOptions returns the active categories for the filter select.
func (h *Handler) GetCategoryOptions(c *gin.Context) {
	options, err := h.gw.CategoriesForSelect(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// GetProducts renders the customer listing controller's snapshot.
func (h *Handler) GetProducts(c *gin.Context) {
	renderListing(c, h.products.Snapshot())
}

// SetProductFilters applies filter edits to the customer listing and returns
// the immediate snapshot; debounced text edits settle in the background and
// show up on the next poll.
func (h *Handler) SetProductFilters(c *gin.Context) {
	var upd filterUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "filtros inválidos"})
		return
	}
	applyFilterUpdate(h.products, upd)
	renderListing(c, h.products.Snapshot())
}

// GetProductDetail returns a product with its customizations plus the
// default variant/size selection the view should start from.
func (h *Handler) GetProductDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de produto inválido"})
		return
	}

	product, err := h.gw.ProductDetail(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	sel := reservation.DefaultSelection(product)
	for i := range product.Customizations {
		product.Customizations[i].Imagem = h.gw.ImageURL(product.Customizations[i].Imagem)
	}
	c.JSON(http.StatusOK, gin.H{
		"produto":       product,
		"tamanhoPadrao": sel.Tamanho,
		"podeReservar":  sel.CanReserve(),
	})
}
