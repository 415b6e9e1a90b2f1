package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/filter"
	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// BrowseSessionHeader identifies one browsing tab so superseded results can be dropped.
const BrowseSessionHeader = "X-Browse-Session"

// ProductHandler serves browsing and the seller's listing management.
type ProductHandler struct {
	listings  ListingService
	products  ProductService
	favorites FavoriteService
	receipts  ReceiptService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(listings ListingService, products ProductService, favorites FavoriteService, receipts ReceiptService) *ProductHandler {
	return &ProductHandler{
		listings:  listings,
		products:  products,
		favorites: favorites,
		receipts:  receipts,
	}
}

// Browse lists approved products matching the filter encoded in the query string.
func (h *ProductHandler) Browse(c *gin.Context) {
	state := filter.FromQuery(c.Request.URL.Query())

	result, err := h.listings.Browse(c.Request.Context(), c.GetHeader(BrowseSessionHeader), state)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Products retrieved", gin.H{
		"products":      result.Products,
		"total":         result.Total,
		"activeFilters": result.ActiveFilters,
		"filter":        state,
		"fields":        state.FieldValues(),
		"query":         state.ToQuery().Encode(),
	})
}

// Featured lists the featured products for the home page.
func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.listings.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Featured products retrieved", products)
}

// GetProduct returns one product, counting the view.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p, err := h.products.Details(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	favorited, _ := h.favorites.IsFavorited(c.Request.Context(), user, p.ID)
	utils.Success(c, http.StatusOK, "Product retrieved", gin.H{
		"product":   p,
		"favorited": favorited,
	})
}

// Quote returns the commission owed for ?price=.
func (h *ProductHandler) Quote(c *gin.Context) {
	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil || price <= 0 {
		badRequest(c, "price must be a positive number")
		return
	}
	utils.Success(c, http.StatusOK, "Commission calculated", gin.H{
		"price":      price,
		"commission": h.products.Quote(price),
	})
}

// Publish creates a listing from the publish wizard.
func (h *ProductHandler) Publish(c *gin.Context) {
	var req models.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	p, pay, err := h.products.Publish(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Product submitted for approval", gin.H{
		"product": p,
		"payment": pay,
	})
}

// Update edits the seller's own listing.
func (h *ProductHandler) Update(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	p, err := h.products.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product updated", p)
}

// Delete removes the seller's own listing.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product deleted", nil)
}

// Mine lists the seller's listings grouped by status.
func (h *ProductHandler) Mine(c *gin.Context) {
	mine, err := h.products.Mine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Products retrieved", mine)
}

// Receipt downloads the commission receipt of a listing as PDF.
func (h *ProductHandler) Receipt(c *gin.Context) {
	pdf, name, err := h.receipts.Commission(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
