package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// CatalogHandler serves the fixed registries the UI builds its menus from.
type CatalogHandler struct {
	market config.MarketplaceConfig
	now    func() time.Time
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(market config.MarketplaceConfig) *CatalogHandler {
	return &CatalogHandler{market: market, now: time.Now}
}

// ListCategories returns the six categories in display order.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Categories retrieved", catalog.Categories())
}

// GetCategory returns one category with its filter panel options.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, ok := catalog.CategoryByID(c.Param("id"))
	if !ok {
		utils.Error(c, http.StatusNotFound, utils.ErrNotFound.Error(), "Category not found")
		return
	}
	panel, _ := catalog.OptionsFor(category.ID, h.now())
	utils.Success(c, http.StatusOK, "Category retrieved", gin.H{
		"category": category,
		"panel":    panel,
	})
}

// ListProvinces returns the provinces in display order.
func (h *CatalogHandler) ListProvinces(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Provinces retrieved", catalog.Provinces())
}

// ListDistricts returns the districts of ?province=.
func (h *CatalogHandler) ListDistricts(c *gin.Context) {
	districts := catalog.Districts(c.Query("province"))
	if districts == nil {
		districts = []string{}
	}
	utils.Success(c, http.StatusOK, "Districts retrieved", districts)
}

// ListSectors returns the sectors of ?province=&district=.
func (h *CatalogHandler) ListSectors(c *gin.Context) {
	sectors := catalog.Sectors(c.Query("province"), c.Query("district"))
	if sectors == nil {
		sectors = []string{}
	}
	utils.Success(c, http.StatusOK, "Sectors retrieved", sectors)
}

// GetContact returns the marketplace contact details and commission terms.
func (h *CatalogHandler) GetContact(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Contact info retrieved", gin.H{
		"whatsapp":       h.market.ContactWhatsApp,
		"email":          h.market.ContactEmail,
		"location":       h.market.ContactLocation,
		"instagram":      h.market.ContactInstagram,
		"twitter":        h.market.ContactTwitter,
		"paymentNumber":  h.market.PaymentNumber,
		"commissionRate": h.market.CommissionRate,
		"maxImages":      h.market.MaxImages,
	})
}
