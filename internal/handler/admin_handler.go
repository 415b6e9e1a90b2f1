package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// AdminHandler serves the admin dashboard. Routes are guarded by RequireAdmin.
type AdminHandler struct {
	admin AdminService
}

func NewAdminHandler(admin AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Stats retrieved", stats)
}

// ListProducts lists listings, optionally by ?status=.
func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.admin.Products(c.Request.Context(), models.ProductStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Products retrieved", products)
}

func (h *AdminHandler) UpdateProductStatus(c *gin.Context) {
	var req struct {
		Status models.ProductStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	if err := h.admin.SetProductStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product status updated", gin.H{"id": c.Param("id"), "status": req.Status})
}

func (h *AdminHandler) UpdateFeatured(c *gin.Context) {
	var req struct {
		Featured *bool `json:"featured" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "featured is required")
		return
	}
	if err := h.admin.SetFeatured(c.Request.Context(), c.Param("id"), *req.Featured); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product updated", gin.H{"id": c.Param("id"), "featured": *req.Featured})
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product deleted", nil)
}

func (h *AdminHandler) ListPayments(c *gin.Context) {
	payments, err := h.admin.Payments(c.Request.Context(), models.PaymentStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Payments retrieved", payments)
}

// ConfirmPayment marks the commission received and approves the listing.
func (h *AdminHandler) ConfirmPayment(c *gin.Context) {
	pay, err := h.admin.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Payment confirmed", pay)
}

func (h *AdminHandler) ListReviews(c *gin.Context) {
	reviews, err := h.admin.Reviews(c.Request.Context(), models.ReviewStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Reviews retrieved", reviews)
}

func (h *AdminHandler) ModerateReview(c *gin.Context) {
	var req struct {
		Status models.ReviewStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	if err := h.admin.ModerateReview(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Review updated", gin.H{"id": c.Param("id"), "status": req.Status})
}

func (h *AdminHandler) ListMessages(c *gin.Context) {
	messages, err := h.admin.Messages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Messages retrieved", messages)
}
