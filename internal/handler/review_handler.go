package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

type ReviewHandler struct {
	reviews ReviewService
}

func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List returns the approved reviews of product :id.
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviews.ProductReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Reviews retrieved", reviews)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req struct {
		Rating     int    `json:"rating"`
		ReviewText string `json:"reviewText"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	rv, err := h.reviews.Create(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Rating, req.ReviewText)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Review submitted for moderation", rv)
}

// Mine returns the reviews on the session user's listings.
func (h *ReviewHandler) Mine(c *gin.Context) {
	summary, err := h.reviews.SellerReviews(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Reviews retrieved", summary)
}
