package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/repository"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// ReviewService handles product reviews. New reviews wait for moderation but
// count toward the product rating immediately.
type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
	listings ListingInvalidator
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews ReviewStore, products ProductStore, listings ListingInvalidator) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, listings: listings}
}

// Create submits a review of productID by user.
func (s *ReviewService) Create(ctx context.Context, user *models.User, productID string, rating int, text string) (*models.Review, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", utils.ErrValidation)
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p.Status != models.ProductApproved {
		return nil, utils.ErrNotFound
	}
	if p.SellerID == user.ID {
		return nil, fmt.Errorf("%w: you cannot review your own product", utils.ErrValidation)
	}

	exists, err := s.reviews.Exists(ctx, productID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, utils.ErrAlreadyReviewed
	}

	rv := &models.Review{
		ProductID:     p.ID,
		ProductTitle:  p.Title,
		SellerID:      p.SellerID,
		SellerEmail:   p.SellerEmail,
		ReviewerID:    user.ID,
		ReviewerName:  user.FullName,
		ReviewerEmail: user.Email,
		Rating:        rating,
		ReviewText:    strings.TrimSpace(text),
		Status:        models.ReviewPending,
	}
	if err := s.reviews.CreateAndRate(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.listings.Invalidate(ctx)
	log.Info().Str("product_id", p.ID).Str("reviewer_id", user.ID).Int("rating", rating).Msg("Review submitted")
	return rv, nil
}

// ProductReviews returns the approved reviews of a product.
func (s *ReviewService) ProductReviews(ctx context.Context, productID string) ([]models.Review, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID, models.ReviewApproved)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID).Msg("Failed to list reviews")
		return []models.Review{}, nil
	}
	return reviews, nil
}

// SellerReviews returns the reviews on the user's products grouped by status.
// The average and distribution only consider approved reviews.
func (s *ReviewService) SellerReviews(ctx context.Context, user *models.User) (*models.SellerReviews, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	all, err := s.reviews.ListBySeller(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("seller_id", user.ID).Msg("Failed to list seller reviews")
		all = []models.Review{}
	}
	return summarizeReviews(all), nil
}

func summarizeReviews(all []models.Review) *models.SellerReviews {
	out := &models.SellerReviews{
		All:      all,
		Approved: []models.Review{},
		Pending:  []models.Review{},
		Rejected: []models.Review{},
	}
	counts := map[int]int{}
	sum := 0
	for _, r := range all {
		switch r.Status {
		case models.ReviewApproved:
			out.Approved = append(out.Approved, r)
			counts[r.Rating]++
			sum += r.Rating
		case models.ReviewPending:
			out.Pending = append(out.Pending, r)
		case models.ReviewRejected:
			out.Rejected = append(out.Rejected, r)
		}
	}
	n := len(out.Approved)
	if n > 0 {
		out.AverageRating = float64(sum) / float64(n)
	}
	for rating := 5; rating >= 1; rating-- {
		b := models.RatingBucket{Rating: rating, Count: counts[rating]}
		if n > 0 {
			b.Percentage = float64(b.Count) / float64(n) * 100
		}
		out.Distribution = append(out.Distribution, b)
	}
	return out
}
