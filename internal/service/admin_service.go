package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

const adminListLimit = 500

// AdminService backs the admin dashboard. Callers must have checked the role.
type AdminService struct {
	products ProductStore
	payments PaymentStore
	reviews  ReviewStore
	messages MessageStore
	listings ListingInvalidator
}

// NewAdminService creates a new AdminService.
func NewAdminService(products ProductStore, payments PaymentStore, reviews ReviewStore, messages MessageStore, listings ListingInvalidator) *AdminService {
	return &AdminService{
		products: products,
		payments: payments,
		reviews:  reviews,
		messages: messages,
		listings: listings,
	}
}

// Products lists every listing, optionally restricted to one status.
func (s *AdminService) Products(ctx context.Context, status models.ProductStatus) ([]models.Product, error) {
	if status != "" && !status.Valid() {
		return nil, utils.ErrInvalidStatus
	}
	products, err := s.products.List(ctx, models.ProductQuery{Status: status, Sort: "-created_date", Limit: adminListLimit})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// SetProductStatus approves, rejects or hides a listing.
func (s *AdminService) SetProductStatus(ctx context.Context, id string, status models.ProductStatus) error {
	if !status.Valid() {
		return utils.ErrInvalidStatus
	}
	if err := s.products.UpdateStatus(ctx, id, status); err != nil {
		return notFoundOr(err, "update product status")
	}
	s.listings.Invalidate(ctx)
	log.Info().Str("product_id", id).Str("status", string(status)).Msg("Product status changed")
	return nil
}

// SetFeatured toggles the featured flag of a listing.
func (s *AdminService) SetFeatured(ctx context.Context, id string, featured bool) error {
	if err := s.products.SetFeatured(ctx, id, featured); err != nil {
		return notFoundOr(err, "set featured")
	}
	s.listings.Invalidate(ctx)
	log.Info().Str("product_id", id).Bool("featured", featured).Msg("Product featured flag changed")
	return nil
}

// DeleteProduct removes any listing.
func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id, ""); err != nil {
		return notFoundOr(err, "delete product")
	}
	s.listings.Invalidate(ctx)
	log.Info().Str("product_id", id).Msg("Product deleted by admin")
	return nil
}

// Payments lists commission payments, optionally by status.
func (s *AdminService) Payments(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	if status != "" && status != models.PaymentPending && status != models.PaymentConfirmed {
		return nil, utils.ErrInvalidStatus
	}
	payments, err := s.payments.List(ctx, status, adminListLimit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// ConfirmPayment marks a commission as received and approves its listing.
func (s *AdminService) ConfirmPayment(ctx context.Context, id string) (*models.Payment, error) {
	current, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load payment")
	}
	if current.Status == models.PaymentConfirmed {
		return nil, utils.ErrPaymentConfirmed
	}

	pay, err := s.payments.Confirm(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// confirmed concurrently
			return nil, utils.ErrPaymentConfirmed
		}
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	s.listings.Invalidate(ctx)
	log.Info().
		Str("payment_id", pay.ID).
		Str("product_id", pay.ProductID).
		Int64("amount", pay.Amount).
		Msg("Payment confirmed")
	return pay, nil
}

// Reviews lists reviews, optionally by status.
func (s *AdminService) Reviews(ctx context.Context, status models.ReviewStatus) ([]models.Review, error) {
	switch status {
	case "", models.ReviewPending, models.ReviewApproved, models.ReviewRejected:
	default:
		return nil, utils.ErrInvalidStatus
	}
	reviews, err := s.reviews.List(ctx, status, adminListLimit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ModerateReview approves or rejects a review.
func (s *AdminService) ModerateReview(ctx context.Context, id string, status models.ReviewStatus) error {
	if status != models.ReviewApproved && status != models.ReviewRejected {
		return utils.ErrInvalidStatus
	}
	if err := s.reviews.UpdateStatus(ctx, id, status); err != nil {
		return notFoundOr(err, "moderate review")
	}
	log.Info().Str("review_id", id).Str("status", string(status)).Msg("Review moderated")
	return nil
}

// Messages lists the most recent messages across all conversations.
func (s *AdminService) Messages(ctx context.Context) ([]models.Message, error) {
	messages, err := s.messages.List(ctx, adminListLimit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Stats returns the dashboard counters.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	stats, err := s.products.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}
