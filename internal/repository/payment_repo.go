package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

const paymentColumns = `id, product_id, seller_id, seller_email, amount, product_price, payment_phone, status, created_at, confirmed_at`

// PaymentRepository handles data access for commission payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func insertPayment(ctx context.Context, tx *sqlx.Tx, p *models.Payment) error {
	const q = `
		INSERT INTO payments (id, product_id, seller_id, seller_email, amount, product_price, payment_phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	return tx.QueryRowxContext(ctx, q,
		p.ID, p.ProductID, p.SellerID, p.SellerEmail, p.Amount, p.ProductPrice, p.PaymentPhone, p.Status,
	).Scan(&p.CreatedAt)
}

// GetByID returns a payment by id.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByProductID returns the latest payment recorded for a product.
func (r *PaymentRepository) GetByProductID(ctx context.Context, productID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.GetContext(ctx, &p,
		`SELECT `+paymentColumns+` FROM payments WHERE product_id = $1 ORDER BY created_at DESC LIMIT 1`, productID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the most recent payments, optionally filtered by status.
func (r *PaymentRepository) List(ctx context.Context, status models.PaymentStatus, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 500
	}
	payments := []models.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+` FROM payments WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC LIMIT $2`,
		string(status), limit)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Confirm marks a pending payment confirmed and approves its product in one
// transaction. It returns the updated payment.
func (r *PaymentRepository) Confirm(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &p, `
			UPDATE payments SET status = 'confirmed', confirmed_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING `+paymentColumns, id)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET status = 'approved', commission_paid = true, updated_at = NOW()
			WHERE id = $1`, p.ProductID)
		if err != nil {
			return fmt.Errorf("approve product: %w", err)
		}
		return expectOne(res)
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}
