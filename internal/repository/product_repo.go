package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

const productColumns = `id, title, description, category, action_type, price, province, district, sector,
	bedrooms, bathrooms, vehicle_make, vehicle_model, vehicle_year, vehicle_mileage,
	capacity, capacity_unit, tech_ram, tech_storage, tech_processor,
	images, status, is_featured, views, average_rating, review_count,
	seller_id, seller_name, seller_email, seller_phone, commission_amount, commission_paid,
	created_at, updated_at`

var productOrder = map[string]string{
	"-created_date":   "created_at DESC",
	"price":           "price ASC",
	"-price":          "price DESC",
	"-views":          "views DESC",
	"-average_rating": "average_rating DESC",
}

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func orderClause(sort string) string {
	if o, ok := productOrder[sort]; ok {
		return o + ", id"
	}
	return productOrder["-created_date"] + ", id"
}

// List returns products matching the query. Empty filters are ignored.
func (r *ProductRepository) List(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR status = $1)
		AND ($2 = '' OR category = $2)
		AND ($3 = '' OR action_type = $3)
		AND ($4 = '' OR province = $4)
		AND ($5 = '' OR district = $5)
		AND ($6 = '' OR sector = $6)
		AND ($7 = '' OR seller_id = $7)
		AND ($8 = false OR is_featured = true)
		ORDER BY ` + orderClause(q.Sort) + `
		LIMIT $9`

	products := []models.Product{}
	err := r.db.SelectContext(ctx, &products, query,
		string(q.Status), q.Category, q.ActionType, q.Province, q.District, q.Sector, q.SellerID, q.Featured, limit)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListByIDs returns the products with the given ids and status, newest first.
func (r *ProductRepository) ListByIDs(ctx context.Context, ids []string, status models.ProductStatus) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE id = ANY($1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &products, query, pq.Array(ids), string(status)); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

func insertProduct(ctx context.Context, tx *sqlx.Tx, p *models.Product) error {
	const q = `
		INSERT INTO products (
			id, title, description, category, action_type, price, province, district, sector,
			bedrooms, bathrooms, vehicle_make, vehicle_model, vehicle_year, vehicle_mileage,
			capacity, capacity_unit, tech_ram, tech_storage, tech_processor,
			images, status, seller_id, seller_name, seller_email, seller_phone,
			commission_amount, commission_paid
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26,
			$27, $28
		)
		RETURNING created_at, updated_at`

	return tx.QueryRowxContext(ctx, q,
		p.ID, p.Title, p.Description, p.Category, p.ActionType, p.Price, p.Province, p.District, p.Sector,
		p.Bedrooms, p.Bathrooms, p.VehicleMake, p.VehicleModel, p.VehicleYear, p.VehicleMileage,
		p.Capacity, p.CapacityUnit, p.TechRAM, p.TechStorage, p.TechProcessor,
		p.Images, p.Status, p.SellerID, p.SellerName, p.SellerEmail, p.SellerPhone,
		p.CommissionAmount, p.CommissionPaid,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// CreateWithPayment stores a new listing and its commission payment atomically.
func (r *ProductRepository) CreateWithPayment(ctx context.Context, p *models.Product, pay *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if pay.ID == "" {
		pay.ID = uuid.NewString()
	}
	pay.ProductID = p.ID

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertProduct(ctx, tx, p); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		if err := insertPayment(ctx, tx, pay); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
}

// UpdateByOwner overwrites the editable fields of a seller's own listing.
// It returns sql.ErrNoRows when the product does not exist or belongs to someone else.
func (r *ProductRepository) UpdateByOwner(ctx context.Context, p *models.Product) error {
	const q = `
		UPDATE products SET
			title = $3, description = $4, action_type = $5, price = $6,
			province = $7, district = $8, sector = $9,
			bedrooms = $10, bathrooms = $11, vehicle_make = $12, vehicle_model = $13,
			vehicle_year = $14, vehicle_mileage = $15, capacity = $16, capacity_unit = $17,
			tech_ram = $18, tech_storage = $19, tech_processor = $20,
			images = $21, seller_phone = $22, updated_at = NOW()
		WHERE id = $1 AND seller_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		p.ID, p.SellerID, p.Title, p.Description, p.ActionType, p.Price,
		p.Province, p.District, p.Sector,
		p.Bedrooms, p.Bathrooms, p.VehicleMake, p.VehicleModel,
		p.VehicleYear, p.VehicleMileage, p.Capacity, p.CapacityUnit,
		p.TechRAM, p.TechStorage, p.TechProcessor,
		p.Images, p.SellerPhone,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	return err
}

// UpdateStatus changes a product's moderation status.
func (r *ProductRepository) UpdateStatus(ctx context.Context, id string, status models.ProductStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// SetFeatured toggles the home page highlight of a product.
func (r *ProductRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_featured = $2, updated_at = NOW() WHERE id = $1`, id, featured)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes a product. When sellerID is non-empty only that seller's product is removed.
func (r *ProductRepository) Delete(ctx context.Context, id, sellerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND ($2 = '' OR seller_id = $2)`, id, sellerID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// AddViews adds buffered view counts in one transaction.
func (r *ProductRepository) AddViews(ctx context.Context, views map[string]int64) error {
	if len(views) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for id, n := range views {
			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET views = views + $2 WHERE id = $1`, id, n); err != nil {
				return fmt.Errorf("add views to %s: %w", id, err)
			}
		}
		return nil
	})
}

// Stats returns the admin dashboard counters.
func (r *ProductRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(1) FROM products WHERE status = 'pending_approval') AS pending_products,
			(SELECT COUNT(1) FROM products WHERE status = 'approved') AS approved_products,
			(SELECT COUNT(1) FROM products) AS total_products,
			(SELECT COUNT(1) FROM payments WHERE status = 'pending') AS pending_payments,
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'confirmed') AS total_revenue,
			(SELECT COUNT(1) FROM reviews WHERE status = 'pending') AS pending_reviews,
			(SELECT COUNT(1) FROM messages) AS total_messages`

	var s models.AdminStats
	if err := r.db.GetContext(ctx, &s, q); err != nil {
		return nil, err
	}
	return &s, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
