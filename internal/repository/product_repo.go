package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leyenda/storefront/internal/models"
)

// ProductRepo serves catalog browsing: product listings and the detail view
// with variants and gallery images.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// List returns up to limit products, newest first, optionally filtered by a
// case-insensitive name search.
func (r *ProductRepo) List(ctx context.Context, search string, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT
			p.id, p.name, p.description, p.base_price, p.created_at,
			COALESCE((
				SELECT pi.path
				  FROM product_images pi
				 WHERE pi.product_id = p.id
				   AND pi.is_primary
				 ORDER BY pi.created_at ASC
				 LIMIT 1
			), '')
		FROM products p
		WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%')
		ORDER BY p.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.CreatedAt, &p.ImagePath); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get returns the product with its live variants and images, or
// models.ErrNotFound.
func (r *ProductRepo) Get(ctx context.Context, id int64) (*models.ProductDetail, error) {
	var d models.ProductDetail

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, base_price, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Description, &d.BasePrice, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT v.id, v.size, v.color, COALESCE(v.price, $2), v.stock
		FROM product_variants v
		WHERE v.product_id = $1
		  AND v.deleted_at IS NULL
		ORDER BY v.id
	`, id, d.BasePrice)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		v := models.VariantSnapshot{ProductID: d.ID, Name: d.Name}
		if err := rows.Scan(&v.VariantID, &v.Size, &v.Color, &v.UnitPrice, &v.Stock); err != nil {
			return nil, err
		}
		d.Variants = append(d.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imgRows, err := r.db.QueryContext(ctx, `
		SELECT path FROM product_images
		WHERE product_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var path string
		if err := imgRows.Scan(&path); err != nil {
			return nil, err
		}
		d.Images = append(d.Images, path)
	}
	if len(d.Images) > 0 {
		d.ImagePath = d.Images[0]
	}
	return &d, imgRows.Err()
}
