package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/leyenda/storefront/internal/models"
)

// VariantRepo is the inventory lookup backed by the catalog tables. All ids
// are resolved in one query; soft-deleted variants never come back.
type VariantRepo struct {
	db *sql.DB
}

func NewVariantRepo(db *sql.DB) *VariantRepo {
	return &VariantRepo{db: db}
}

func (r *VariantRepo) FetchVariants(ctx context.Context, ids []int64) ([]models.VariantSnapshot, error) {
	if len(ids) == 0 {
		return []models.VariantSnapshot{}, nil
	}

	query := `
		SELECT
			v.id,
			p.id,
			p.name,
			v.size,
			v.color,
			COALESCE(v.price, p.base_price),
			v.stock,
			COALESCE((
				SELECT pi.path
				  FROM product_images pi
				 WHERE pi.product_id = p.id
				   AND pi.is_primary
				 ORDER BY pi.created_at ASC
				 LIMIT 1
			), '')
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = ANY($1)
		  AND v.deleted_at IS NULL
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	variants := make([]models.VariantSnapshot, 0, len(ids))
	for rows.Next() {
		var v models.VariantSnapshot
		if err := rows.Scan(
			&v.VariantID,
			&v.ProductID,
			&v.Name,
			&v.Size,
			&v.Color,
			&v.UnitPrice,
			&v.Stock,
			&v.ImagePath,
		); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
