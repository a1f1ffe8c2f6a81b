package offers

import (
	"context"
	"database/sql"
)

// NOTE: This repository assumes an offers table:
// offers (id, name, description, discount_percentage numeric, product_type, plan_type,
//         start_date, end_date, is_active, personalized, min_purchase_count NULL, created_at)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) ListGeneral(ctx context.Context) ([]Offer, error) {
	return r.list(ctx, false)
}

func (r *PostgresRepo) ListPersonalized(ctx context.Context) ([]Offer, error) {
	return r.list(ctx, true)
}

func (r *PostgresRepo) list(ctx context.Context, personalized bool) ([]Offer, error) {
	const q = `
SELECT id, name, description, discount_percentage, product_type, plan_type,
       start_date, end_date, is_active, personalized, min_purchase_count, created_at
FROM offers
WHERE personalized = $1 AND is_active = TRUE AND start_date <= now() AND end_date >= now()
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q, personalized)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Offer
	for rows.Next() {
		var (
			o        Offer
			minCount sql.NullInt64
		)
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Description,
			&o.DiscountPercentage,
			&o.ProductType,
			&o.PlanType,
			&o.StartDate,
			&o.EndDate,
			&o.IsActive,
			&o.Personalized,
			&minCount,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		if minCount.Valid {
			o.Eligibility = &EligibilityCondition{MinPurchaseCount: int(minCount.Int64)}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
