package repos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type BasketRepo struct{ db *sqlx.DB }

func NewBasketRepo(db *sqlx.DB) *BasketRepo { return &BasketRepo{db: db} }

type basketRow struct {
	ID         int64          `db:"id"`
	BuyerID    string         `db:"buyer_id"`
	ProductID  sql.NullInt64  `db:"product_id"`
	Quantity   sql.NullInt64  `db:"quantity"`
	Name       sql.NullString `db:"name"`
	Price      sql.NullInt64  `db:"price"`
	PictureURL sql.NullString `db:"picture_url"`
	Type       sql.NullString `db:"type"`
	Brand      sql.NullString `db:"brand"`
}

// FindByBuyerID loads the basket, its lines and their products in one query.
// It returns nil, nil when the buyer has no basket.
func (r *BasketRepo) FindByBuyerID(ctx context.Context, buyerID string) (*domain.Basket, error) {
	rows := []basketRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
	  SELECT b.id, b.buyer_id, bi.product_id, bi.quantity,
	         p.name, p.price, p.picture_url, p.type, p.brand
	  FROM baskets b
	  LEFT JOIN basket_items bi ON bi.basket_id = b.id
	  LEFT JOIN products p ON p.id = bi.product_id
	  WHERE b.buyer_id = ?
	  ORDER BY bi.id
	`), buyerID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	b := &domain.Basket{ID: rows[0].ID, BuyerID: rows[0].BuyerID}
	for _, row := range rows {
		if !row.ProductID.Valid {
			continue // basket without lines
		}
		b.Items = append(b.Items, domain.BasketItem{
			ProductID: row.ProductID.Int64,
			Quantity:  int(row.Quantity.Int64),
			Product: domain.Product{
				ID:         row.ProductID.Int64,
				Name:       row.Name.String,
				Price:      row.Price.Int64,
				PictureURL: row.PictureURL.String,
				Type:       row.Type.String,
				Brand:      row.Brand.String,
			},
		})
	}
	return b, nil
}

// Save writes the basket and reconciles its lines in one transaction. It
// returns the number of rows touched; zero means nothing was persisted, which
// happens when an existing basket disappeared underneath us. A new basket
// gets its ID only after commit.
func (r *BasketRepo) Save(ctx context.Context, b *domain.Basket) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var affected int64
	basketID := b.ID
	if basketID == 0 {
		if err := tx.GetContext(ctx, &basketID, tx.Rebind(`
			INSERT INTO baskets(buyer_id, created_at, updated_at)
			VALUES(?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			RETURNING id
		`), b.BuyerID); err != nil {
			return 0, fmt.Errorf("insert basket: %w", err)
		}
		affected++
	} else {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE baskets SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`), basketID)
		if err != nil {
			return 0, fmt.Errorf("touch basket: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, nil
		}
		affected += n
	}

	// Lines no longer in the aggregate.
	query, args := `DELETE FROM basket_items WHERE basket_id = ?`, []any{basketID}
	if len(b.Items) > 0 {
		ids := make([]int64, 0, len(b.Items))
		for _, it := range b.Items {
			ids = append(ids, it.ProductID)
		}
		query, args, err = sqlx.In(`DELETE FROM basket_items WHERE basket_id = ? AND product_id NOT IN (?)`, basketID, ids)
		if err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("prune basket items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	affected += n

	upsert := tx.Rebind(`
		INSERT INTO basket_items(basket_id, product_id, quantity)
		VALUES(?, ?, ?)
		ON CONFLICT(basket_id, product_id) DO UPDATE SET quantity = excluded.quantity
	`)
	for _, it := range b.Items {
		res, err := tx.ExecContext(ctx, upsert, basketID, it.ProductID, it.Quantity)
		if err != nil {
			return 0, fmt.Errorf("upsert basket item %d: %w", it.ProductID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	b.ID = basketID
	return affected, nil
}
