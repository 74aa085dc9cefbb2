// Package postgres implements the inventory repository on a single table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockkeeper/inventory/internal/inventory/application"
	"github.com/stockkeeper/inventory/internal/inventory/domain"
)

const itemColumns = "id, name, quantity, condition, stock_level"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, item *domain.Item) error {
	r.log.Info("creating inventory item", "name", item.Name)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO inventory (name, quantity, condition, stock_level)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		item.Name, item.Quantity, item.Condition, item.StockLevel,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Item, error) {
	var item domain.Item
	err := r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM inventory WHERE id = $1`, id,
	).Scan(&item.ID, &item.Name, &item.Quantity, &item.Condition, &item.StockLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, application.ErrNotFound
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("query inventory: %w", err)
	}
	return item, nil
}

func (r *Repository) Update(ctx context.Context, item domain.Item) error {
	r.log.Info("updating inventory item", "id", item.ID)
	ct, err := r.pool.Exec(ctx, `
		UPDATE inventory
		SET name = $2, quantity = $3, condition = $4, stock_level = $5
		WHERE id = $1`,
		item.ID, item.Name, item.Quantity, item.Condition, item.StockLevel,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.log.Info("deleting inventory item", "id", id)
	ct, err := r.pool.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

// List applies every supplied filter criterion conjunctively. Order is by id
// so a single read is stable.
func (r *Repository) List(ctx context.Context, filter application.Filter) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory`
	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Name != "" {
		clauses = append(clauses, "name = "+arg(filter.Name))
	}
	if filter.Condition != "" {
		clauses = append(clauses, "condition = "+arg(filter.Condition))
	}
	if filter.StockLevel != "" {
		clauses = append(clauses, "stock_level = "+arg(filter.StockLevel))
	}
	if filter.MinQuantity != nil {
		clauses = append(clauses, "quantity >= "+arg(*filter.MinQuantity))
	}
	if filter.MaxQuantity != nil {
		clauses = append(clauses, "quantity <= "+arg(*filter.MaxQuantity))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Condition, &item.StockLevel); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// Restock applies the delta in a single guarded statement so concurrent
// calls on the same id serialize at the row and never lose an update. A
// zero-row result means either the id is unknown or the delta would make the
// quantity negative; a follow-up read tells the two apart.
func (r *Repository) Restock(ctx context.Context, id int64, delta int) (domain.Item, error) {
	r.log.Info("restocking inventory item", "id", id, "delta", delta)
	var item domain.Item
	err := r.pool.QueryRow(ctx, `
		UPDATE inventory
		SET quantity = quantity + $2
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING `+itemColumns,
		id, delta,
	).Scan(&item.ID, &item.Name, &item.Quantity, &item.Condition, &item.StockLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return domain.Item{}, getErr
		}
		return domain.Item{}, application.ErrNegativeQuantity
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("restock inventory: %w", err)
	}
	return item, nil
}
