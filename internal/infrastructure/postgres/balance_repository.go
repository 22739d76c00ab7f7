package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación del puerto BalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de balances. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el balance de un producto en una bodega, o nil si el par nunca
// se ha movido.
func (r *BalanceRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Balance, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved_quantity, available_quantity, average_cost, total_value, version, last_updated
		FROM balances WHERE product_id = $1 AND warehouse_id = $2`
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&b.ProductID, &b.WarehouseID, &b.Quantity, &b.ReservedQuantity,
		&b.AvailableQuantity, &b.AverageCost, &b.TotalValue, &b.Version, &b.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// UpsertVersioned inserta o actualiza el balance con chequeo de versión
// optimista. El INSERT cubre el primer movimiento del par (expectedVersion 0);
// si la fila existe, el UPDATE solo aplica cuando la versión en BD sigue
// siendo la leída. Cero filas afectadas significa que otro escritor se
// adelantó: domain.ErrConcurrencyConflict.
func (r *BalanceRepo) UpsertVersioned(ctx context.Context, balance *entity.Balance, expectedVersion int64) error {
	query := `
		INSERT INTO balances (product_id, warehouse_id, quantity, reserved_quantity, available_quantity, average_cost, total_value, version, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			available_quantity = EXCLUDED.available_quantity,
			average_cost = EXCLUDED.average_cost,
			total_value = EXCLUDED.total_value,
			version = EXCLUDED.version,
			last_updated = now()
		WHERE balances.version = $9`
	cmd, err := r.q.Exec(ctx, query,
		balance.ProductID, balance.WarehouseID, balance.Quantity,
		balance.ReservedQuantity, balance.AvailableQuantity,
		balance.AverageCost, balance.TotalValue, expectedVersion+1,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// ListByWarehouse lista balances de una bodega con paginación.
func (r *BalanceRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Balance, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved_quantity, available_quantity, average_cost, total_value, version, last_updated
		FROM balances WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ProductID, &b.WarehouseID, &b.Quantity, &b.ReservedQuantity,
			&b.AvailableQuantity, &b.AverageCost, &b.TotalValue, &b.Version, &b.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
