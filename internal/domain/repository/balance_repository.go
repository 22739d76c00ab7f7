package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// BalanceRepository define el puerto para la proyección de balances por
// producto+bodega. Las escrituras usan concurrencia optimista: cada upsert
// exige la versión leída y falla con domain.ErrConcurrencyConflict si otro
// escritor se adelantó.
type BalanceRepository interface {
	// Get devuelve el balance actual o nil si nunca se ha movido el par.
	Get(ctx context.Context, productID, warehouseID string) (*entity.Balance, error)
	// UpsertVersioned inserta o actualiza el balance. expectedVersion es la
	// versión leída (0 para un balance nuevo); la fila queda con
	// expectedVersion+1. Si la versión en BD no coincide devuelve
	// domain.ErrConcurrencyConflict sin escribir nada.
	UpsertVersioned(ctx context.Context, balance *entity.Balance, expectedVersion int64) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Balance, error)
}
