package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia del kardex (append-only).
// No expone update ni delete: las entradas son inmutables una vez creadas.
// Esta capa no valida la secuencia de entradas; la corrección del encadenado
// es responsabilidad del coordinador de movimientos.
type LedgerRepository interface {
	// Append persiste una nueva entrada y devuelve su ID.
	Append(ctx context.Context, entry *entity.LedgerEntry) (string, error)
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	// ListByProduct lista entradas de un producto, más recientes primero.
	// warehouseID vacío considera todas las bodegas.
	ListByProduct(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.LedgerEntry, error)
	// ListByReference lista entradas asociadas a una referencia (orden, OC, etc.).
	ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.LedgerEntry, error)
}
