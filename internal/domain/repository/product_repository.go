package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockDelta describe la actualización del agregado denormalizado de un
// producto tras un movimiento: deltas para los totales globales (se suman,
// nunca se sobreescriben, para preservar el aporte de otras bodegas) y el
// bucket nuevo de la bodega afectada (se reemplaza solo ese bucket).
type StockDelta struct {
	WarehouseID    string
	Bucket         entity.WarehouseBucket // valores nuevos del bucket de la bodega
	QuantityDelta  decimal.Decimal        // se suma a stock_quantity global
	AvailableDelta decimal.Decimal        // se suma a available_stock global

	// RefreshCost indica que la bodega es la principal: además se refrescan
	// average_cost y total_inventory_value visibles globalmente.
	RefreshCost bool
	AverageCost decimal.Decimal
	TotalValue  decimal.Decimal
}

// LowStockItem resultado crudo del repositorio para un producto bajo reorden.
type LowStockItem struct {
	ProductID      string
	SKU            string
	Name           string
	AvailableStock decimal.Decimal
	ReorderPoint   decimal.Decimal
	AverageCost    decimal.Decimal
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los campos de stock/costo solo se escriben vía ApplyStockDelta, dentro de
// la transacción del coordinador.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ApplyStockDelta(ctx context.Context, productID string, delta StockDelta) error
	// ListBelowReorderPoint devuelve productos con disponible bajo su punto
	// de reorden, mayor déficit primero.
	ListBelowReorderPoint(ctx context.Context) ([]LowStockItem, error)
}
