package kardex

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// QueryUseCase lecturas del kardex para pantallas: balance puntual, historial
// y reporte de bajo stock. Las lecturas no son transaccionales y pueden ir
// levemente detrás de una escritura concurrente; son rutas de presentación,
// no contables.
type QueryUseCase struct {
	balanceRepo repository.BalanceRepository
	ledgerRepo  repository.LedgerRepository
	productRepo repository.ProductRepository
}

// NewQueryUseCase construye la fachada de consultas.
func NewQueryUseCase(
	balanceRepo repository.BalanceRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) *QueryUseCase {
	return &QueryUseCase{
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
	}
}

// GetBalance devuelve el balance actual del par producto+bodega, o nil si
// nunca se ha movido.
func (uc *QueryUseCase) GetBalance(ctx context.Context, productID, warehouseID string) (*entity.Balance, error) {
	if warehouseID == "" {
		warehouseID = entity.DefaultWarehouseID
	}
	return uc.balanceRepo.Get(ctx, productID, warehouseID)
}

// GetHistory devuelve entradas del kardex de un producto, más recientes
// primero. warehouseID vacío considera todas las bodegas.
func (uc *QueryUseCase) GetHistory(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByProduct(ctx, productID, warehouseID, limit, offset)
}

// KardexRow una fila del kardex para pantalla, con el saldo corrido
// reconstruido hacia atrás.
type KardexRow struct {
	Entry           *entity.LedgerEntry
	RunningQuantity decimal.Decimal // física después de esta entrada
	RunningValue    decimal.Decimal // RunningQuantity * costo promedio de la entrada
}

// Kardex devuelve el historial con una serie de saldo corrido, reconstruida
// recorriendo las entradas de la más reciente a la más antigua y revirtiendo
// el delta físico de cada una. Es un cálculo derivado, solo para pantalla:
// una aproximación para valoración histórica, nunca el sistema de registro
// (el kardex mismo lo es), y no se revalida contra él.
func (uc *QueryUseCase) Kardex(ctx context.Context, productID, warehouseID string, limit, offset int) ([]KardexRow, error) {
	if warehouseID == "" {
		warehouseID = entity.DefaultWarehouseID
	}
	entries, err := uc.ledgerRepo.ListByProduct(ctx, productID, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []KardexRow{}, nil
	}

	running := decimal.Zero
	bal, err := uc.balanceRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if bal != nil {
		running = bal.Quantity
	} else {
		// Sin balance materializado: parte de la foto de la entrada más reciente.
		running = entries[0].BalanceAfter
	}

	rows := make([]KardexRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, KardexRow{
			Entry:           e,
			RunningQuantity: running,
			RunningValue:    running.Mul(e.AverageCostAfter),
		})
		if entity.IsPhysicalMovementType(e.Type) {
			running = running.Sub(e.QuantityChange)
		}
	}
	return rows, nil
}

// GetByReference devuelve las entradas del kardex asociadas a una referencia
// externa (orden, orden de compra, ajuste, devolución), para trazabilidad.
func (uc *QueryUseCase) GetByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByReference(ctx, referenceType, referenceID)
}

// ListWarehouseBalances lista los balances de una bodega con paginación.
func (uc *QueryUseCase) ListWarehouseBalances(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Balance, error) {
	if warehouseID == "" {
		warehouseID = entity.DefaultWarehouseID
	}
	return uc.balanceRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// LowStock devuelve los productos con disponible por debajo de su punto de
// reorden, mayor déficit primero.
func (uc *QueryUseCase) LowStock(ctx context.Context) ([]repository.LowStockItem, error) {
	return uc.productRepo.ListBelowReorderPoint(ctx)
}
