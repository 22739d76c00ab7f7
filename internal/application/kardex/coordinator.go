package kardex

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domkardex "github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Config parámetros del coordinador de movimientos.
type Config struct {
	MaxRetries       int    // presupuesto de reintentos optimistas por movimiento
	DefaultWarehouse string // bodega usada cuando el caller no indica una
}

// Coordinator aplica movimientos de inventario de forma atómica. Por cada
// movimiento escribe, en una sola transacción: la entrada inmutable del
// kardex, la proyección de balance (con chequeo de versión optimista) y el
// agregado denormalizado del producto (por delta). Ante un conflicto de
// versión o un fallo de serialización reintenta la transacción completa
// hasta agotar el presupuesto, y entonces devuelve ErrConcurrencyConflict.
type Coordinator struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
	cfg           Config
}

// NewCoordinator construye el coordinador.
func NewCoordinator(txRunner TxRunner, warehouseRepo repository.WarehouseRepository, log *logger.Logger, cfg Config) *Coordinator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.DefaultWarehouse == "" {
		cfg.DefaultWarehouse = entity.DefaultWarehouseID
	}
	return &Coordinator{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		log:           log,
		cfg:           cfg,
	}
}

// MovementInput entrada para aplicar un movimiento de inventario.
// QuantityChange es firmada para tipos físicos (positivo = entrada, negativo
// = salida); para RESERVE_STOCK/RELEASE_STOCK debe ser positiva.
type MovementInput struct {
	ProductID      string
	WarehouseID    string // vacío = bodega por defecto
	Type           string
	QuantityChange decimal.Decimal
	UnitCost       decimal.Decimal
	ReferenceID    string
	ReferenceType  string
	UserID         string
	Notes          string
}

// MovementResult resultado de un movimiento aplicado.
type MovementResult struct {
	EntryID     string
	Balance     entity.Balance
	OverRelease bool // se liberó más de lo reservado; reservado quedó en cero
}

// ApplyMovement valida la entrada y aplica el movimiento dentro de una
// transacción con reintentos optimistas. Errores: domain.ErrInvalidInput,
// domain.ErrNotFound (producto o bodega), domain.ErrInsufficientStock y
// domain.ErrConcurrencyConflict (presupuesto de reintentos agotado).
func (c *Coordinator) ApplyMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	warehouseID := in.WarehouseID
	if warehouseID == "" {
		warehouseID = c.cfg.DefaultWarehouse
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	wh, err := c.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	var res *MovementResult
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 15 * time.Millisecond):
			}
		}

		err = c.txRunner.Run(ctx, func(
			ledgerRepo repository.LedgerRepository,
			balanceRepo repository.BalanceRepository,
			productRepo repository.ProductRepository,
		) error {
			applied, txErr := c.applyInTx(ctx, ledgerRepo, balanceRepo, productRepo, in, warehouseID)
			if txErr != nil {
				return txErr
			}
			res = applied
			return nil
		})
		if err == nil {
			c.logApplied(in, warehouseID, res)
			return res, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		c.log.Debug().
			Str("product_id", in.ProductID).
			Str("warehouse_id", warehouseID).
			Int("attempt", attempt+1).
			Msg("conflicto de concurrencia, reintentando movimiento")
	}
	return nil, domain.ErrConcurrencyConflict
}

// applyInTx ejecuta un intento del movimiento con los repos atados a la tx:
// bloquea el producto, lee el balance (o lo siembra desde el agregado legado),
// proyecta el estado siguiente y persiste entrada + balance + agregado.
func (c *Coordinator) applyInTx(
	ctx context.Context,
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
	warehouseID string,
) (*MovementResult, error) {
	// Bloquea la fila del producto: serializa movimientos del mismo producto
	// y estabiliza la lectura del agregado denormalizado.
	product, err := productRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	bal, err := balanceRepo.Get(ctx, in.ProductID, warehouseID)
	if err != nil {
		return nil, err
	}
	expectedVersion := int64(0)
	if bal == nil {
		// Fallback de migración: el par producto+bodega aún no tiene balance
		// propio; se siembra desde los campos legados del agregado.
		bal = seedFromProduct(product, warehouseID)
	} else {
		expectedVersion = bal.Version
	}

	quantityChange := normalizeQuantity(in.Type, in.QuantityChange)
	unitCost := in.UnitCost
	if unitCost.IsZero() && isOutboundAtAverage(in.Type) {
		// Las salidas se valoran al costo promedio vigente, como hace el
		// recibo de la factura: el caller no conoce el costo contable.
		unitCost = bal.AverageCost
	}

	next, err := domkardex.Project(bal, domkardex.Movement{
		Type:           in.Type,
		QuantityChange: quantityChange,
		UnitCost:       unitCost,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &entity.LedgerEntry{
		ProductID:         in.ProductID,
		WarehouseID:       warehouseID,
		Type:              in.Type,
		QuantityChange:    quantityChange,
		BalanceAfter:      next.Quantity,
		UnitCost:          unitCost,
		AverageCostBefore: next.AverageCostBefore,
		AverageCostAfter:  next.AverageCost,
		ReferenceID:       in.ReferenceID,
		ReferenceType:     in.ReferenceType,
		UserID:            in.UserID,
		Notes:             in.Notes,
		CreatedAt:         now,
	}
	entryID, err := ledgerRepo.Append(ctx, entry)
	if err != nil {
		return nil, err
	}

	updated := &entity.Balance{
		ProductID:         in.ProductID,
		WarehouseID:       warehouseID,
		Quantity:          next.Quantity,
		ReservedQuantity:  next.ReservedQuantity,
		AvailableQuantity: next.AvailableQuantity,
		AverageCost:       next.AverageCost,
		TotalValue:        next.TotalValue,
		Version:           expectedVersion + 1,
		LastUpdated:       now,
	}
	if err := balanceRepo.UpsertVersioned(ctx, updated, expectedVersion); err != nil {
		return nil, err
	}

	delta := repository.StockDelta{
		WarehouseID: warehouseID,
		Bucket: entity.WarehouseBucket{
			Stock:     next.Quantity,
			Reserved:  next.ReservedQuantity,
			Available: next.AvailableQuantity,
		},
		QuantityDelta:  next.Quantity.Sub(bal.Quantity),
		AvailableDelta: next.AvailableQuantity.Sub(bal.AvailableQuantity),
	}
	if warehouseID == c.cfg.DefaultWarehouse {
		delta.RefreshCost = true
		delta.AverageCost = next.AverageCost
		delta.TotalValue = next.TotalValue
	}
	if err := productRepo.ApplyStockDelta(ctx, in.ProductID, delta); err != nil {
		return nil, err
	}

	return &MovementResult{
		EntryID:     entryID,
		Balance:     *updated,
		OverRelease: next.OverRelease,
	}, nil
}

func (c *Coordinator) logApplied(in MovementInput, warehouseID string, res *MovementResult) {
	if res.OverRelease {
		c.log.Warn().
			Str("product_id", in.ProductID).
			Str("warehouse_id", warehouseID).
			Str("reference_id", in.ReferenceID).
			Msg("liberación mayor al reservado; reservado acotado en cero")
	}
	c.log.Debug().
		Str("entry_id", res.EntryID).
		Str("product_id", in.ProductID).
		Str("warehouse_id", warehouseID).
		Str("type", in.Type).
		Str("quantity", in.QuantityChange.String()).
		Str("balance_after", res.Balance.Quantity.String()).
		Msg("movimiento aplicado")
}

// validateInput valida tipo y convenciones de signo antes de abrir transacción.
func validateInput(in MovementInput) error {
	if in.ProductID == "" || !entity.IsValidMovementType(in.Type) {
		return domain.ErrInvalidInput
	}
	if in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.MovementTypePurchase, entity.MovementTypeReturnIn,
		entity.MovementTypeInitialLoad, entity.MovementTypeTransferIn:
		if !in.QuantityChange.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeReturnOut, entity.MovementTypeTransferOut:
		if !in.QuantityChange.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeAdjustment, entity.MovementTypeSale:
		if in.QuantityChange.IsZero() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeReserveStock, entity.MovementTypeReleaseStock:
		if !in.QuantityChange.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	if in.ReferenceType != "" && !isValidReferenceType(in.ReferenceType) {
		return domain.ErrInvalidInput
	}
	return nil
}

func isValidReferenceType(t string) bool {
	switch t {
	case entity.ReferenceTypeOrder, entity.ReferenceTypePurchaseOrder,
		entity.ReferenceTypeAdjustment, entity.ReferenceTypeReturn:
		return true
	}
	return false
}

// normalizeQuantity fija la convención de signo que queda en el kardex:
// las ventas siempre negativas, reservas/liberaciones siempre positivas.
func normalizeQuantity(movType string, qty decimal.Decimal) decimal.Decimal {
	switch movType {
	case entity.MovementTypeSale:
		return qty.Abs().Neg()
	case entity.MovementTypeReserveStock, entity.MovementTypeReleaseStock:
		return qty.Abs()
	}
	return qty
}

func isOutboundAtAverage(movType string) bool {
	switch movType {
	case entity.MovementTypeSale, entity.MovementTypeReturnOut, entity.MovementTypeTransferOut:
		return true
	}
	return false
}

// seedFromProduct arma el balance inicial desde el bucket legado del producto.
func seedFromProduct(product *entity.Product, warehouseID string) *entity.Balance {
	bucket := product.Bucket(warehouseID)
	b := entity.NewBalance(product.ID, warehouseID)
	b.Quantity = bucket.Stock
	b.ReservedQuantity = bucket.Reserved
	b.AvailableQuantity = bucket.Stock.Sub(bucket.Reserved)
	b.AverageCost = product.AverageCost
	b.TotalValue = bucket.Stock.Mul(product.AverageCost)
	return b
}
