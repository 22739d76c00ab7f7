package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Movement describe el cambio a aplicar sobre un balance (entrada del proyector).
type Movement struct {
	Type           string
	QuantityChange decimal.Decimal
	UnitCost       decimal.Decimal
}

// Next es el estado de balance resultante de proyectar un movimiento, junto con
// la foto de costeo que debe quedar registrada en la entrada del kardex.
type Next struct {
	Quantity          decimal.Decimal
	ReservedQuantity  decimal.Decimal
	AvailableQuantity decimal.Decimal
	AverageCost       decimal.Decimal
	TotalValue        decimal.Decimal
	AverageCostBefore decimal.Decimal

	// OverRelease marca que se pidió liberar más de lo reservado. No es un
	// error: el reservado se deja en cero para no bloquear cancelaciones de
	// órdenes, pero el caller debe registrar la advertencia.
	OverRelease bool
}

// CostCalculator implementa el costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// Project aplica un movimiento sobre el balance actual y devuelve el estado
// siguiente. Es una función pura: no hace I/O ni muta b. Reglas:
//
//   - Entradas físicas (PURCHASE, RETURN_IN, INITIAL_LOAD, TRANSFER_IN y
//     ADJUSTMENT positivo) suman cantidad y recalculan el costo promedio si
//     la cantidad y el costo unitario son positivos.
//   - Salidas físicas (RETURN_OUT, TRANSFER_OUT, ADJUSTMENT negativo) restan
//     cantidad al costo promedio vigente, sin recálculo.
//   - SALE consume primero el reservado y el resto del disponible.
//   - RESERVE_STOCK retiene disponible; RELEASE_STOCK lo devuelve, con el
//     reservado acotado en cero si se libera de más (OverRelease).
//
// Falla con domain.ErrInsufficientStock cuando una deducción física dejaría
// la cantidad en negativo o por debajo del reservado, o cuando una reserva
// excede el disponible.
func Project(b *entity.Balance, mov Movement) (Next, error) {
	qty := b.Quantity
	reserved := b.ReservedQuantity
	avg := b.AverageCost
	overRelease := false

	switch mov.Type {
	case entity.MovementTypePurchase, entity.MovementTypeReturnIn,
		entity.MovementTypeInitialLoad, entity.MovementTypeTransferIn:
		if mov.QuantityChange.GreaterThan(decimal.Zero) && mov.UnitCost.GreaterThan(decimal.Zero) {
			avg = CostCalculator(qty, avg, mov.QuantityChange, mov.UnitCost)
		}
		qty = qty.Add(mov.QuantityChange)

	case entity.MovementTypeAdjustment:
		if mov.QuantityChange.GreaterThan(decimal.Zero) && mov.UnitCost.GreaterThan(decimal.Zero) {
			avg = CostCalculator(qty, avg, mov.QuantityChange, mov.UnitCost)
		}
		qty = qty.Add(mov.QuantityChange)

	case entity.MovementTypeReturnOut, entity.MovementTypeTransferOut:
		qty = qty.Add(mov.QuantityChange)

	case entity.MovementTypeSale:
		out := mov.QuantityChange.Abs()
		qty = qty.Sub(out)
		// La venta consume primero lo reservado; el resto sale del disponible.
		consumed := decimal.Min(reserved, out)
		reserved = reserved.Sub(consumed)

	case entity.MovementTypeReserveStock:
		available := qty.Sub(reserved)
		if mov.QuantityChange.GreaterThan(available) {
			return Next{}, domain.ErrInsufficientStock
		}
		reserved = reserved.Add(mov.QuantityChange)

	case entity.MovementTypeReleaseStock:
		if mov.QuantityChange.GreaterThan(reserved) {
			// Liberar de más no bloquea la cancelación de la orden: se acota
			// en cero y se reporta como advertencia de integridad.
			overRelease = true
			reserved = decimal.Zero
		} else {
			reserved = reserved.Sub(mov.QuantityChange)
		}

	default:
		return Next{}, domain.ErrInvalidInput
	}

	// Una salida física no puede dejar la cantidad en negativo ni tocar lo que
	// está comprometido en reservas: reservado <= físico siempre.
	if qty.IsNegative() || qty.LessThan(reserved) {
		return Next{}, domain.ErrInsufficientStock
	}

	return Next{
		Quantity:          qty,
		ReservedQuantity:  reserved,
		AvailableQuantity: qty.Sub(reserved),
		AverageCost:       avg,
		TotalValue:        qty.Mul(avg),
		AverageCostBefore: b.AverageCost,
		OverRelease:       overRelease,
	}, nil
}
