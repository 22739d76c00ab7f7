package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementTypePurchase     = "PURCHASE"      // recepción de orden de compra
	MovementTypeSale         = "SALE"          // salida por venta (despacho)
	MovementTypeAdjustment   = "ADJUSTMENT"    // ajuste manual, firmado
	MovementTypeReturnIn     = "RETURN_IN"     // devolución de cliente
	MovementTypeReturnOut    = "RETURN_OUT"    // devolución a proveedor
	MovementTypeTransferIn   = "TRANSFER_IN"   // entrada por traslado entre bodegas
	MovementTypeTransferOut  = "TRANSFER_OUT"  // salida por traslado entre bodegas
	MovementTypeInitialLoad  = "INITIAL_LOAD"  // carga inicial de inventario
	MovementTypeReserveStock = "RESERVE_STOCK" // reserva contra una orden abierta
	MovementTypeReleaseStock = "RELEASE_STOCK" // liberación de una reserva
)

// Tipos de referencia para trazabilidad del movimiento.
const (
	ReferenceTypeOrder         = "ORDER"
	ReferenceTypePurchaseOrder = "PURCHASE_ORDER"
	ReferenceTypeAdjustment    = "ADJUSTMENT"
	ReferenceTypeReturn        = "RETURN"
)

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeAdjustment,
		MovementTypeReturnIn, MovementTypeReturnOut,
		MovementTypeTransferIn, MovementTypeTransferOut,
		MovementTypeInitialLoad, MovementTypeReserveStock, MovementTypeReleaseStock:
		return true
	}
	return false
}

// IsPhysicalMovementType indica si t mueve cantidad física.
// RESERVE_STOCK y RELEASE_STOCK solo mueven cantidad reservada.
func IsPhysicalMovementType(t string) bool {
	return t != MovementTypeReserveStock && t != MovementTypeReleaseStock
}

// LedgerEntry representa una entrada inmutable del kardex (append-only).
// Las entradas nunca se modifican ni se borran después de crearse: son el
// sistema de registro. Quantity es firmada para tipos físicos (positivo =
// entrada, negativo = salida); para RESERVE_STOCK/RELEASE_STOCK siempre es
// no-negativa y representa la cantidad reservada o liberada.
type LedgerEntry struct {
	ID                string
	ProductID         string
	WarehouseID       string
	Type              string
	QuantityChange    decimal.Decimal
	BalanceAfter      decimal.Decimal // cantidad física inmediatamente después de esta entrada
	UnitCost          decimal.Decimal
	AverageCostBefore decimal.Decimal
	AverageCostAfter  decimal.Decimal
	ReferenceID       string
	ReferenceType     string // ORDER, PURCHASE_ORDER, ADJUSTMENT, RETURN
	UserID            string
	Notes             string
	CreatedAt         time.Time
}
