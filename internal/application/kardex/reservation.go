package kardex

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ReserveStock retiene stock disponible contra una orden abierta, sin moverlo
// físicamente. Falla con domain.ErrInsufficientStock si la cantidad excede el
// disponible.
func (c *Coordinator) ReserveStock(ctx context.Context, productID, warehouseID string, quantity decimal.Decimal, orderID, userID string) (*MovementResult, error) {
	return c.ApplyMovement(ctx, MovementInput{
		ProductID:      productID,
		WarehouseID:    warehouseID,
		Type:           entity.MovementTypeReserveStock,
		QuantityChange: quantity,
		UnitCost:       decimal.Zero,
		ReferenceID:    orderID,
		ReferenceType:  entity.ReferenceTypeOrder,
		UserID:         userID,
	})
}

// ReleaseStock libera una reserva (cancelación o expiración de la orden).
// Liberar más de lo reservado no falla: el reservado queda en cero y el
// resultado trae OverRelease=true.
func (c *Coordinator) ReleaseStock(ctx context.Context, productID, warehouseID string, quantity decimal.Decimal, orderID, userID string) (*MovementResult, error) {
	return c.ApplyMovement(ctx, MovementInput{
		ProductID:      productID,
		WarehouseID:    warehouseID,
		Type:           entity.MovementTypeReleaseStock,
		QuantityChange: quantity,
		UnitCost:       decimal.Zero,
		ReferenceID:    orderID,
		ReferenceType:  entity.ReferenceTypeOrder,
		UserID:         userID,
	})
}
