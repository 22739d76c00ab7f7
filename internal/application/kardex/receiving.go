package kardex

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PurchaseLine una línea de orden de compra a recibir.
type PurchaseLine struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// ReceivePurchaseInput recepción de una orden de compra completa.
type ReceivePurchaseInput struct {
	PurchaseOrderID string
	UserID          string
	Notes           string
	Lines           []PurchaseLine
}

// ReceivePurchaseOrder aplica un movimiento PURCHASE por cada línea recibida.
// Cada línea es su propia unidad atómica (igual que el recibo de mercancía
// del flujo original): si una línea falla, las anteriores quedan aplicadas y
// se devuelve el error con la línea que falló.
func (c *Coordinator) ReceivePurchaseOrder(ctx context.Context, in ReceivePurchaseInput) ([]string, error) {
	entryIDs := make([]string, 0, len(in.Lines))
	for i, line := range in.Lines {
		res, err := c.ApplyMovement(ctx, MovementInput{
			ProductID:      line.ProductID,
			WarehouseID:    line.WarehouseID,
			Type:           entity.MovementTypePurchase,
			QuantityChange: line.Quantity,
			UnitCost:       line.UnitCost,
			ReferenceID:    in.PurchaseOrderID,
			ReferenceType:  entity.ReferenceTypePurchaseOrder,
			UserID:         in.UserID,
			Notes:          in.Notes,
		})
		if err != nil {
			return entryIDs, fmt.Errorf("línea %d (producto %s): %w", i+1, line.ProductID, err)
		}
		entryIDs = append(entryIDs, res.EntryID)
	}
	return entryIDs, nil
}
