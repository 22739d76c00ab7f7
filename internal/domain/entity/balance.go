package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance es la proyección mutable del stock por producto+bodega.
// Invariantes: Quantity >= 0; AvailableQuantity = Quantity - ReservedQuantity
// después de cada actualización. Version se usa para concurrencia optimista:
// cada escritura exitosa la incrementa en 1.
type Balance struct {
	ProductID         string
	WarehouseID       string
	Quantity          decimal.Decimal // cantidad física
	ReservedQuantity  decimal.Decimal // retenida contra órdenes abiertas, aún no despachada
	AvailableQuantity decimal.Decimal // Quantity - ReservedQuantity
	AverageCost       decimal.Decimal // costo promedio ponderado
	TotalValue        decimal.Decimal // Quantity * AverageCost
	Version           int64
	LastUpdated       time.Time
}

// NewBalance crea un balance en cero para un producto+bodega.
func NewBalance(productID, warehouseID string) *Balance {
	return &Balance{
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		AvailableQuantity: decimal.Zero,
		AverageCost:       decimal.Zero,
		TotalValue:        decimal.Zero,
	}
}
