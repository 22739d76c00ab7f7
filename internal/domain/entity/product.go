package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseBucket es el stock denormalizado de una bodega dentro del producto.
type WarehouseBucket struct {
	Stock     decimal.Decimal `json:"stock"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
}

// Product representa un producto o SKU del inventario (multi-bodega).
// Los campos de stock y costo son un agregado denormalizado derivado del
// kardex: solo los escribe el coordinador de movimientos, nunca el CRUD.
// AverageCost y TotalInventoryValue se refrescan solo desde la bodega principal.
type Product struct {
	ID                  string
	SKU                 string // código único
	Name                string
	Description         string
	Price               decimal.Decimal // precio de venta
	AverageCost         decimal.Decimal // costo promedio ponderado (bodega principal)
	TotalInventoryValue decimal.Decimal
	StockQuantity       decimal.Decimal // físico global (todas las bodegas)
	AvailableStock      decimal.Decimal // disponible global
	WarehouseStock      map[string]WarehouseBucket
	ReorderPoint        decimal.Decimal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Bucket devuelve el bucket de la bodega indicada, o uno en cero si no existe.
func (p *Product) Bucket(warehouseID string) WarehouseBucket {
	if b, ok := p.WarehouseStock[warehouseID]; ok {
		return b
	}
	return WarehouseBucket{
		Stock:     decimal.Zero,
		Reserved:  decimal.Zero,
		Available: decimal.Zero,
	}
}
