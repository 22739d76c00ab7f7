package entity

import "time"

// DefaultWarehouseID es la bodega principal: la única cuyo costo promedio
// se refleja en los campos globales del producto.
const DefaultWarehouseID = "MAIN"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
