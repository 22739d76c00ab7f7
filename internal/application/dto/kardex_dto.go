package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest body para POST /api/inventory/movements.
// quantity_change es firmada para tipos físicos (positivo entrada, negativo
// salida); para RESERVE_STOCK/RELEASE_STOCK debe ser positiva.
type ApplyMovementRequest struct {
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id,omitempty"`
	Type           string          `json:"type"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	UnitCost       decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// ReservationRequest body para reservar o liberar stock contra una orden.
type ReservationRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	OrderID     string          `json:"order_id"`
}

// PurchaseLineRequest una línea de la orden de compra a recibir.
type PurchaseLineRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// ReceivePurchaseRequest body para recibir una orden de compra completa.
type ReceivePurchaseRequest struct {
	PurchaseOrderID string                `json:"purchase_order_id"`
	Notes           string                `json:"notes,omitempty"`
	Lines           []PurchaseLineRequest `json:"lines"`
}

// BalanceResponse balance actual de un producto en una bodega.
type BalanceResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	LastUpdated       time.Time       `json:"last_updated"`
}

// MovementResponse resultado de aplicar un movimiento.
type MovementResponse struct {
	EntryID string          `json:"entry_id"`
	Balance BalanceResponse `json:"balance"`
	Warning string          `json:"warning,omitempty"`
}

// LedgerEntryResponse una entrada del kardex.
type LedgerEntryResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	Type              string          `json:"type"`
	QuantityChange    decimal.Decimal `json:"quantity_change"`
	BalanceAfter      decimal.Decimal `json:"balance_after"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	AverageCostBefore decimal.Decimal `json:"average_cost_before"`
	AverageCostAfter  decimal.Decimal `json:"average_cost_after"`
	ReferenceID       string          `json:"reference_id,omitempty"`
	ReferenceType     string          `json:"reference_type,omitempty"`
	UserID            string          `json:"user_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// KardexRowResponse fila del kardex con saldo corrido (solo pantalla;
// aproximación para valoración histórica).
type KardexRowResponse struct {
	Entry           LedgerEntryResponse `json:"entry"`
	RunningQuantity decimal.Decimal     `json:"running_quantity"`
	RunningValue    decimal.Decimal     `json:"running_value"`
}

// LowStockItemResponse producto bajo su punto de reorden.
type LowStockItemResponse struct {
	ProductID      string          `json:"product_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	ReorderPoint   decimal.Decimal `json:"reorder_point"`
	AverageCost    decimal.Decimal `json:"average_cost"`
}
