package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ReorderPoint decimal.Decimal `json:"reorder_point,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// No permite tocar stock ni costo: esos campos solo los escribe el kardex.
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ReorderPoint decimal.Decimal `json:"reorder_point,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID                  string                            `json:"id"`
	SKU                 string                            `json:"sku"`
	Name                string                            `json:"name"`
	Description         string                            `json:"description,omitempty"`
	Price               decimal.Decimal                   `json:"price"`
	AverageCost         decimal.Decimal                   `json:"average_cost"`
	TotalInventoryValue decimal.Decimal                   `json:"total_inventory_value"`
	StockQuantity       decimal.Decimal                   `json:"stock_quantity"`
	AvailableStock      decimal.Decimal                   `json:"available_stock"`
	WarehouseStock      map[string]entity.WarehouseBucket `json:"warehouse_stock,omitempty"`
	ReorderPoint        decimal.Decimal                   `json:"reorder_point"`
	CreatedAt           time.Time                         `json:"created_at"`
	UpdatedAt           time.Time                         `json:"updated_at"`
}

// ToProductResponse mapea la entidad al DTO.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                  p.ID,
		SKU:                 p.SKU,
		Name:                p.Name,
		Description:         p.Description,
		Price:               p.Price,
		AverageCost:         p.AverageCost,
		TotalInventoryValue: p.TotalInventoryValue,
		StockQuantity:       p.StockQuantity,
		AvailableStock:      p.AvailableStock,
		WarehouseStock:      p.WarehouseStock,
		ReorderPoint:        p.ReorderPoint,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
