package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). warehouse_stock vive como JSONB: un bucket por
// bodega, reemplazado con jsonb_set en ApplyStockDelta.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, description, price, average_cost, total_inventory_value, stock_quantity, available_stock, warehouse_stock, reorder_point, created_at, updated_at`

// Create persiste un nuevo producto. Stock y costo inician en 0.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	stockJSON, err := json.Marshal(product.WarehouseStock)
	if err != nil {
		return fmt.Errorf("marshal warehouse_stock: %w", err)
	}
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description, product.Price,
		product.AverageCost, product.TotalInventoryValue, product.StockQuantity,
		product.AvailableStock, stockJSON, product.ReorderPoint,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, query, id, "get product")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Serializa los movimientos concurrentes del mismo producto.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id, "get product for update")
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.getOne(ctx, query, sku, "get product by sku")
}

func (r *ProductRepo) getOne(ctx context.Context, query, arg, op string) (*entity.Product, error) {
	product, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

// Update actualiza los campos comerciales del producto. No toca stock ni
// costo: esos solo los escribe ApplyStockDelta dentro de la tx del coordinador.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, reorder_point = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.ReorderPoint, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, product)
	}
	return list, rows.Err()
}

// ApplyStockDelta actualiza el agregado denormalizado tras un movimiento:
// reemplaza solo el bucket de la bodega afectada e incrementa los totales
// globales por delta, preservando el aporte de las otras bodegas. El costo
// promedio visible solo se refresca cuando la bodega es la principal.
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, productID string, delta repository.StockDelta) error {
	bucketJSON, err := json.Marshal(delta.Bucket)
	if err != nil {
		return fmt.Errorf("marshal bucket: %w", err)
	}
	query := `
		UPDATE products SET
			warehouse_stock = jsonb_set(COALESCE(warehouse_stock, '{}'::jsonb), ARRAY[$2::text], $3::jsonb, true),
			stock_quantity = stock_quantity + $4,
			available_stock = available_stock + $5,
			average_cost = CASE WHEN $6 THEN $7 ELSE average_cost END,
			total_inventory_value = CASE WHEN $6 THEN $8 ELSE total_inventory_value END,
			updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		productID, delta.WarehouseID, bucketJSON,
		delta.QuantityDelta, delta.AvailableDelta,
		delta.RefreshCost, delta.AverageCost, delta.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBelowReorderPoint devuelve productos con disponible bajo su punto de
// reorden, mayor déficit primero.
func (r *ProductRepo) ListBelowReorderPoint(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT id, sku, name, available_stock, reorder_point, average_cost
		FROM products
		WHERE reorder_point > 0 AND available_stock < reorder_point
		ORDER BY (reorder_point - available_stock) DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list below reorder point: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		var item repository.LowStockItem
		if err := rows.Scan(&item.ProductID, &item.SKU, &item.Name,
			&item.AvailableStock, &item.ReorderPoint, &item.AverageCost); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var stockJSON []byte
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.AverageCost, &p.TotalInventoryValue, &p.StockQuantity,
		&p.AvailableStock, &stockJSON, &p.ReorderPoint,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.WarehouseStock = map[string]entity.WarehouseBucket{}
	if len(stockJSON) > 0 {
		if err := json.Unmarshal(stockJSON, &p.WarehouseStock); err != nil {
			return nil, fmt.Errorf("unmarshal warehouse_stock: %w", err)
		}
	}
	return &p, nil
}
