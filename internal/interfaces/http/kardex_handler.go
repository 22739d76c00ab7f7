package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// KardexHandler maneja las peticiones HTTP del kardex: movimientos, reservas,
// recepción de compras y consultas (protegido).
type KardexHandler struct {
	coordinator *kardex.Coordinator
	query       *kardex.QueryUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(coordinator *kardex.Coordinator, query *kardex.QueryUseCase) *KardexHandler {
	return &KardexHandler{coordinator: coordinator, query: query}
}

// ApplyMovement godoc
// @Summary      Aplicar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "product_id, warehouse_id, type, quantity_change, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *KardexHandler) ApplyMovement(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.coordinator.ApplyMovement(c.Context(), kardex.MovementInput{
		ProductID:      in.ProductID,
		WarehouseID:    in.WarehouseID,
		Type:           in.Type,
		QuantityChange: in.QuantityChange,
		UnitCost:       in.UnitCost,
		ReferenceID:    in.ReferenceID,
		ReferenceType:  in.ReferenceType,
		UserID:         GetUserID(c),
		Notes:          in.Notes,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(res))
}

// Reserve godoc
// @Summary      Reservar stock contra una orden
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, warehouse_id, quantity, order_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *KardexHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.coordinator.ReserveStock(c.Context(), in.ProductID, in.WarehouseID, in.Quantity, in.OrderID, GetUserID(c))
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(res))
}

// Release godoc
// @Summary      Liberar una reserva de stock
// @Description  Liberar más de lo reservado no falla: el reservado queda en cero y la respuesta trae warning.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, warehouse_id, quantity, order_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/release [post]
func (h *KardexHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.coordinator.ReleaseStock(c.Context(), in.ProductID, in.WarehouseID, in.Quantity, in.OrderID, GetUserID(c))
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(res))
}

// ReceivePurchase godoc
// @Summary      Recibir una orden de compra
// @Description  Aplica un movimiento PURCHASE por línea. Cada línea es su propia unidad atómica.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceivePurchaseRequest  true  "purchase_order_id, lines"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchase-orders/receive [post]
func (h *KardexHandler) ReceivePurchase(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PurchaseOrderID == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "purchase_order_id y lines son requeridos"})
	}
	lines := make([]kardex.PurchaseLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, kardex.PurchaseLine{
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
		})
	}
	entryIDs, err := h.coordinator.ReceivePurchaseOrder(c.Context(), kardex.ReceivePurchaseInput{
		PurchaseOrderID: in.PurchaseOrderID,
		UserID:          GetUserID(c),
		Notes:           in.Notes,
		Lines:           lines,
	})
	if err != nil {
		// Las líneas ya aplicadas quedan en la respuesta para conciliación.
		status := fiber.StatusInternalServerError
		code := "INTERNAL"
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			status, code = fiber.StatusBadRequest, "VALIDATION"
		case errors.Is(err, domain.ErrNotFound):
			status, code = fiber.StatusNotFound, "NOT_FOUND"
		case errors.Is(err, domain.ErrConcurrencyConflict):
			status, code = fiber.StatusConflict, "CONCURRENCY_CONFLICT"
		}
		return c.Status(status).JSON(fiber.Map{
			"error":       dto.ErrorResponse{Code: code, Message: err.Error()},
			"applied_ids": entryIDs,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry_ids": entryIDs})
}

// GetBalance godoc
// @Summary      Balance actual de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = principal)"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *KardexHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	bal, err := h.query.GetBalance(c.Context(), productID, c.Query("warehouse_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if bal == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el producto no registra movimientos en esa bodega"})
	}
	return c.JSON(toBalanceResponse(bal))
}

// GetKardex godoc
// @Summary      Kardex de un producto con saldo corrido
// @Description  Saldo reconstruido hacia atrás desde el balance actual; solo pantalla.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = principal)"
// @Param        limit         query  int     false  "Máximo de filas"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.KardexRowResponse
// @Router       /api/inventory/kardex/{productId} [get]
func (h *KardexHandler) GetKardex(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	rows, err := h.query.Kardex(c.Context(), c.Params("productId"), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.KardexRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.KardexRowResponse{
			Entry:           toLedgerEntryResponse(row.Entry),
			RunningQuantity: row.RunningQuantity,
			RunningValue:    row.RunningValue,
		})
	}
	return c.JSON(out)
}

// GetHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Param        limit         query  int     false  "Máximo de filas"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Router       /api/inventory/history/{productId} [get]
func (h *KardexHandler) GetHistory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	entries, err := h.query.GetHistory(c.Context(), c.Params("productId"), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// GetByReference godoc
// @Summary      Entradas del kardex por referencia externa
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "ORDER, PURCHASE_ORDER, ADJUSTMENT o RETURN"
// @Param        id    path  string  true  "ID de la referencia"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/inventory/references/{type}/{id} [get]
func (h *KardexHandler) GetByReference(c *fiber.Ctx) error {
	entries, err := h.query.GetByReference(c.Context(), c.Params("type"), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// WarehouseBalances godoc
// @Summary      Balances de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path   string  true   "Bodega"
// @Param        limit        query  int     false  "Máximo de filas"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/inventory/warehouses/{warehouseId}/balances [get]
func (h *KardexHandler) WarehouseBalances(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	balances, err := h.query.ListWarehouseBalances(c.Context(), c.Params("warehouseId"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos bajo su punto de reorden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/inventory/low-stock [get]
func (h *KardexHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.query.LowStock(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.LowStockItemResponse{
			ProductID:      item.ProductID,
			SKU:            item.SKU,
			Name:           item.Name,
			AvailableStock: item.AvailableStock,
			ReorderPoint:   item.ReorderPoint,
			AverageCost:    item.AverageCost,
		})
	}
	return c.JSON(out)
}

// kardexError traduce errores del dominio a códigos HTTP.
func kardexError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o bodega no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toMovementResponse(res *kardex.MovementResult) dto.MovementResponse {
	out := dto.MovementResponse{
		EntryID: res.EntryID,
		Balance: toBalanceResponse(&res.Balance),
	}
	if res.OverRelease {
		out.Warning = "se liberó más de lo reservado; el reservado quedó en cero"
	}
	return out
}

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProductID:         b.ProductID,
		WarehouseID:       b.WarehouseID,
		Quantity:          b.Quantity,
		ReservedQuantity:  b.ReservedQuantity,
		AvailableQuantity: b.AvailableQuantity,
		AverageCost:       b.AverageCost,
		TotalValue:        b.TotalValue,
		LastUpdated:       b.LastUpdated,
	}
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:                e.ID,
		ProductID:         e.ProductID,
		WarehouseID:       e.WarehouseID,
		Type:              e.Type,
		QuantityChange:    e.QuantityChange,
		BalanceAfter:      e.BalanceAfter,
		UnitCost:          e.UnitCost,
		AverageCostBefore: e.AverageCostBefore,
		AverageCostAfter:  e.AverageCostAfter,
		ReferenceID:       e.ReferenceID,
		ReferenceType:     e.ReferenceType,
		UserID:            e.UserID,
		Notes:             e.Notes,
		CreatedAt:         e.CreatedAt,
	}
}
