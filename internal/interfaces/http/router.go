package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	Coordinator *kardex.Coordinator
	KardexQuery *kardex.QueryUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido; escritura solo admin)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products (protegido; escritura admin o almacenista)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), productHandler.Update)

	// Inventory / kardex (protegido)
	invGroup := protected.Group("/inventory")
	kardexHandler := NewKardexHandler(deps.Coordinator, deps.KardexQuery)
	invGroup.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), kardexHandler.ApplyMovement)
	invGroup.Post("/purchase-orders/receive", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), kardexHandler.ReceivePurchase)
	// Reservas: también el vendedor, que las crea al tomar órdenes.
	invGroup.Post("/reservations", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleVendedor), kardexHandler.Reserve)
	invGroup.Post("/reservations/release", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleVendedor), kardexHandler.Release)
	invGroup.Get("/balance", kardexHandler.GetBalance)
	invGroup.Get("/kardex/:productId", kardexHandler.GetKardex)
	invGroup.Get("/history/:productId", kardexHandler.GetHistory)
	invGroup.Get("/low-stock", kardexHandler.LowStock)
	invGroup.Get("/warehouses/:warehouseId/balances", kardexHandler.WarehouseBalances)
	invGroup.Get("/references/:type/:id", kardexHandler.GetByReference)
}
