package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-envios/internal/application/auth"
	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/application/shipment"
	"github.com/jhoicas/inventario-envios/internal/application/usecase"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	WarehouseUC *usecase.WarehouseUseCase
	StockItemUC *inventory.StockItemUseCase
	ShipmentUC  *shipment.UseCase
	DocumentsUC *shipment.DocumentsUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	operators := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	protected.Get("/auth/me", authHandler.Me)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Stock items (escrituras solo admin). /resolve va antes de /:id.
	items := protected.Group("/stock-items")
	itemHandler := NewStockItemHandler(deps.StockItemUC)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/resolve", itemHandler.Resolve)
	items.Get("/:id", itemHandler.GetByID)
	items.Patch("/:id", adminOnly, itemHandler.Update)

	// Shipments
	shipments := protected.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC, deps.DocumentsUC)
	shipments.Post("/", operators, shipmentHandler.Create)
	shipments.Get("/", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.GetByID)
	shipments.Patch("/:id", operators, shipmentHandler.Update)
	shipments.Post("/:id/dispatch", operators, shipmentHandler.Dispatch)
	shipments.Post("/:id/arrive", operators, shipmentHandler.Arrive)
	shipments.Post("/:id/cancel", operators, shipmentHandler.Cancel)
	shipments.Get("/:id/delivery-note", shipmentHandler.DeliveryNote)
	shipments.Get("/:id/despatch-advice", shipmentHandler.DespatchAdvice)
}
