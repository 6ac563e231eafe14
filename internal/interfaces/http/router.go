package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/templo-inventario/internal/application/auth"
	"github.com/jhoicas/templo-inventario/internal/application/inventory"
	"github.com/jhoicas/templo-inventario/internal/application/report"
	"github.com/jhoicas/templo-inventario/internal/application/request"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ItemUC          *inventory.ItemUseCase
	LedgerUC        *inventory.LedgerUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	RequestUC       *request.RequestUseCase
	ReportUC        *report.ReportUseCase
	JWTSecret       string
	// Ventana por defecto de GET /api/expiry.
	ExpiryWindowDays int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)
	stockKeepers := RequireRole(entity.RoleAdmin, entity.RoleAlmacen)

	// Auth: login público; alta y listado de usuarios solo admin.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Get("/users", adminOnly, authHandler.ListUsers)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Post("/", stockKeepers, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", stockKeepers, itemHandler.Update)

	protected.Get("/batches", itemHandler.ListBatches)
	protected.Get("/movements", itemHandler.ListMovements)

	// Operaciones de stock
	invHandler := NewInventoryHandler(deps.LedgerUC, deps.ReplenishmentUC, deps.ExpiryWindowDays)
	stock := protected.Group("/stock")
	stock.Post("/add", stockKeepers, invHandler.AddStock)
	stock.Post("/issue", invHandler.IssueStock)
	stock.Post("/wastage", invHandler.RecordWastage)
	stock.Post("/adjust", stockKeepers, invHandler.AdjustStock)
	stock.Post("/rework", adminOnly, invHandler.Rework)
	protected.Get("/replenishment", invHandler.GetReplenishmentList)

	// Caducidad
	protected.Get("/expiry", invHandler.ExpiryReport)
	protected.Post("/expiry/sweep", adminOnly, invHandler.SweepExpired)

	// Conciliación
	protected.Get("/reconcile", adminOnly, invHandler.Reconcile)
	protected.Post("/reconcile/repair", adminOnly, invHandler.RepairStock)

	// Solicitudes
	reqHandler := NewRequestHandler(deps.RequestUC)
	requests := protected.Group("/requests")
	requests.Get("/", reqHandler.List)
	requests.Post("/", reqHandler.Create)
	requests.Post("/:id/approve", adminOnly, reqHandler.Approve)
	requests.Post("/:id/reject", adminOnly, reqHandler.Reject)

	// Dashboard e informes
	dashHandler := NewDashboardHandler(deps.ReportUC)
	protected.Get("/dashboard/summary", dashHandler.GetSummary)
	protected.Get("/reports/wastage", dashHandler.GetWastageReport)
	protected.Get("/reports/stock", dashHandler.GetStockReport)
}
