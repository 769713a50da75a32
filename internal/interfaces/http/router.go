package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/affluo-inventario/internal/application/catalog"
	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *inventory.ProcessAdjustmentUseCase
	Processor *inventory.SubmissionProcessor
	Reports   *inventory.ReportUseCase
	Catalog   *catalog.Service
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(jwt.RoleSuperAdmin, jwt.RoleCompanyAdmin, jwt.RoleTeamMember)
	admins := RequireRole(jwt.RoleSuperAdmin, jwt.RoleCompanyAdmin)

	// Inventario
	inv := api.Group("/inventory", anyRole)
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Processor, deps.Reports)
	inv.Post("/adjustments", admins, inventoryHandler.ProcessAdjustment)
	inv.Post("/submissions/:id/process", inventoryHandler.ProcessSubmission)
	inv.Get("/submissions/:id/movements", inventoryHandler.SubmissionMovements)
	inv.Get("/items", inventoryHandler.ListItems)
	inv.Get("/items/low-stock", inventoryHandler.LowStock)
	inv.Get("/items/out-of-stock", inventoryHandler.OutOfStock)
	inv.Get("/items/:id", inventoryHandler.GetItem)
	inv.Get("/items/:id/movements", inventoryHandler.ItemMovements)
	inv.Get("/items/:id/chain", inventoryHandler.ItemChain)
	inv.Get("/movements", inventoryHandler.ListMovements)

	// Reportes
	reportHandler := NewReportHandler(deps.Reports)
	reports := inv.Group("/reports")
	reports.Get("/stock-summary", reportHandler.StockSummary)
	reports.Get("/stock-summary.pdf", reportHandler.StockSummaryPDF)
	reports.Get("/movement-summary", reportHandler.MovementSummary)
	reports.Get("/movements.xlsx", reportHandler.ExportMovements)

	// Formularios y listas
	formHandler := NewFormHandler(deps.Catalog)
	api.Get("/forms/:id/render", anyRole, formHandler.Render)
	api.Get("/lists/:id/fields/:field/values", anyRole, formHandler.ListFieldValues)
}
