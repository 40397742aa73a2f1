package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amancio-obras/estoque-obras/internal/application/analytics"
	"github.com/amancio-obras/estoque-obras/internal/application/auth"
	"github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/application/report"
	"github.com/amancio-obras/estoque-obras/internal/application/usecase"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Ledger           *inventory.LedgerUseCase
	Report           *report.ReportUseCase
	Dashboard        *analytics.DashboardUseCase
	// Tokens validados pelo AuthMiddleware; nil usa AuthUC.
	Validator TokenValidator
	Logger    *logger.Logger
}

// Router registra as rotas da API. Consultas são públicas; escritas exigem Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	tokens := deps.Validator
	if tokens == nil {
		tokens = deps.AuthUC
	}
	requireAuth := AuthMiddleware(tokens)

	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	productHandler := NewProductHandler(deps.ProductUC, log)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", requireAuth, productHandler.Create)
	products.Post("/import/preview", requireAuth, productHandler.ImportPreview)
	products.Post("/import", requireAuth, productHandler.Import)
	products.Get("/:codigo", productHandler.GetByCode)

	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Ledger, deps.Report, log)
	inv := api.Group("/inventory")
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/movements/export.csv", inventoryHandler.ExportMovementsCSV)
	inv.Post("/movements", requireAuth, inventoryHandler.RegisterMovement)
	inv.Delete("/movements/:id", requireAuth, inventoryHandler.DeleteMovement)
	inv.Get("/balances", inventoryHandler.Balances)
	inv.Get("/balances/export.csv", inventoryHandler.ExportBalancesCSV)
	inv.Get("/balances/export.pdf", inventoryHandler.ExportBalancesPDF)
	inv.Get("/balances/export.xml", inventoryHandler.ExportBalancesXML)

	dashboardHandler := NewDashboardHandler(deps.Dashboard, log)
	api.Get("/dashboard", dashboardHandler.GetSummary)
}
