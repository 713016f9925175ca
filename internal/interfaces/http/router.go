package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/customers"
	"github.com/jhoicas/backoffice-api/internal/application/inventory"
	"github.com/jhoicas/backoffice-api/internal/application/staff"
	"github.com/jhoicas/backoffice-api/internal/application/suppliers"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	InvoiceUC    *billing.InvoiceUseCase
	StockUC      *inventory.StockUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	SupplierUC   *suppliers.SupplierBillUseCase
	ReportUC     *analytics.ReportUseCase
	HistoryUC    *audit.HistoryUseCase
	CustomerUC   *customers.CustomerUseCase
	StaffUC      *staff.StaffUseCase
	Hub          *ws.Hub // opcional
	JWTSecret    string
	ServiceName  string
	// FilesDir y FilesURL sirven los comprobantes guardados en disco; vacío no los expone.
	FilesDir string
	FilesURL string
	// Ping verifica el almacén para /health; nil responde siempre ok.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	if deps.Hub != nil {
		app.Get("/ws", WSUpgrade(deps.JWTSecret), WSHandler(deps.Hub))
	}

	if deps.FilesDir != "" && deps.FilesURL != "" {
		app.Static(deps.FilesURL, deps.FilesDir)
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleEmpleado)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/users", adminOnly, authHandler.Register)

	dashboardHandler := NewDashboardHandler(deps.ReportUC)
	protected.Get("/dashboard/summary", anyRole, dashboardHandler.GetSummary)

	// Facturación
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", anyRole, invoiceHandler.Create)
	invoices.Get("/", anyRole, invoiceHandler.List)
	invoices.Get("/:id", anyRole, invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", anyRole, invoiceHandler.PDF)
	invoices.Delete("/:id", adminOnly, invoiceHandler.Delete)

	// Proveedores
	bills := protected.Group("/suppliers/bills")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	bills.Post("/", anyRole, supplierHandler.Register)
	bills.Get("/", anyRole, supplierHandler.List)
	bills.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Clientes
	clients := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	clients.Post("/", anyRole, customerHandler.Create)
	clients.Get("/", anyRole, customerHandler.List)
	clients.Delete("/:id", adminOnly, customerHandler.Delete)

	// Stock (admin)
	stock := protected.Group("/stock", adminOnly)
	stockHandler := NewStockHandler(deps.StockUC, deps.AdjustmentUC)
	stock.Get("/", stockHandler.List)
	stock.Post("/", stockHandler.Create)
	stock.Put("/:id/quantity", stockHandler.SetQuantity)
	stock.Delete("/:id", stockHandler.Delete)
	stock.Get("/:id/adjustment-draft", stockHandler.GetDraft)
	stock.Put("/:id/adjustment-draft", stockHandler.SaveDraft)
	stock.Post("/:id/adjustments", stockHandler.ApplyAdjustment)

	// Reportes e historial (admin)
	protected.Get("/reports", adminOnly, dashboardHandler.GetReport)
	protected.Get("/reports/export", adminOnly, dashboardHandler.ExportReport)
	protected.Get("/activity", adminOnly, NewActivityHandler(deps.HistoryUC).List)

	// Personal (admin)
	staffGroup := protected.Group("/staff", adminOnly)
	staffHandler := NewStaffHandler(deps.StaffUC)
	staffGroup.Get("/", staffHandler.Report)
	staffGroup.Get("/export", staffHandler.Export)
	staffGroup.Put("/:id/hours", staffHandler.SetHours)
}
