package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalSales     decimal.Decimal `json:"total_sales"`     // suma de facturas de venta
	TotalPurchases decimal.Decimal `json:"total_purchases"` // suma de facturas de proveedores
	StockUnits     int             `json:"stock_units"`     // unidades totales en stock
	Balance        decimal.Decimal `json:"balance"`         // ventas - compras
	ExpiringSoon   int             `json:"expiring_soon"`   // ítems con vencimiento próximo
}
