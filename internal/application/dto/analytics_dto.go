package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// ReportRequest parámetros para GET /api/reports.
type ReportRequest struct {
	Period string `query:"period" validate:"omitempty,oneof=semanal mensual semestral anual"`
}

// ── Agregados ─────────────────────────────────────────────────────────────────

// PeriodTotalsDTO ventas y compras acumuladas en un período (ej. "2026-03", "2026-W2").
type PeriodTotalsDTO struct {
	Period    string          `json:"period"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

// ProductSalesDTO ventas por concepto.
type ProductSalesDTO struct {
	Concept  string          `json:"concept"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailySalesDTO ventas por día (YYYY-MM-DD).
type DailySalesDTO struct {
	Day    string          `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// ReportDTO respuesta de GET /api/reports.
type ReportDTO struct {
	Period         string            `json:"period"`
	Buckets        []PeriodTotalsDTO `json:"buckets"`
	Products       []ProductSalesDTO `json:"products"`
	Days           []DailySalesDTO   `json:"days"`
	TotalSales     decimal.Decimal   `json:"total_sales"`
	TotalPurchases decimal.Decimal   `json:"total_purchases"`
	Balance        decimal.Decimal   `json:"balance"`
	MarginPct      decimal.Decimal   `json:"margin_pct"` // balance / ventas * 100; 0 sin ventas
}
