// Package analytics contiene los casos de uso del dashboard y de los reportes
// de ventas y compras por período.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Períodos de agrupación soportados.
const (
	PeriodWeekly     = "semanal"
	PeriodMonthly    = "mensual"
	PeriodSemiannual = "semestral"
	PeriodAnnual     = "anual"
)

var hundred = decimal.NewFromInt(100)

// PeriodKey clave de agrupación de t según el período.
// La semana es la del mes (ceil(día/7)), no la semana ISO.
func PeriodKey(t time.Time, period string) string {
	switch period {
	case PeriodWeekly:
		return fmt.Sprintf("%d-W%d", t.Year(), (t.Day()+6)/7)
	case PeriodSemiannual:
		half := 1
		if t.Month() > time.June {
			half = 2
		}
		return fmt.Sprintf("%d-S%d", t.Year(), half)
	case PeriodAnnual:
		return fmt.Sprintf("%d", t.Year())
	default:
		return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
	}
}

// NormalizePeriod retorna el período por defecto (mensual) para valores desconocidos.
func NormalizePeriod(p string) string {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodSemiannual, PeriodAnnual:
		return p
	default:
		return PeriodMonthly
	}
}

// BuildReport agrega ventas (por fecha de factura) y compras (por fecha de carga).
// Los registros con monto cero se ignoran.
func BuildReport(period string, invoices []*entity.Invoice, bills []*entity.SupplierBill) *dto.ReportDTO {
	period = NormalizePeriod(period)
	buckets := map[string]*dto.PeriodTotalsDTO{}
	bucket := func(key string) *dto.PeriodTotalsDTO {
		b, ok := buckets[key]
		if !ok {
			b = &dto.PeriodTotalsDTO{Period: key, Sales: decimal.Zero, Purchases: decimal.Zero}
			buckets[key] = b
		}
		return b
	}
	products := map[string]*dto.ProductSalesDTO{}
	days := map[string]decimal.Decimal{}

	rep := &dto.ReportDTO{Period: period, TotalSales: decimal.Zero, TotalPurchases: decimal.Zero}
	for _, inv := range invoices {
		if inv.Amount.IsZero() || inv.Date.IsZero() {
			continue
		}
		b := bucket(PeriodKey(inv.Date, period))
		b.Sales = b.Sales.Add(inv.Amount)
		rep.TotalSales = rep.TotalSales.Add(inv.Amount)

		concept := inv.Concept
		if concept == "" {
			concept = "Desconocido"
		}
		p, ok := products[concept]
		if !ok {
			p = &dto.ProductSalesDTO{Concept: concept, Amount: decimal.Zero}
			products[concept] = p
		}
		p.Quantity += inv.Quantity
		p.Amount = p.Amount.Add(inv.Amount)

		day := inv.Date.Format("2006-01-02")
		days[day] = days[day].Add(inv.Amount)
	}
	for _, bill := range bills {
		if bill.Amount.IsZero() || bill.UploadedAt.IsZero() {
			continue
		}
		b := bucket(PeriodKey(bill.UploadedAt, period))
		b.Purchases = b.Purchases.Add(bill.Amount)
		rep.TotalPurchases = rep.TotalPurchases.Add(bill.Amount)
	}

	rep.Buckets = make([]dto.PeriodTotalsDTO, 0, len(buckets))
	for _, b := range buckets {
		rep.Buckets = append(rep.Buckets, *b)
	}
	sort.Slice(rep.Buckets, func(i, j int) bool { return rep.Buckets[i].Period < rep.Buckets[j].Period })

	rep.Products = make([]dto.ProductSalesDTO, 0, len(products))
	for _, p := range products {
		rep.Products = append(rep.Products, *p)
	}
	sort.Slice(rep.Products, func(i, j int) bool {
		if !rep.Products[i].Amount.Equal(rep.Products[j].Amount) {
			return rep.Products[i].Amount.GreaterThan(rep.Products[j].Amount)
		}
		return rep.Products[i].Concept < rep.Products[j].Concept
	})

	rep.Days = make([]dto.DailySalesDTO, 0, len(days))
	for d, amt := range days {
		rep.Days = append(rep.Days, dto.DailySalesDTO{Day: d, Amount: amt})
	}
	sort.Slice(rep.Days, func(i, j int) bool { return rep.Days[i].Day < rep.Days[j].Day })

	rep.Balance = rep.TotalSales.Sub(rep.TotalPurchases)
	rep.MarginPct = decimal.Zero
	if rep.TotalSales.IsPositive() {
		rep.MarginPct = rep.Balance.Div(rep.TotalSales).Mul(hundred).Round(2)
	}
	return rep
}
