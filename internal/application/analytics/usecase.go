package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// ActivityRecorder registra actividad en el historial.
type ActivityRecorder interface {
	Record(ctx context.Context, kind, module, description string, who session.Identity)
}

// ReportPDFGenerator renderiza un reporte en PDF.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *dto.ReportDTO) ([]byte, error)
}

// ReportUseCase dashboard y reportes por período.
//
// Fuente de datos: repositorios de facturas, facturas de proveedores y stock (solo lectura).
// Trae una página acotada de cada colección y agrega en memoria.
type ReportUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	billRepo     repository.SupplierBillRepository
	stockRepo    repository.StockRepository
	recorder     ActivityRecorder
	pdf          ReportPDFGenerator
	expiryWindow time.Duration
	limit        int
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	invoiceRepo repository.InvoiceRepository,
	billRepo repository.SupplierBillRepository,
	stockRepo repository.StockRepository,
	recorder ActivityRecorder,
	pdf ReportPDFGenerator,
	expiryWarningDays int,
	limit int,
) *ReportUseCase {
	if expiryWarningDays <= 0 {
		expiryWarningDays = 30
	}
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	return &ReportUseCase{
		invoiceRepo:  invoiceRepo,
		billRepo:     billRepo,
		stockRepo:    stockRepo,
		recorder:     recorder,
		pdf:          pdf,
		expiryWindow: time.Duration(expiryWarningDays) * 24 * time.Hour,
		limit:        limit,
		now:          time.Now,
	}
}

type sources struct {
	invoices []*entity.Invoice
	bills    []*entity.SupplierBill
	stock    []*entity.StockItem
}

// fetch lee las tres colecciones en paralelo.
func (uc *ReportUseCase) fetch(ctx context.Context, withStock bool) (*sources, error) {
	type invResult struct {
		list []*entity.Invoice
		err  error
	}
	type billResult struct {
		list []*entity.SupplierBill
		err  error
	}
	type stockResult struct {
		list []*entity.StockItem
		err  error
	}

	invCh := make(chan invResult, 1)
	billCh := make(chan billResult, 1)
	stockCh := make(chan stockResult, 1)

	go func() {
		l, err := uc.invoiceRepo.List(ctx, uc.limit)
		invCh <- invResult{l, err}
	}()
	go func() {
		l, err := uc.billRepo.List(ctx, uc.limit)
		billCh <- billResult{l, err}
	}()
	if withStock {
		go func() {
			l, err := uc.stockRepo.List(ctx)
			stockCh <- stockResult{l, err}
		}()
	} else {
		stockCh <- stockResult{}
	}

	inv := <-invCh
	bills := <-billCh
	stock := <-stockCh
	for _, err := range []error{inv.err, bills.err, stock.err} {
		if err != nil {
			return nil, err
		}
	}
	return &sources{invoices: inv.list, bills: bills.list, stock: stock.list}, nil
}

// GetSummary totales del dashboard: ventas, compras, unidades en stock y balance.
func (uc *ReportUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	src, err := uc.fetch(ctx, true)
	if err != nil {
		return nil, err
	}
	out := &dto.DashboardSummaryDTO{TotalSales: decimal.Zero, TotalPurchases: decimal.Zero}
	for _, inv := range src.invoices {
		out.TotalSales = out.TotalSales.Add(inv.Amount)
	}
	for _, b := range src.bills {
		out.TotalPurchases = out.TotalPurchases.Add(b.Amount)
	}
	now := uc.now()
	for _, it := range src.stock {
		out.StockUnits += it.Quantity
		if it.ExpiresWithin(now, uc.expiryWindow) {
			out.ExpiringSoon++
		}
	}
	out.Balance = out.TotalSales.Sub(out.TotalPurchases)
	return out, nil
}

// GetReport agrega ventas y compras según el período (semanal, mensual, semestral, anual).
func (uc *ReportUseCase) GetReport(ctx context.Context, period string) (*dto.ReportDTO, error) {
	src, err := uc.fetch(ctx, false)
	if err != nil {
		return nil, err
	}
	return BuildReport(period, src.invoices, src.bills), nil
}

// ExportReport genera el PDF del reporte y registra la descarga.
func (uc *ReportUseCase) ExportReport(ctx context.Context, who session.Identity, period string) ([]byte, string, error) {
	rep, err := uc.GetReport(ctx, period)
	if err != nil {
		return nil, "", err
	}
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	b, err := uc.pdf.GenerateReportPDF(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	uc.recorder.Record(ctx, entity.ActivityDescarga, entity.ModuleReportes,
		fmt.Sprintf("Reporte %s exportado en PDF", rep.Period), who)
	return b, fmt.Sprintf("reporte_%s_%s.pdf", rep.Period, uc.now().Format("20060102")), nil
}
