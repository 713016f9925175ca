// Package pdf genera los comprobantes de factura y los reportes exportables.
//
// Factura (A4):
//
//	┌─────────────────────────────────────────────┐
//	│  HEADER: negocio      │  N° + Fecha          │
//	│  CLIENTE                                     │
//	│  TABLA: Cant | Concepto | Detalle | Monto    │
//	│  TOTAL + QR con el id de la factura          │
//	└─────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/staff"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var (
	_ billing.InvoicePDFGenerator  = (*MarotoPDFGenerator)(nil)
	_ analytics.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)
	_ staff.StaffPDFGenerator      = (*MarotoPDFGenerator)(nil)
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera facturas y reportes con Maroto v2.
type MarotoPDFGenerator struct {
	business string
}

// NewMarotoPDFGenerator construye el generador; business aparece en el encabezado.
func NewMarotoPDFGenerator(business string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{business: nonEmpty(business, "Back-office")}
}

func (g *MarotoPDFGenerator) newDoc(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.business, true).
		Build()
	return maroto.New(cfg)
}

// GenerateInvoicePDF genera el comprobante de una factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := g.newDoc("Factura " + shortID(inv.ID))

	m.AddRows(g.invoiceHeader(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader(
		cell{"Cant.", 2, align.Center},
		cell{"Concepto", 4, align.Left},
		cell{"Detalle", 3, align.Left},
		cell{"Monto", 3, align.Right},
	))
	m.AddRows(row.New(7).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", inv.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(4).Add(text.New(inv.Concept, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(nonEmpty(inv.Detail, "-"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		col.New(3).Add(text.New(FormatMoney(inv.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(40).Add(
		col.New(4).Add(code.NewQr(inv.ID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("TOTAL: "+FormatMoney(inv.Amount), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 4, Right: 1,
			}),
			text.New("Emitida por "+nonEmpty(inv.CreatedBy, entity.UnknownActor), props.Text{
				Size: 7, Align: align.Right, Color: colorGray, Top: 14, Right: 1,
			}),
		),
	))

	return generate(m)
}

// GenerateReportPDF genera el reporte de ventas y compras del período.
func (g *MarotoPDFGenerator) GenerateReportPDF(ctx context.Context, rep *dto.ReportDTO) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := g.newDoc("Reporte " + rep.Period)

	m.AddRows(row.New(14).Add(
		col.New(8).Add(text.New(g.business, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1})),
		col.New(4).Add(text.New("REPORTE "+strings.ToUpper(rep.Period), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(row.New(20).Add(
		summaryCol("Ventas", FormatMoney(rep.TotalSales)),
		summaryCol("Compras", FormatMoney(rep.TotalPurchases)),
		summaryCol("Balance", FormatMoney(rep.Balance)),
		summaryCol("Margen", rep.MarginPct.StringFixed(2)+"%"),
	))

	m.AddRows(sectionTitle("Totales por período"))
	m.AddRows(tableHeader(
		cell{"Período", 4, align.Left},
		cell{"Ventas", 4, align.Right},
		cell{"Compras", 4, align.Right},
	))
	for _, b := range rep.Buckets {
		m.AddRows(row.New(6).Add(
			col.New(4).Add(text.New(b.Period, props.Text{Size: 8, Left: 1, Top: 1})),
			col.New(4).Add(text.New(FormatMoney(b.Sales), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(4).Add(text.New(FormatMoney(b.Purchases), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}

	m.AddRows(sectionTitle("Ventas por producto"))
	m.AddRows(tableHeader(
		cell{"Concepto", 6, align.Left},
		cell{"Unidades", 2, align.Center},
		cell{"Monto", 4, align.Right},
	))
	for _, p := range rep.Products {
		m.AddRows(row.New(6).Add(
			col.New(6).Add(text.New(p.Concept, props.Text{Size: 8, Left: 1, Top: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", p.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(FormatMoney(p.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}

	return generate(m)
}

// GenerateStaffPDF genera el panel de carga horaria del período.
func (g *MarotoPDFGenerator) GenerateStaffPDF(ctx context.Context, rep *dto.StaffReportDTO) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	label := staff.PeriodLabel(rep.Period)
	m := g.newDoc("Carga horaria por " + label)

	m.AddRows(row.New(14).Add(
		col.New(8).Add(text.New(g.business, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1})),
		col.New(4).Add(text.New("CARGA HORARIA POR "+strings.ToUpper(label), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeader(
		cell{"Nombre", 4, align.Left},
		cell{"Email", 4, align.Left},
		cell{"Rol", 2, align.Center},
		cell{"Horas", 2, align.Right},
	))
	for _, p := range rep.Members {
		m.AddRows(row.New(6).Add(
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Left: 1, Top: 1})),
			col.New(4).Add(text.New(p.Email, props.Text{Size: 8, Left: 1, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(p.Role, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatHours(p.Hours), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(12).Add(text.New("TOTAL: "+formatHours(rep.Total)+" h", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	))

	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) invoiceHeader(inv *entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.business, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("N° "+shortID(inv.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+inv.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func clientRow(inv *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(inv.Client, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
	)
}

type cell struct {
	label string
	size  int
	align align.Type
}

func tableHeader(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func sectionTitle(s string) core.Row {
	return row.New(10).Add(col.New(12).Add(text.New(s, props.Text{
		Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 4,
	})))
}

func summaryCol(label, value string) core.Col {
	return col.New(3).Add(
		text.New(label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 3}),
		text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 9}),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func formatHours(h float64) string {
	return strings.Replace(fmt.Sprintf("%.1f", h), ".", ",", 1)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatMoney formatea con puntos de miles y coma decimal.
// Ej: 1234567.5 → "$1.234.567,50", -25 → "-$25,00"
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	return sign + "$" + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
