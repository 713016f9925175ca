package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "$0,00",
		"25":        "$25,00",
		"1234567.5": "$1.234.567,50",
		"-1000":     "-$1.000,00",
		"999.999":   "$1.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Almacén Don Pepe")
	b, err := g.GenerateInvoicePDF(context.Background(), &entity.Invoice{
		ID:       "3f1c9a2e-0000-4000-8000-000000000001",
		Client:   "Ferretería Sur",
		Date:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Concept:  "Tornillos",
		Quantity: 4,
		Amount:   decimal.NewFromInt(1200),
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestGenerateReportPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("")
	b, err := g.GenerateReportPDF(context.Background(), &dto.ReportDTO{
		Period:     "mensual",
		Buckets:    []dto.PeriodTotalsDTO{{Period: "2024-03", Sales: decimal.NewFromInt(10), Purchases: decimal.NewFromInt(4)}},
		Products:   []dto.ProductSalesDTO{{Concept: "Tornillos", Quantity: 2, Amount: decimal.NewFromInt(10)}},
		TotalSales: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestGenerateInvoicePDF_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoPDFGenerator("x").GenerateInvoicePDF(ctx, &entity.Invoice{ID: "1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateStaffPDF(t *testing.T) {
	b, err := NewMarotoPDFGenerator("").GenerateStaffPDF(context.Background(), &dto.StaffReportDTO{
		Period:  "mes",
		Members: []dto.StaffMemberDTO{{Name: "Ana", Email: "ana@example.com", Role: "empleado", Hours: 152.5}},
		Total:   152.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
	assert.Equal(t, "152,5", formatHours(152.5))
	assert.Equal(t, "0,0", formatHours(0))
}
