package analytics_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPeriodKey(t *testing.T) {
	cases := []struct {
		date, period, want string
	}{
		{"2026-03-01", analytics.PeriodWeekly, "2026-W1"},
		{"2026-03-07", analytics.PeriodWeekly, "2026-W1"},
		{"2026-03-08", analytics.PeriodWeekly, "2026-W2"},
		{"2026-03-31", analytics.PeriodWeekly, "2026-W5"},
		{"2026-03-15", analytics.PeriodMonthly, "2026-03"},
		{"2026-06-30", analytics.PeriodSemiannual, "2026-S1"},
		{"2026-07-01", analytics.PeriodSemiannual, "2026-S2"},
		{"2026-12-31", analytics.PeriodAnnual, "2026"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, analytics.PeriodKey(day(tc.date), tc.period), "%s %s", tc.date, tc.period)
	}
}

func TestNormalizePeriod(t *testing.T) {
	assert.Equal(t, analytics.PeriodAnnual, analytics.NormalizePeriod("anual"))
	assert.Equal(t, analytics.PeriodMonthly, analytics.NormalizePeriod(""))
	assert.Equal(t, analytics.PeriodMonthly, analytics.NormalizePeriod("diario"))
}

func fixtures() ([]*entity.Invoice, []*entity.SupplierBill) {
	inv := func(date, concept string, qty int, amount string) *entity.Invoice {
		return &entity.Invoice{Date: day(date), Concept: concept, Quantity: qty, Amount: decimal.RequireFromString(amount)}
	}
	bill := func(date, amount string) *entity.SupplierBill {
		return &entity.SupplierBill{UploadedAt: day(date), Amount: decimal.RequireFromString(amount)}
	}
	invoices := []*entity.Invoice{
		inv("2026-01-10", "Tornillos", 2, "100.50"),
		inv("2026-01-25", "Pintura", 1, "4000"),
		inv("2026-02-03", "Tornillos", 5, "250"),
		inv("2026-02-04", "Regalo", 1, "0"),
	}
	bills := []*entity.SupplierBill{
		bill("2026-01-15", "1200"),
		bill("2026-03-02", "800.25"),
	}
	return invoices, bills
}

func TestBuildReport_Mensual(t *testing.T) {
	invoices, bills := fixtures()
	rep := analytics.BuildReport("mensual", invoices, bills)

	got, err := json.MarshalIndent(rep, "", "  ")
	require.NoError(t, err)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report_mensual", append(got, '\n'))
}

func TestBuildReport_Anual(t *testing.T) {
	invoices, bills := fixtures()
	rep := analytics.BuildReport(analytics.PeriodAnnual, invoices, bills)

	require.Len(t, rep.Buckets, 1)
	assert.Equal(t, "2026", rep.Buckets[0].Period)
	assert.True(t, rep.Buckets[0].Sales.Equal(decimal.RequireFromString("4350.5")))
	assert.True(t, rep.Buckets[0].Purchases.Equal(decimal.RequireFromString("2000.25")))
}

func TestBuildReport_SinVentas(t *testing.T) {
	rep := analytics.BuildReport("semanal", nil, []*entity.SupplierBill{
		{UploadedAt: day("2026-03-09"), Amount: decimal.NewFromInt(500)},
	})
	assert.Equal(t, analytics.PeriodWeekly, rep.Period)
	assert.True(t, rep.MarginPct.IsZero())
	assert.True(t, rep.Balance.Equal(decimal.NewFromInt(-500)))
	require.Len(t, rep.Buckets, 1)
	assert.Equal(t, "2026-W2", rep.Buckets[0].Period)
	assert.Empty(t, rep.Products)
}

type countingRecorder struct{ kinds []string }

func (c *countingRecorder) Record(_ context.Context, kind, _, _ string, _ session.Identity) {
	c.kinds = append(c.kinds, kind)
}

func TestReportUseCase_ResumenYExport(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	invoices, bills := fixtures()
	for i, inv := range invoices {
		inv.ID = "inv-" + string(rune('a'+i))
		require.NoError(t, store.Invoices().Create(ctx, inv))
	}
	for i, b := range bills {
		b.ID = "bill-" + string(rune('a'+i))
		b.Supplier = "Proveedor " + string(rune('A'+i))
		require.NoError(t, store.SupplierBills().Create(ctx, b))
	}
	soon := time.Now().AddDate(0, 0, 3)
	require.NoError(t, store.Stock().Create(ctx, &entity.StockItem{ID: "s1", Name: "Leche", NameKey: entity.NameKey("Leche"), Quantity: 8, ExpiryDate: &soon}))
	require.NoError(t, store.Stock().Create(ctx, &entity.StockItem{ID: "s2", Name: "Sal", NameKey: entity.NameKey("Sal"), Quantity: 2}))

	rec := &countingRecorder{}
	uc := analytics.NewReportUseCase(store.Invoices(), store.SupplierBills(), store.Stock(), rec,
		pdf.NewMarotoPDFGenerator("Comercio"), 30, 0)

	sum, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.True(t, sum.TotalSales.Equal(decimal.RequireFromString("4350.5")))
	assert.True(t, sum.TotalPurchases.Equal(decimal.RequireFromString("2000.25")))
	assert.True(t, sum.Balance.Equal(decimal.RequireFromString("2350.25")))
	assert.Equal(t, 10, sum.StockUnits)
	assert.Equal(t, 1, sum.ExpiringSoon)

	b, name, err := uc.ExportReport(ctx, session.Anonymous, "semestral")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "reporte_semestral_"), name)
	assert.Equal(t, "%PDF", string(b[:4]))
	assert.Equal(t, []string{entity.ActivityDescarga}, rec.kinds)
}
