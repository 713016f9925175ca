package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/customers"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/inventory"
	"github.com/jhoicas/backoffice-api/internal/application/staff"
	"github.com/jhoicas/backoffice-api/internal/application/suppliers"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/backoffice-api/internal/interfaces/http"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	admin string
	staff string
}

// newTestEnv arma la API completa sobre el store en memoria con historial síncrono.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	recorder := audit.NewRecorder(store.Activity(), nil, nil, log, audit.Options{})
	gen := pdf.NewMarotoPDFGenerator("Test")

	authUC := auth.NewAuthUseCase(store.Users(), recorder, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})
	stockUC := inventory.NewStockUseCase(store.Stock(), recorder, nil, 30, log)
	deps := apphttp.RouterDeps{
		AuthUC:       authUC,
		InvoiceUC:    billing.NewInvoiceUseCase(store, store.Stock(), store.Invoices(), recorder, nil, gen, billing.Options{}, log),
		StockUC:      stockUC,
		AdjustmentUC: inventory.NewAdjustmentUseCase(stockUC.Ledger(), recorder, nil, nil),
		SupplierUC:   suppliers.NewSupplierBillUseCase(store.SupplierBills(), store.Attachments("/files"), recorder, 0, log),
		ReportUC:     analytics.NewReportUseCase(store.Invoices(), store.SupplierBills(), store.Stock(), recorder, gen, 30, 0),
		HistoryUC:    audit.NewHistoryUseCase(store.Activity(), 0),
		CustomerUC:   customers.NewCustomerUseCase(store.Customers(), recorder, 0),
		StaffUC:      staff.NewStaffUseCase(store.Users(), recorder, gen),
		JWTSecret:    testJWTSecret,
		ServiceName:  "backoffice-test",
	}
	app := fiber.New()
	apphttp.Router(app, deps)

	ctx := context.Background()
	_, err := authUC.RegisterUser(ctx, dto.CreateUserRequest{Email: "admin@example.com", Password: "secreto123", Role: entity.RoleAdmin})
	require.NoError(t, err)
	_, err = authUC.RegisterUser(ctx, dto.CreateUserRequest{Email: "caja@example.com", Password: "secreto123"})
	require.NoError(t, err)

	env := &testEnv{app: app, store: store}
	env.admin = env.login(t, "admin@example.com")
	env.staff = env.login(t, "caja@example.com")
	return env
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *testEnv) createStock(t *testing.T, name string, qty int) dto.StockItemResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/stock", e.admin, map[string]any{"name": name, "quantity": qty})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item dto.StockItemResponse
	decode(t, resp, &item)
	return item
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_LoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "otra-clave"})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Credenciales inválidas.", body.Message)
}

func TestRouter_StockIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/stock", env.staff, map[string]any{"name": "Tornillos", "quantity": 10})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	item := env.createStock(t, "Tornillos", 10)
	assert.Equal(t, "unidad", item.Unit)

	resp = env.do(t, http.MethodPost, "/api/stock", env.admin, map[string]any{"name": "  tornillos ", "quantity": 1})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, `Ya existe un producto llamado "Tornillos".`, body.Message)
}

func TestRouter_IssueInvoiceFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createStock(t, "Tornillos", 10)

	invoice := map[string]any{"client": "Ferretería Sur", "date": "2024-03-05", "concept": "tornillos", "quantity": 4, "amount": "1200"}
	resp := env.do(t, http.MethodPost, "/api/invoices", env.staff, invoice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.IssueInvoiceResponse
	decode(t, resp, &out)
	assert.Equal(t, 6, out.RemainingStock)
	assert.Equal(t, "Factura guardada y se descontaron 4 unidades del stock.", out.Message)
	assert.Equal(t, "Tornillos", out.Invoice.Concept)
	assert.Equal(t, "caja@example.com", out.Invoice.CreatedBy)

	invoice["quantity"] = 7
	resp = env.do(t, http.MethodPost, "/api/invoices", env.staff, invoice)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, `Stock insuficiente para "Tornillos". Solo hay 6 unidades disponibles.`, errBody.Message)

	invoice["concept"] = "Tuercas"
	resp = env.do(t, http.MethodPost, "/api/invoices", env.staff, invoice)
	decode(t, resp, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_PRODUCT", errBody.Code)

	delete(invoice, "client")
	resp = env.do(t, http.MethodPost, "/api/invoices", env.staff, invoice)
	decode(t, resp, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Todos los campos obligatorios deben estar completos.", errBody.Message)

	resp = env.do(t, http.MethodGet, "/api/invoices?search=sur", env.staff, nil)
	var list []dto.InvoiceResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)

	resp = env.do(t, http.MethodGet, "/api/invoices/"+list[0].ID+"/pdf", env.staff, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = env.do(t, http.MethodDelete, "/api/invoices/"+list[0].ID, env.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/invoices/"+list[0].ID, env.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_AdjustmentUsesDraft(t *testing.T) {
	env := newTestEnv(t)
	item := env.createStock(t, "Harina", 5)

	resp := env.do(t, http.MethodPut, "/api/stock/"+item.ID+"/adjustment-draft", env.admin, map[string]string{"quantity": "2", "reason": "rotura"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/stock/"+item.ID+"/adjustments", env.admin, nil)
	var out dto.AdjustmentResponse
	decode(t, resp, &out)
	assert.True(t, out.Applied)
	assert.Equal(t, 5, out.Previous)
	assert.Equal(t, 3, out.Current)
	assert.Equal(t, `Stock ajustado para "Harina".`, out.Message)

	// el borrador se descartó
	resp = env.do(t, http.MethodGet, "/api/stock/"+item.ID+"/adjustment-draft", env.admin, nil)
	var draft dto.AdjustmentDraft
	decode(t, resp, &draft)
	assert.Empty(t, draft.Quantity)

	resp = env.do(t, http.MethodPost, "/api/stock/"+item.ID+"/adjustments", env.admin, map[string]string{"quantity": "abc"})
	decode(t, resp, &out)
	assert.False(t, out.Applied)

	resp = env.do(t, http.MethodPost, "/api/stock/"+item.ID+"/adjustments", env.admin, map[string]string{"quantity": "9"})
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, `No puede descontar más unidades de las que hay en "Harina".`, errBody.Message)

	resp = env.do(t, http.MethodGet, "/api/activity?module=stock&kind=ajuste", env.admin, nil)
	var hist []dto.ActivityEntryResponse
	decode(t, resp, &hist)
	require.Len(t, hist, 1)
	assert.Equal(t, "Ajuste manual: Harina (-2 unidad). Motivo: rotura", hist[0].Description)
	assert.Equal(t, "admin@example.com", hist[0].Actor)
}

func TestRouter_AdjustmentCantidadNumerica(t *testing.T) {
	env := newTestEnv(t)
	item := env.createStock(t, "Galletas", 3)

	resp := env.do(t, http.MethodPost, "/api/stock/"+item.ID+"/adjustments", env.admin,
		map[string]any{"quantity": 3, "reason": "Caja rota"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var raw map[string]any
	decode(t, resp, &raw)
	assert.Equal(t, true, raw["applied"])
	assert.EqualValues(t, 3, raw["previous"])
	require.Contains(t, raw, "current", "el stock en cero también se informa")
	assert.EqualValues(t, 0, raw["current"])

	for _, q := range []any{0, -2, 1.5, true, nil} {
		resp = env.do(t, http.MethodPost, "/api/stock/"+item.ID+"/adjustments", env.admin, map[string]any{"quantity": q})
		var out dto.AdjustmentResponse
		decode(t, resp, &out)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "cantidad %v", q)
		assert.False(t, out.Applied, "cantidad %v", q)
	}

	resp = env.do(t, http.MethodGet, "/api/activity?module=stock&kind=ajuste", env.admin, nil)
	var hist []dto.ActivityEntryResponse
	decode(t, resp, &hist)
	require.Len(t, hist, 1)
	assert.Equal(t, "Ajuste manual: Galletas (-3 unidad). Motivo: Caja rota", hist[0].Description)
}

func TestRouter_SupplierBillUpload(t *testing.T) {
	env := newTestEnv(t)

	upload := func() *http.Response {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("supplier", "Molinos SA"))
		require.NoError(t, w.WriteField("cuit", "30-12345678-9"))
		require.NoError(t, w.WriteField("concept", "Harina"))
		require.NoError(t, w.WriteField("amount", "15000.50"))
		fw, err := w.CreateFormFile("file", "factura.pdf")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("%PDF-1.4"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/suppliers/bills", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+env.staff)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := upload()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var bill dto.SupplierBillResponse
	decode(t, resp, &bill)
	assert.Equal(t, "factura.pdf", bill.AttachmentName)
	assert.Contains(t, bill.AttachmentURL, "/files/facturas_proveedores/")
	assert.Contains(t, bill.AttachmentURL, "_factura.pdf")

	resp = upload()
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Ya existe una factura cargada para este proveedor con ese CUIT.", errBody.Message)
}

func TestRouter_ReportsAreAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/reports?period=anual", env.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/reports?period=diario", env.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/reports/export?period=anual", env.admin, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "reporte_anual_")

	resp = env.do(t, http.MethodGet, "/api/dashboard/summary", env.staff, nil)
	var summary dto.DashboardSummaryDTO
	decode(t, resp, &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Customers(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/customers", env.staff, map[string]any{"name": "Kiosco Luna", "cuit": "20-11111111-1"})
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Todos los campos obligatorios deben estar completos.", errBody.Message)

	resp = env.do(t, http.MethodPost, "/api/customers", env.staff,
		map[string]any{"name": "Kiosco Luna", "cuit": "20-11111111-1", "vat_status": "Monotributo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.CustomerResponse
	decode(t, resp, &created)
	assert.True(t, created.Active)

	resp = env.do(t, http.MethodGet, "/api/customers?search=luna", env.staff, nil)
	var list []dto.CustomerResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Monotributo", list[0].VATStatus)

	resp = env.do(t, http.MethodDelete, "/api/customers/"+created.ID, env.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/customers/"+created.ID, env.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/customers/"+created.ID, env.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/activity?module=clientes", env.admin, nil)
	var hist []dto.ActivityEntryResponse
	decode(t, resp, &hist)
	require.Len(t, hist, 2)
}

func TestRouter_StaffHours(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/staff", env.staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	u, err := env.store.Users().GetByEmail(context.Background(), "caja@example.com")
	require.NoError(t, err)
	resp = env.do(t, http.MethodPut, "/api/staff/"+u.ID+"/hours", env.admin,
		map[string]any{"day": 8, "week": 40, "month": 160, "year": 1900})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPut, "/api/staff/"+u.ID+"/hours", env.admin, map[string]any{"day": 30})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/staff?period=mes", env.admin, nil)
	var rep dto.StaffReportDTO
	decode(t, resp, &rep)
	assert.Equal(t, "mes", rep.Period)
	assert.EqualValues(t, 160, rep.Total)
	require.Len(t, rep.Members, 2)

	resp = env.do(t, http.MethodGet, "/api/staff?period=quincena", env.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/staff/export", env.admin, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "carga_horaria_semana_")
}
