package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mydata-invoicing/internal/application/dto"
	"github.com/jhoicas/mydata-invoicing/internal/application/invoicing"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/internal/infrastructure/memory"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
	"github.com/jhoicas/mydata-invoicing/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/mydata-invoicing/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/mydata-invoicing/pkg/jwt"
	"github.com/jhoicas/mydata-invoicing/pkg/mydata"
)

const (
	testWebhookSecret = "shpss_test_secret"

	acmeOrderJSON = `{
  "id": 820982911946154508,
  "order_number": 1001,
  "currency": "eur",
  "taxes_included": false,
  "billing_address": {"company": "Acme SA", "country_code": "GR"},
  "line_items": [{"title": "Widget", "price": "100.00", "quantity": 1}],
  "note_attributes": [{"name": "VAT", "value": "EL123456789"}]
}`
)

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// newTestService monta el router completo en modo simulado sobre el repositorio en memoria.
func newTestService(t *testing.T) (*fiber.App, *memory.TransmissionRepo) {
	t.Helper()
	mapper, err := invoicing.NewOrderMapper(invoicing.MapperConfig{
		Issuer:        entity.Party{VATNumber: "123456783", Country: "GR"},
		VATCategory:   mydata.VATCategory24,
		Series:        "A",
		PaymentMethod: mydata.PaymentMethodBankTransfer,
		Classification: entity.Classification{
			Type:     mydata.ClassificationTypeSalesOfGoods,
			Category: mydata.ClassificationCategoryGoods,
		},
	}, zerolog.Nop())
	require.NoError(t, err)

	repo := memory.NewTransmissionRepository()
	client := inframydata.NewClient(inframydata.ClientConfig{}, nil, nil, zerolog.Nop())
	orch := invoicing.NewOrchestrator(mapper, client, repo, zerolog.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Orchestrator:  orch,
		PDFUC:         invoicing.NewPDFUseCase(repo, pdf.NewMarotoReceiptGenerator("E-Shop IKE")),
		Transmissions: repo,
		JWTSecret:     testJWTSecret,
		WebhookSecret: testWebhookSecret,
		Log:           zerolog.Nop(),
	})
	return app, repo
}

func postWebhook(t *testing.T, app *fiber.App, body []byte, signature string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify/orders-paid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(apphttp.HeaderShopifyHmac, signature)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func authed(t *testing.T, app *fiber.App, method, path, role string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// waitForRecord espera a que el procesamiento asíncrono del webhook persista el registro.
func waitForRecord(t *testing.T, repo *memory.TransmissionRepo) *entity.TransmissionRecord {
	t.Helper()
	var rec *entity.TransmissionRecord
	require.Eventually(t, func() bool {
		recs, _, err := repo.List(context.Background(), 1, 0)
		if err != nil || len(recs) == 0 {
			return false
		}
		rec = recs[0]
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return rec
}

func TestWebhook_PedidoFirmadoAceptado(t *testing.T) {
	app, repo := newTestService(t)
	body := []byte(acmeOrderJSON)

	resp := postWebhook(t, app, body, sign(body))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accepted dto.OrderAcceptedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))
	assert.Equal(t, "820982911946154508", accepted.OrderID)
	assert.Equal(t, dto.OrderStatusAccepted, accepted.Status)

	rec := waitForRecord(t, repo)
	assert.Equal(t, entity.TransmissionStatusMock, rec.Status)
	assert.Equal(t, entity.InvoiceTypeSales, rec.InvoiceType)
	assert.Equal(t, "124.00", rec.GrossTotal.StringFixed(2))
}

func TestWebhook_FirmaInvalida_Retorna401(t *testing.T) {
	app, _ := newTestService(t)
	body := []byte(acmeOrderJSON)

	resp := postWebhook(t, app, body, sign([]byte("otro cuerpo")))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp2 := postWebhook(t, app, body, "")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestWebhook_CuerpoMalformado_Retorna400(t *testing.T) {
	app, _ := newTestService(t)
	body := []byte(`{"id": `)

	resp := postWebhook(t, app, body, sign(body))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebhook_PedidoInvalidoSeConfirmaComoOmitido(t *testing.T) {
	cases := map[string]string{
		"sin id":          `{"order_number": 1, "line_items": []}`,
		"cantidad cero":   `{"id": 1, "order_number": 1, "line_items": [{"price": "1.00", "quantity": 0}]}`,
		"moneda inválida": `{"id": 1, "order_number": 1, "currency": "EURO"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			proc := &recordingProcessor{}
			h := apphttp.NewWebhookHandler(proc, testWebhookSecret, zerolog.Nop())
			app := fiber.New()
			app.Post("/hook", h.OrdersPaid)

			body := []byte(raw)
			req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
			req.Header.Set(apphttp.HeaderShopifyHmac, sign(body))
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out dto.OrderAcceptedResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, dto.OrderStatusSkipped, out.Status)
			assert.NotEmpty(t, out.Reason)
			assert.Empty(t, proc.orders)
		})
	}
}

// recordingProcessor captura los pedidos entregados por el webhook.
type recordingProcessor struct {
	mu     sync.Mutex
	orders []*entity.Order
}

func (p *recordingProcessor) ProcessAsync(o *entity.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
}

func TestWebhookHandler_EntregaPedidoNormalizado(t *testing.T) {
	proc := &recordingProcessor{}
	h := apphttp.NewWebhookHandler(proc, testWebhookSecret, zerolog.Nop())
	app := fiber.New()
	app.Post("/hook", h.OrdersPaid)

	body := []byte(acmeOrderJSON)
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(apphttp.HeaderShopifyHmac, sign(body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, proc.orders, 1)
	o := proc.orders[0]
	assert.Equal(t, "820982911946154508", o.ID)
	assert.Equal(t, "1001", o.OrderNumber)
	assert.Equal(t, "EUR", o.Currency)
	require.NotNil(t, o.BillingAddress)
	assert.Equal(t, "Acme SA", o.BillingAddress.Company)
}

func TestWebhookHandler_SinSecretRechazaTodo(t *testing.T) {
	proc := &recordingProcessor{}
	h := apphttp.NewWebhookHandler(proc, "", zerolog.Nop())
	app := fiber.New()
	app.Post("/hook", h.OrdersPaid)

	body := []byte(acmeOrderJSON)
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(apphttp.HeaderShopifyHmac, sign(body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, proc.orders)
}

func TestInvoiceAPI_ConsultaListadoPDFYNotaDeCredito(t *testing.T) {
	app, repo := newTestService(t)
	body := []byte(acmeOrderJSON)
	resp := postWebhook(t, app, body, sign(body))
	resp.Body.Close()
	rec := waitForRecord(t, repo)

	// GET /api/invoices/:uid
	resp = authed(t, app, http.MethodGet, "/api/invoices/"+rec.UID, pkgjwt.RoleAuditor)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.TransmissionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, rec.UID, got.UID)
	assert.Equal(t, inframydata.MockMark, got.Mark)
	assert.Equal(t, "1.1", got.InvoiceType)

	// GET /api/invoices
	resp = authed(t, app, http.MethodGet, "/api/invoices?limit=5", pkgjwt.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.TransmissionListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 5, list.Page.Limit)
	assert.False(t, list.Page.HasMore)

	// GET /api/invoices/:uid/pdf
	resp = authed(t, app, http.MethodGet, "/api/invoices/"+rec.UID+"/pdf", pkgjwt.RoleAuditor)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdfBytes, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	// POST /api/invoices/:uid/credit-note: solo admin
	resp = authed(t, app, http.MethodPost, "/api/invoices/"+rec.UID+"/credit-note", pkgjwt.RoleAuditor)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = authed(t, app, http.MethodPost, "/api/invoices/"+rec.UID+"/credit-note", pkgjwt.RoleAdmin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var note dto.CreditNoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	resp.Body.Close()
	assert.Equal(t, rec.UID, note.CorrelatedUID)
	assert.Equal(t, inframydata.MockMark, note.CorrelatedMark)
	assert.Equal(t, entity.TransmissionStatusMock, note.Status)
	assert.NotEqual(t, rec.UID, note.UID)
}

func TestInvoiceAPI_Errores(t *testing.T) {
	app, _ := newTestService(t)

	resp := authed(t, app, http.MethodGet, "/api/invoices/missing", pkgjwt.RoleAdmin)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = authed(t, app, http.MethodPost, "/api/invoices/missing/credit-note", pkgjwt.RoleAdmin)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = authed(t, app, http.MethodGet, "/api/invoices?limit=500", pkgjwt.RoleAdmin)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
