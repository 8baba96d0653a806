package mydata_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	infra "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
)

func TestBuild_FacturaAcme(t *testing.T) {
	out, err := infra.NewXMLBuilderService().Build(buildAcmeInvoice())
	require.NoError(t, err)
	xml := string(out)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, `xmlns="http://www.aade.gr/myDATA/invoice/v1.0"`)
	assert.Contains(t, xml, `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	assert.Contains(t, xml, `xmlns:icls="https://www.aade.gr/myDATA/incomeClassificaton/v1.0"`)
	assert.Contains(t, xml, `xsi:schemaLocation=`)

	assert.Contains(t, xml, "<counterpart>")
	assert.Contains(t, xml, "<vatNumber>EL123456789</vatNumber>")
	assert.Contains(t, xml, "<invoiceType>1.1</invoiceType>")
	assert.Contains(t, xml, "<issueDate>2026-03-15</issueDate>")
	assert.Contains(t, xml, "<currency>EUR</currency>")
	assert.Contains(t, xml, "<netValue>100.00</netValue>")
	assert.Contains(t, xml, "<vatAmount>24.00</vatAmount>")
	assert.Contains(t, xml, "<totalGrossValue>124.00</totalGrossValue>")
	assert.Contains(t, xml, "<amount>124.00</amount>")
	assert.Contains(t, xml, "<icls:classificationType>E3_561_001</icls:classificationType>")
	assert.Contains(t, xml, "<icls:classificationCategory>category1_1</icls:classificationCategory>")
	assert.NotContains(t, xml, "correlatedInvoices")
}

func TestBuild_OrdenDeElementos(t *testing.T) {
	out, err := infra.NewXMLBuilderService().Build(buildAcmeInvoice())
	require.NoError(t, err)
	xml := string(out)

	assertOrder(t, xml,
		"<issuer>", "<counterpart>", "<invoiceHeader>", "<paymentMethods>",
		"<invoiceDetails>", "<invoiceSummary>")
	assertOrder(t, xml,
		"<series>", "<aa>", "<issueDate>", "<invoiceType>", "<currency>")
	assertOrder(t, xml,
		"<lineNumber>", "<netValue>", "<vatCategory>", "<vatAmount>", "<incomeClassification>")
	assertOrder(t, xml,
		"<totalNetValue>", "<totalVatAmount>", "<totalWithheldAmount>", "<totalFeesAmount>",
		"<totalStampDutyAmount>", "<totalOtherTaxesAmount>", "<totalDeductionsAmount>", "<totalGrossValue>")
}

func TestBuild_RetailSinCounterpart(t *testing.T) {
	out, err := infra.NewXMLBuilderService().Build(buildRetailInvoice())
	require.NoError(t, err)
	xml := string(out)

	assert.NotContains(t, xml, "<counterpart>")
	assert.Contains(t, xml, "<invoiceType>11.1</invoiceType>")
	assert.Equal(t, 3, strings.Count(xml, "<invoiceDetails>"))
	assert.Contains(t, xml, "<discountOption>true</discountOption>")

	// resumen: una clasificación por par, E3_561_001 = 10.50 + 4.50
	summary := xml[strings.Index(xml, "<invoiceSummary>"):]
	assert.Equal(t, 2, strings.Count(summary, "<incomeClassification>"))
	assert.Contains(t, summary, "<icls:amount>15.00</icls:amount>")
	assert.Contains(t, summary, "<icls:amount>5.00</icls:amount>")
	assertOrder(t, summary, "E3_561_001", "E3_561_003")
}

func TestBuild_Idempotente(t *testing.T) {
	svc := infra.NewXMLBuilderService()
	inv := buildRetailInvoice()
	a, err := svc.Build(inv)
	require.NoError(t, err)
	b, err := svc.Build(inv)
	require.NoError(t, err)
	assert.Equal(t, a, b, "el mismo documento debe producir bytes idénticos")
}

func TestBuild_NotaDeCreditoConCorrelacion(t *testing.T) {
	inv := buildAcmeInvoice()
	inv.Type = entity.InvoiceTypeCreditNote
	inv.CorrelatedMark = "400001234567890"
	out, err := infra.NewXMLBuilderService().Build(inv)
	require.NoError(t, err)
	assertOrder(t, string(out), "<currency>", "<correlatedInvoices>400001234567890</correlatedInvoices>", "</invoiceHeader>")
}

// ── Errores de serialización ─────────────────────────────────────────────────

func TestBuild_ErrorSinLineas(t *testing.T) {
	inv := buildAcmeInvoice()
	inv.Rows = nil
	_, err := infra.NewXMLBuilderService().Build(inv)
	require.ErrorIs(t, err, infra.ErrMissingRows)
	assert.ErrorIs(t, err, infra.ErrSerialization)
}

func TestBuild_ErrorSinEmisor(t *testing.T) {
	inv := buildAcmeInvoice()
	inv.Issuer.VATNumber = " "
	_, err := infra.NewXMLBuilderService().Build(inv)
	assert.ErrorIs(t, err, infra.ErrMissingIssuerVAT)
}

func TestBuild_ErrorSinFecha(t *testing.T) {
	inv := buildAcmeInvoice()
	inv.IssueDate = time.Time{}
	_, err := infra.NewXMLBuilderService().Build(inv)
	assert.ErrorIs(t, err, infra.ErrMissingIssueDate)
}

func TestBuild_ErrorTipoDesconocido(t *testing.T) {
	inv := buildAcmeInvoice()
	inv.Type = entity.InvoiceType("8.1")
	_, err := infra.NewXMLBuilderService().Build(inv)
	assert.ErrorIs(t, err, infra.ErrUnknownInvoiceType)
}

func TestBuild_ErrorNil(t *testing.T) {
	_, err := infra.NewXMLBuilderService().Build(nil)
	assert.ErrorIs(t, err, infra.ErrSerialization)
}

// ── Formato de importes ───────────────────────────────────────────────────────

func TestFormatAmount_DosDecimales(t *testing.T) {
	cases := map[string]string{
		"10":     "10.00",
		"0":      "0.00",
		"2.345":  "2.35",
		"2.344":  "2.34",
		"-2.345": "-2.35",
		"0.005":  "0.01",
		"99.999": "100.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, infra.FormatAmount(d(in)), "FormatAmount(%s)", in)
	}
}

func assertOrder(t *testing.T, s string, fragments ...string) {
	t.Helper()
	last := -1
	for _, f := range fragments {
		i := strings.Index(s, f)
		require.GreaterOrEqual(t, i, 0, "no se encontró %q", f)
		require.Greater(t, i, last, "%q fuera de orden", f)
		last = i
	}
}
