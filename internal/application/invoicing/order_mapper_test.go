package invoicing_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mydata-invoicing/internal/application/invoicing"
	"github.com/jhoicas/mydata-invoicing/internal/domain"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	domainmydata "github.com/jhoicas/mydata-invoicing/internal/domain/mydata"
)

func TestOrderMapper_EmpresaConAFMEsFactura(t *testing.T) {
	m := newTestMapper(testMapperConfig())

	inv, err := m.Map(acmeOrder())
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceTypeSales, inv.Type)
	require.NotNil(t, inv.Counterpart)
	assert.Equal(t, "EL123456789", inv.Counterpart.VATNumber)
	assert.Equal(t, "GR", inv.Counterpart.Country)
	assert.Equal(t, "Acme SA", inv.Counterpart.Name)

	require.Len(t, inv.Rows, 1)
	assert.Equal(t, 1, inv.Rows[0].LineNumber)
	assert.Equal(t, "100.00", inv.Rows[0].NetValue.StringFixed(2))
	assert.Equal(t, "24.00", inv.Rows[0].VATAmount.StringFixed(2))

	assert.Equal(t, "100.00", inv.Summary.TotalNetValue.StringFixed(2))
	assert.Equal(t, "24.00", inv.Summary.TotalVATAmount.StringFixed(2))
	assert.Equal(t, "124.00", inv.Summary.TotalGrossValue.StringFixed(2))

	assert.Equal(t, "A", inv.Series)
	assert.Equal(t, "1001", inv.AA)
	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, fixedNow, inv.IssueDate)
	assert.NoError(t, domainmydata.ValidateInvoice(inv))
}

func TestOrderMapper_SinEmpresaEsRecibo(t *testing.T) {
	m := newTestMapper(testMapperConfig())

	inv, err := m.Map(retailOrder())
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceTypeRetail, inv.Type)
	assert.Nil(t, inv.Counterpart)
	require.Len(t, inv.Rows, 2)
	assert.Equal(t, 2, inv.Rows[1].LineNumber)
	assert.Equal(t, "9.99", inv.Rows[1].NetValue.StringFixed(2))
	assert.Equal(t, "2.40", inv.Rows[1].VATAmount.StringFixed(2))
	assert.Equal(t, "24.99", inv.Summary.TotalNetValue.StringFixed(2))
	assert.Equal(t, "6.00", inv.Summary.TotalVATAmount.StringFixed(2))
	assert.Equal(t, "30.99", inv.Summary.TotalGrossValue.StringFixed(2))
	assert.NoError(t, domainmydata.ValidateInvoice(inv))
}

func TestOrderMapper_EmpresaSinAFMEsRecibo(t *testing.T) {
	m := newTestMapper(testMapperConfig())
	order := acmeOrder()
	order.NoteAttributes = []entity.NoteAttribute{{Name: "gift_message", Value: "Happy birthday"}}

	inv, err := m.Map(order)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceTypeRetail, inv.Type)
	assert.Nil(t, inv.Counterpart)
}

func TestOrderMapper_AFMVacioEsRecibo(t *testing.T) {
	m := newTestMapper(testMapperConfig())
	order := acmeOrder()
	order.NoteAttributes = []entity.NoteAttribute{{Name: "VAT", Value: "   "}}

	inv, err := m.Map(order)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceTypeRetail, inv.Type)
}

func TestOrderMapper_VariantesDelNombreDelAtributo(t *testing.T) {
	cases := []string{"vat_number", "Company VAT", "AFM", "ΑΦΜ πελάτη"}
	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			m := newTestMapper(testMapperConfig())
			order := acmeOrder()
			order.NoteAttributes = []entity.NoteAttribute{{Name: name, Value: "094014201"}}

			inv, err := m.Map(order)
			require.NoError(t, err)
			assert.Equal(t, entity.InvoiceTypeSales, inv.Type)
			require.NotNil(t, inv.Counterpart)
			assert.Equal(t, "094014201", inv.Counterpart.VATNumber)
		})
	}
}

func TestOrderMapper_PaisPorDefectoDelReceptor(t *testing.T) {
	m := newTestMapper(testMapperConfig())
	order := acmeOrder()
	order.BillingAddress.CountryCode = ""

	inv, err := m.Map(order)
	require.NoError(t, err)
	require.NotNil(t, inv.Counterpart)
	assert.Equal(t, "GR", inv.Counterpart.Country)
}

func TestOrderMapper_NoMapeable(t *testing.T) {
	m := newTestMapper(testMapperConfig())

	noItems := acmeOrder()
	noItems.LineItems = nil

	noID := acmeOrder()
	noID.ID = ""

	badQty := acmeOrder()
	badQty.LineItems[0].Quantity = 0

	negative := acmeOrder()
	negative.LineItems[0].Price = d("-1.00")

	tests := []struct {
		name  string
		order *entity.Order
	}{
		{"pedido nulo", nil},
		{"sin líneas", noItems},
		{"sin id", noID},
		{"cantidad cero", badQty},
		{"precio negativo", negative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := m.Map(tt.order)
			assert.Nil(t, inv)
			assert.ErrorIs(t, err, domain.ErrNotMappable)
		})
	}
}

func TestOrderMapper_ImpuestosIncluidos(t *testing.T) {
	order := acmeOrder()
	order.TaxesIncluded = true
	order.LineItems[0].Price = d("12.40")

	t.Run("ignorado por defecto", func(t *testing.T) {
		inv, err := newTestMapper(testMapperConfig()).Map(order)
		require.NoError(t, err)
		assert.Equal(t, "12.40", inv.Rows[0].NetValue.StringFixed(2))
		assert.Equal(t, "2.98", inv.Rows[0].VATAmount.StringFixed(2))
	})

	t.Run("respetado si se activa", func(t *testing.T) {
		cfg := testMapperConfig()
		cfg.HonorTaxesIncluded = true
		inv, err := newTestMapper(cfg).Map(order)
		require.NoError(t, err)
		assert.Equal(t, "10.00", inv.Rows[0].NetValue.StringFixed(2))
		assert.Equal(t, "2.40", inv.Rows[0].VATAmount.StringFixed(2))
		assert.Equal(t, "12.40", inv.Summary.TotalGrossValue.StringFixed(2))
		assert.NoError(t, domainmydata.ValidateInvoice(inv))
	})
}

func TestOrderMapper_EstrategiasDeUID(t *testing.T) {
	det := newTestMapper(testMapperConfig())
	first, err := det.Map(acmeOrder())
	require.NoError(t, err)
	second, err := det.Map(acmeOrder())
	require.NoError(t, err)
	assert.Equal(t, first.UID, second.UID, "deterministic uid must survive redelivery")

	cfg := testMapperConfig()
	cfg.UIDStrategy = domainmydata.UIDStrategyTimestamp
	inv, err := newTestMapper(cfg).Map(acmeOrder())
	require.NoError(t, err)
	assert.Equal(t, "820982911946154508-1773570600", inv.UID)
}

func TestOrderMapper_AASinNumeroUsaID(t *testing.T) {
	order := retailOrder()
	order.OrderNumber = ""

	inv, err := newTestMapper(testMapperConfig()).Map(order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, inv.AA)
}

func TestNewOrderMapper_CategoriaIVADesconocida(t *testing.T) {
	cfg := testMapperConfig()
	cfg.VATCategory = 42
	_, err := invoicing.NewOrderMapper(cfg, zerolog.Nop())
	assert.Error(t, err)
}
