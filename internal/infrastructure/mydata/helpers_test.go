package mydata_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testClassification = entity.Classification{Type: "E3_561_001", Category: "category1_1"}

// buildAcmeInvoice factura de venta 1.1 a "Acme SA": una línea 100.00 + IVA 24%.
func buildAcmeInvoice() *entity.Invoice {
	return &entity.Invoice{
		UID:         "6f1d3c8e-2b4a-5c9d-8e7f-0a1b2c3d4e5f",
		Issuer:      entity.Party{VATNumber: "123456783", Country: "GR"},
		Counterpart: &entity.Party{VATNumber: "EL123456789", Country: "GR", Name: "Acme SA"},
		Type:        entity.InvoiceTypeSales,
		Series:      "A",
		AA:          "1001",
		IssueDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency:    "EUR",
		Rows: []entity.InvoiceRow{
			{LineNumber: 1, NetValue: d("100.00"), VATCategory: 1, VATAmount: d("24.00"), Classification: testClassification},
		},
		Summary: entity.InvoiceSummary{
			TotalNetValue:   d("100.00"),
			TotalVATAmount:  d("24.00"),
			TotalGrossValue: d("124.00"),
		},
		PaymentMethod: 5,
	}
}

// buildRetailInvoice recibo de venta al público 11.1 con dos clasificaciones distintas.
func buildRetailInvoice() *entity.Invoice {
	services := entity.Classification{Type: "E3_561_003", Category: "category1_3"}
	return &entity.Invoice{
		UID:       "retail-1",
		Issuer:    entity.Party{VATNumber: "123456783", Country: "GR"},
		Type:      entity.InvoiceTypeRetail,
		Series:    "A",
		AA:        "1002",
		IssueDate: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		Currency:  "EUR",
		Rows: []entity.InvoiceRow{
			{LineNumber: 1, NetValue: d("10.50"), VATCategory: 1, VATAmount: d("2.52"), Classification: testClassification},
			{LineNumber: 2, NetValue: d("5.00"), VATCategory: 1, VATAmount: d("1.20"), Classification: services},
			{LineNumber: 3, NetValue: d("4.50"), VATCategory: 1, VATAmount: d("1.08"), Classification: testClassification, DiscountOption: true},
		},
		Summary: entity.InvoiceSummary{
			TotalNetValue:   d("20.00"),
			TotalVATAmount:  d("4.80"),
			TotalGrossValue: d("24.80"),
		},
		PaymentMethod: 3,
	}
}
