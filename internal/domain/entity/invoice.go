package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType tipo de documento myDATA (invoiceType). Conjunto cerrado.
type InvoiceType string

const (
	InvoiceTypeSales      InvoiceType = "1.1"  // Τιμολόγιο Πώλησης (B2B)
	InvoiceTypeService    InvoiceType = "2.1"  // Τιμολόγιο Παροχής Υπηρεσιών
	InvoiceTypeRetail     InvoiceType = "11.1" // Απόδειξη Λιανικής (B2C)
	InvoiceTypeCreditNote InvoiceType = "5.1"  // Πιστωτικό Τιμολόγιο
)

// Code devuelve el código AADE del tipo. Falla si el tipo no pertenece al catálogo.
func (t InvoiceType) Code() (string, error) {
	switch t {
	case InvoiceTypeSales, InvoiceTypeService, InvoiceTypeRetail, InvoiceTypeCreditNote:
		return string(t), nil
	default:
		return "", fmt.Errorf("tipo de documento desconocido %q", string(t))
	}
}

// Label nombre legible del tipo (usado en PDF y logs).
func (t InvoiceType) Label() string {
	switch t {
	case InvoiceTypeSales:
		return "Τιμολόγιο Πώλησης"
	case InvoiceTypeService:
		return "Τιμολόγιο Παροχής Υπηρεσιών"
	case InvoiceTypeRetail:
		return "Απόδειξη Λιανικής Πώλησης"
	case InvoiceTypeCreditNote:
		return "Πιστωτικό Τιμολόγιο"
	default:
		return "Άγνωστο"
	}
}

// ParseInvoiceType convierte un código AADE ("11.1") en InvoiceType.
func ParseInvoiceType(code string) (InvoiceType, error) {
	t := InvoiceType(code)
	if _, err := t.Code(); err != nil {
		return "", err
	}
	return t, nil
}

// Party emisor o receptor del documento.
type Party struct {
	VATNumber  string
	Country    string
	Branch     int
	Name       string
	Address    string
	City       string
	PostalCode string
}

// Classification par tipo/categoría de clasificación de ingresos E3.
type Classification struct {
	Type     string
	Category string
}

// ClassificationAmount clasificación con el importe neto que cubre.
type ClassificationAmount struct {
	Classification
	Amount decimal.Decimal
}

// InvoiceRow línea del documento (invoiceDetails).
type InvoiceRow struct {
	LineNumber     int
	NetValue       decimal.Decimal
	VATCategory    int
	VATAmount      decimal.Decimal
	DiscountOption bool
	Classification Classification
}

// TotalValue neto + IVA de la línea.
func (r InvoiceRow) TotalValue() decimal.Decimal {
	return r.NetValue.Add(r.VATAmount)
}

// InvoiceSummary totales del documento (invoiceSummary).
type InvoiceSummary struct {
	TotalNetValue         decimal.Decimal
	TotalVATAmount        decimal.Decimal
	TotalWithheldAmount   decimal.Decimal
	TotalFeesAmount       decimal.Decimal
	TotalStampDutyAmount  decimal.Decimal
	TotalOtherTaxesAmount decimal.Decimal
	TotalDeductionsAmount decimal.Decimal
	TotalGrossValue       decimal.Decimal
}

// ExpectedGross neto + IVA + tasas + timbre + otros impuestos − deducciones − retenciones.
func (s InvoiceSummary) ExpectedGross() decimal.Decimal {
	return s.TotalNetValue.
		Add(s.TotalVATAmount).
		Add(s.TotalFeesAmount).
		Add(s.TotalStampDutyAmount).
		Add(s.TotalOtherTaxesAmount).
		Sub(s.TotalDeductionsAmount).
		Sub(s.TotalWithheldAmount)
}

// Invoice documento fiscal myDATA. Se construye completo una sola vez y no se
// modifica después de transmitirse; una corrección es una nota de crédito nueva.
type Invoice struct {
	UID            string
	Mark           string // asignado por AADE tras la recepción
	CancelledMark  string
	CorrelatedMark string // mark del documento original (notas de crédito)
	Issuer         Party
	Counterpart    *Party
	Type           InvoiceType
	Series         string
	AA             string
	IssueDate      time.Time
	Currency       string
	Rows           []InvoiceRow
	Summary        InvoiceSummary
	PaymentMethod  int
}

// ClassificationTotals agrega el neto de las líneas por par tipo/categoría,
// en el orden de primera aparición.
func (inv *Invoice) ClassificationTotals() []ClassificationAmount {
	var out []ClassificationAmount
	index := make(map[Classification]int)
	for _, r := range inv.Rows {
		i, ok := index[r.Classification]
		if !ok {
			index[r.Classification] = len(out)
			out = append(out, ClassificationAmount{Classification: r.Classification, Amount: r.NetValue})
			continue
		}
		out[i].Amount = out[i].Amount.Add(r.NetValue)
	}
	return out
}
