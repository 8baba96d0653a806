// Package mydata contiene validaciones de dominio para documentos fiscales
// AADE myDATA. Utiliza catálogos y reglas de pkg/mydata.
package mydata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/pkg/mydata"
)

// ErrInvalidInvoice agrupa errores de validación del documento.
var ErrInvalidInvoice = errors.New("documento inválido para myDATA")

// tolerancia para IVA por línea cuando el neto se deriva de un precio con IVA incluido.
var vatTolerance = decimal.RequireFromString("0.01")

// ValidateInvoice comprueba las invariantes del documento antes de serializarlo:
// numeración de líneas 1..n, IVA coherente con la categoría, totales iguales a
// la suma de las líneas y bruto = neto + IVA + cargos − deducciones − retenciones.
func ValidateInvoice(inv *entity.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: documento nulo", ErrInvalidInvoice)
	}
	var errs []error

	if strings.TrimSpace(inv.Issuer.VATNumber) == "" || strings.TrimSpace(inv.Issuer.Country) == "" {
		errs = append(errs, errors.New("emisor sin ΑΦΜ o país"))
	}
	if inv.Counterpart != nil && (strings.TrimSpace(inv.Counterpart.VATNumber) == "" || strings.TrimSpace(inv.Counterpart.Country) == "") {
		errs = append(errs, errors.New("receptor sin ΑΦΜ o país"))
	}
	if _, err := inv.Type.Code(); err != nil {
		errs = append(errs, err)
	}
	if len(inv.Currency) != 3 {
		errs = append(errs, fmt.Errorf("moneda %q no es un código ISO 4217", inv.Currency))
	}
	if !mydata.ValidPaymentMethods[inv.PaymentMethod] {
		errs = append(errs, fmt.Errorf("medio de pago %d desconocido", inv.PaymentMethod))
	}

	if len(inv.Rows) == 0 {
		errs = append(errs, errors.New("el documento debe tener al menos una línea"))
	}
	var sumNet, sumVAT decimal.Decimal
	for i, r := range inv.Rows {
		if r.LineNumber != i+1 {
			errs = append(errs, fmt.Errorf("línea %d: lineNumber %d fuera de secuencia", i+1, r.LineNumber))
		}
		rate, ok := mydata.VATRate(r.VATCategory)
		if !ok {
			errs = append(errs, fmt.Errorf("línea %d: categoría de IVA %d desconocida", r.LineNumber, r.VATCategory))
		} else {
			expected := r.NetValue.Mul(rate).Round(2)
			if r.VATAmount.Sub(expected).Abs().GreaterThan(vatTolerance) {
				errs = append(errs, fmt.Errorf("línea %d: IVA %s no corresponde a %s × %s", r.LineNumber, r.VATAmount, r.NetValue, rate))
			}
		}
		sumNet = sumNet.Add(r.NetValue)
		sumVAT = sumVAT.Add(r.VATAmount)
	}

	s := inv.Summary
	if !s.TotalNetValue.Round(2).Equal(sumNet.Round(2)) {
		errs = append(errs, fmt.Errorf("neto total (%s) no coincide con la suma de líneas (%s)", s.TotalNetValue, sumNet.Round(2)))
	}
	if !s.TotalVATAmount.Round(2).Equal(sumVAT.Round(2)) {
		errs = append(errs, fmt.Errorf("IVA total (%s) no coincide con la suma de líneas (%s)", s.TotalVATAmount, sumVAT.Round(2)))
	}
	if !s.TotalGrossValue.Round(2).Equal(s.ExpectedGross().Round(2)) {
		errs = append(errs, fmt.Errorf("bruto total (%s) no coincide con el calculado (%s)", s.TotalGrossValue, s.ExpectedGross().Round(2)))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidInvoice}, errs...)...)
	}
	return nil
}
