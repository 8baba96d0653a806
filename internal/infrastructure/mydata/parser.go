package mydata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
)

// ParserService lee un InvoicesDoc y reconstruye el documento de dominio.
type ParserService struct{}

// NewParserService crea el servicio.
func NewParserService() *ParserService {
	return &ParserService{}
}

// Parse devuelve el primer <invoice> del InvoicesDoc. Los importes y códigos
// se conservan tal como fueron serializados.
func (s *ParserService) Parse(data []byte) (*entity.Invoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	root := doc.SelectElement("InvoicesDoc")
	if root == nil {
		return nil, fmt.Errorf("%w: falta el elemento raíz InvoicesDoc", ErrMalformedDocument)
	}
	el := root.SelectElement("invoice")
	if el == nil {
		return nil, fmt.Errorf("%w: falta <invoice>", ErrMalformedDocument)
	}

	p := &fieldReader{}
	inv := &entity.Invoice{}

	if issuer := el.SelectElement("issuer"); issuer != nil {
		inv.Issuer = p.party(issuer)
	} else {
		p.fail("falta <issuer>")
	}
	if cp := el.SelectElement("counterpart"); cp != nil {
		party := p.party(cp)
		inv.Counterpart = &party
	}

	header := el.SelectElement("invoiceHeader")
	if header == nil {
		return nil, fmt.Errorf("%w: falta <invoiceHeader>", ErrMalformedDocument)
	}
	inv.Series = childText(header, "series")
	inv.AA = childText(header, "aa")
	inv.Currency = childText(header, "currency")
	inv.CorrelatedMark = childText(header, "correlatedInvoices")
	inv.IssueDate = p.date(header, "issueDate")
	if t, err := entity.ParseInvoiceType(childText(header, "invoiceType")); err != nil {
		p.fail(err.Error())
	} else {
		inv.Type = t
	}

	if pm := el.FindElement("paymentMethods/paymentMethodDetails"); pm != nil {
		inv.PaymentMethod = p.integer(pm, "type")
	}

	for _, row := range el.SelectElements("invoiceDetails") {
		r := entity.InvoiceRow{
			LineNumber:     p.integer(row, "lineNumber"),
			NetValue:       p.amount(row, "netValue"),
			VATCategory:    p.integer(row, "vatCategory"),
			VATAmount:      p.amount(row, "vatAmount"),
			DiscountOption: childText(row, "discountOption") == "true",
		}
		if ic := row.SelectElement("incomeClassification"); ic != nil {
			r.Classification = entity.Classification{
				Type:     childText(ic, "icls:classificationType"),
				Category: childText(ic, "icls:classificationCategory"),
			}
		}
		inv.Rows = append(inv.Rows, r)
	}

	if sum := el.SelectElement("invoiceSummary"); sum != nil {
		inv.Summary = entity.InvoiceSummary{
			TotalNetValue:         p.amount(sum, "totalNetValue"),
			TotalVATAmount:        p.amount(sum, "totalVatAmount"),
			TotalWithheldAmount:   p.optionalAmount(sum, "totalWithheldAmount"),
			TotalFeesAmount:       p.optionalAmount(sum, "totalFeesAmount"),
			TotalStampDutyAmount:  p.optionalAmount(sum, "totalStampDutyAmount"),
			TotalOtherTaxesAmount: p.optionalAmount(sum, "totalOtherTaxesAmount"),
			TotalDeductionsAmount: p.optionalAmount(sum, "totalDeductionsAmount"),
			TotalGrossValue:       p.amount(sum, "totalGrossValue"),
		}
	} else {
		p.fail("falta <invoiceSummary>")
	}

	if err := p.err(); err != nil {
		return nil, err
	}
	return inv, nil
}

// fieldReader acumula los errores de lectura para reportarlos juntos.
type fieldReader struct {
	errs []error
}

func (p *fieldReader) fail(msg string) {
	p.errs = append(p.errs, errors.New(msg))
}

func (p *fieldReader) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrMalformedDocument}, p.errs...)...)
}

func (p *fieldReader) party(el *etree.Element) entity.Party {
	return entity.Party{
		VATNumber: childText(el, "vatNumber"),
		Country:   childText(el, "country"),
		Branch:    p.integer(el, "branch"),
	}
}

func (p *fieldReader) integer(el *etree.Element, tag string) int {
	v := childText(el, tag)
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Sprintf("<%s/%s>: entero inválido %q", el.Tag, tag, v))
	}
	return n
}

func (p *fieldReader) amount(el *etree.Element, tag string) decimal.Decimal {
	v := childText(el, tag)
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.fail(fmt.Sprintf("<%s/%s>: importe inválido %q", el.Tag, tag, v))
	}
	return d
}

func (p *fieldReader) optionalAmount(el *etree.Element, tag string) decimal.Decimal {
	if el.SelectElement(tag) == nil {
		return decimal.Zero
	}
	return p.amount(el, tag)
}

func (p *fieldReader) date(el *etree.Element, tag string) time.Time {
	v := childText(el, tag)
	t, err := time.Parse(issueDateLayout, v)
	if err != nil {
		p.fail(fmt.Sprintf("<%s/%s>: fecha inválida %q", el.Tag, tag, v))
	}
	return t
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
