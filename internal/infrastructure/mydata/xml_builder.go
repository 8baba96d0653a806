package mydata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/pkg/mydata"
)

const issueDateLayout = "2006-01-02"

// XMLBuilderService construye el XML InvoicesDoc de un documento myDATA.
// Es una función pura: el mismo Invoice produce siempre los mismos bytes.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera el []byte del InvoicesDoc con un único <invoice>.
// Todos los importes se escriben con dos decimales, redondeo half away from zero.
func (s *XMLBuilderService) Build(inv *entity.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("%w: documento nulo", ErrSerialization)
	}
	if strings.TrimSpace(inv.Issuer.VATNumber) == "" {
		return nil, ErrMissingIssuerVAT
	}
	if inv.IssueDate.IsZero() {
		return nil, ErrMissingIssueDate
	}
	if len(inv.Rows) == 0 {
		return nil, ErrMissingRows
	}
	typeCode, err := inv.Type.Code()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownInvoiceType, err)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("InvoicesDoc")
	root.CreateAttr("xmlns", mydata.NamespaceInvoice)
	root.CreateAttr("xmlns:xsi", mydata.NamespaceXSI)
	root.CreateAttr("xmlns:icls", mydata.NamespaceIncomeClassification)
	root.CreateAttr("xsi:schemaLocation", mydata.SchemaLocationInvoicesDoc)

	el := root.CreateElement("invoice")

	// ── issuer / counterpart ──
	writeParty(el.CreateElement("issuer"), inv.Issuer)
	if inv.Counterpart != nil {
		writeParty(el.CreateElement("counterpart"), *inv.Counterpart)
	}

	// ── invoiceHeader ──
	header := el.CreateElement("invoiceHeader")
	header.CreateElement("series").SetText(inv.Series)
	header.CreateElement("aa").SetText(inv.AA)
	header.CreateElement("issueDate").SetText(inv.IssueDate.Format(issueDateLayout))
	header.CreateElement("invoiceType").SetText(typeCode)
	header.CreateElement("currency").SetText(inv.Currency)
	if inv.CorrelatedMark != "" {
		header.CreateElement("correlatedInvoices").SetText(inv.CorrelatedMark)
	}

	// ── paymentMethods ──
	pm := el.CreateElement("paymentMethods").CreateElement("paymentMethodDetails")
	pm.CreateElement("type").SetText(strconv.Itoa(inv.PaymentMethod))
	pm.CreateElement("amount").SetText(FormatAmount(inv.Summary.TotalGrossValue))

	// ── invoiceDetails ──
	for _, r := range inv.Rows {
		row := el.CreateElement("invoiceDetails")
		row.CreateElement("lineNumber").SetText(strconv.Itoa(r.LineNumber))
		row.CreateElement("netValue").SetText(FormatAmount(r.NetValue))
		row.CreateElement("vatCategory").SetText(strconv.Itoa(r.VATCategory))
		row.CreateElement("vatAmount").SetText(FormatAmount(r.VATAmount))
		if r.DiscountOption {
			row.CreateElement("discountOption").SetText("true")
		}
		writeClassification(row, r.Classification, r.NetValue)
	}

	// ── invoiceSummary ──
	sum := el.CreateElement("invoiceSummary")
	sum.CreateElement("totalNetValue").SetText(FormatAmount(inv.Summary.TotalNetValue))
	sum.CreateElement("totalVatAmount").SetText(FormatAmount(inv.Summary.TotalVATAmount))
	sum.CreateElement("totalWithheldAmount").SetText(FormatAmount(inv.Summary.TotalWithheldAmount))
	sum.CreateElement("totalFeesAmount").SetText(FormatAmount(inv.Summary.TotalFeesAmount))
	sum.CreateElement("totalStampDutyAmount").SetText(FormatAmount(inv.Summary.TotalStampDutyAmount))
	sum.CreateElement("totalOtherTaxesAmount").SetText(FormatAmount(inv.Summary.TotalOtherTaxesAmount))
	sum.CreateElement("totalDeductionsAmount").SetText(FormatAmount(inv.Summary.TotalDeductionsAmount))
	sum.CreateElement("totalGrossValue").SetText(FormatAmount(inv.Summary.TotalGrossValue))
	for _, c := range inv.ClassificationTotals() {
		writeClassification(sum, c.Classification, c.Amount)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("mydata: escribir InvoicesDoc: %w", err)
	}
	return out, nil
}

// FormatAmount formatea un importe con exactamente dos decimales ("124.00").
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func writeParty(el *etree.Element, p entity.Party) {
	el.CreateElement("vatNumber").SetText(strings.TrimSpace(p.VATNumber))
	el.CreateElement("country").SetText(strings.ToUpper(strings.TrimSpace(p.Country)))
	el.CreateElement("branch").SetText(strconv.Itoa(p.Branch))
}

func writeClassification(parent *etree.Element, c entity.Classification, amount decimal.Decimal) {
	ic := parent.CreateElement("incomeClassification")
	ic.CreateElement("icls:classificationType").SetText(c.Type)
	ic.CreateElement("icls:classificationCategory").SetText(c.Category)
	ic.CreateElement("icls:amount").SetText(FormatAmount(amount))
}
