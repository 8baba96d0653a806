// Package pdf implementa la representación impresa de los documentos myDATA
// (factura de venta, recibo de venta al público, nota de crédito).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + ΑΦΜ        │  Tipo + Serie/AA + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECEPTOR: ΑΦΜ + país (solo B2B)                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Clasificación | Neto | IVA% | IVA | Total       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Neto / IVA / TOTAL                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER myDATA: MARK + UID + QR                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/application/invoicing"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/pkg/mydata"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// La fuente core helvetica no tiene glifos griegos: los títulos se imprimen en latín.
var typeTitles = map[entity.InvoiceType]string{
	entity.InvoiceTypeSales:      "SALES INVOICE",
	entity.InvoiceTypeService:    "SERVICE INVOICE",
	entity.InvoiceTypeRetail:     "RETAIL RECEIPT",
	entity.InvoiceTypeCreditNote: "CREDIT NOTE",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa invoicing.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	issuerName string
}

// NewMarotoReceiptGenerator construye el generador. issuerName es la razón
// social impresa en la cabecera; vacío = solo el ΑΦΜ.
func NewMarotoReceiptGenerator(issuerName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{issuerName: issuerName}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) Generate(inv *entity.Invoice, rec *entity.TransmissionRecord) ([]byte, error) {
	if inv == nil || rec == nil {
		return nil, fmt.Errorf("pdf: documento o registro nulo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("myDATA "+inv.Series+"-"+inv.AA, true).
		WithAuthor(g.issuerLabel(inv), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if inv.Counterpart != nil {
		m.AddRows(counterpartRow(*inv.Counterpart))
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(inv.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(inv)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(inv, rec)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReceiptGenerator) issuerLabel(inv *entity.Invoice) string {
	return nonEmpty(g.issuerName, inv.Issuer.Name, "VAT "+inv.Issuer.VATNumber)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor + ΑΦΜ (izq) y tipo + serie/AA + fecha (der).
func (g *MarotoReceiptGenerator) headerRow(inv *entity.Invoice) core.Row {
	title := typeTitles[inv.Type]
	if title == "" {
		title = "INVOICE"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuerLabel(inv), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("VAT: %s   |   %s", inv.Issuer.VATNumber, inv.Issuer.Country), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("%s (%s)", title, inv.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Series+" / "+inv.AA, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+inv.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// counterpartRow: datos del receptor (solo documentos B2B).
func counterpartRow(p entity.Party) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("COUNTERPART", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(p.Name, p.VATNumber), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("VAT: %s   |   Country: %s   |   Branch: %d",
				p.VATNumber, p.Country, p.Branch,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("Classification", 4, align.Left),
		h("Net", 2, align.Right),
		h("VAT%", 1, align.Center),
		h("VAT", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea del documento.
func tableDetailRows(rows []entity.InvoiceRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		rate := "-"
		if v, ok := mydata.VATRate(r.VATCategory); ok {
			rate = v.Shift(2).StringFixed(0) + "%"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(r.LineNumber), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(r.Classification.Type+" / "+r.Classification.Category,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(r.NetValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(rate, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(r.VATAmount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(r.TotalValue()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha, una fila por importe.
func totalsRows(inv *entity.Invoice) []core.Row {
	total := func(label, value string, grand bool) core.Row {
		p := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1}
		v := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
		if grand {
			p.Size, p.Color = 10, colorPrimary
			v.Size, v.Color, v.Style = 10, colorPrimary, fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, p)),
			col.New(3).Add(text.New(value, v)),
		)
	}
	s := inv.Summary
	return []core.Row{
		total("Net value:", formatMoney(s.TotalNetValue), false),
		total("VAT:", formatMoney(s.TotalVATAmount), false),
		total("TOTAL ("+inv.Currency+"):", formatMoney(s.TotalGrossValue), true),
	}
}

// footerRows: MARK + UID + QR de verificación de AADE.
func footerRows(inv *entity.Invoice, rec *entity.TransmissionRecord) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("AADE myDATA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("MARK: "+nonEmpty(rec.Mark, "-"), props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("UID: "+rec.UID, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)),
	}
	if inv.CorrelatedMark != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Correlated MARK: "+inv.CorrelatedMark, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}

	rows = append(rows, row.New(3))

	// sin qrUrl de AADE se codifica el MARK
	qr := nonEmpty(rec.QRURL, rec.Mark)
	if qr != "" {
		rows = append(rows, row.New(45).Add(
			col.New(4).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
			col.New(8).Add(
				text.New("Scan the QR code to verify this document\nwith the Independent Authority for Public Revenue.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(statusLegend(rec.Status), props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 22, Left: 3, Color: colorPrimary,
				}),
			),
		))
	} else {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(statusLegend(rec.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary, Top: 2,
			}),
		)))
	}
	return rows
}

func statusLegend(status string) string {
	switch status {
	case entity.TransmissionStatusSuccess:
		return "Transmitted to myDATA"
	case entity.TransmissionStatusMock:
		return "NOT TRANSMITTED (simulation)"
	default:
		return "NOT TRANSMITTED (" + status + ")"
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// formatMoney formato griego: punto de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}

var _ invoicing.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)
