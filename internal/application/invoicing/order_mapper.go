// Package invoicing casos de uso de emisión fiscal myDATA: conversión de pedidos
// pagados en documentos, transmisión, notas de crédito y representación PDF.
package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/mydata-invoicing/internal/domain"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	domainmydata "github.com/jhoicas/mydata-invoicing/internal/domain/mydata"
	"github.com/jhoicas/mydata-invoicing/pkg/mydata"
)

const defaultCounterpartCountry = "GR"

// vatAttributeKeys fragmentos (ya plegados) que identifican el atributo con el ΑΦΜ del cliente.
var vatAttributeKeys = []string{"vat", "afm", "αφμ"}

// MapperConfig datos fijos del emisor y políticas de emisión.
type MapperConfig struct {
	Issuer             entity.Party
	VATCategory        int
	Series             string
	PaymentMethod      int
	Classification     entity.Classification
	UIDStrategy        string
	HonorTaxesIncluded bool
}

// OrderMapper convierte un pedido pagado en un documento myDATA.
type OrderMapper struct {
	cfg  MapperConfig
	rate decimal.Decimal
	fold cases.Caser
	now  func() time.Time
	log  zerolog.Logger
}

// NewOrderMapper construye el mapper. Falla si la categoría de IVA no existe.
func NewOrderMapper(cfg MapperConfig, log zerolog.Logger) (*OrderMapper, error) {
	rate, ok := mydata.VATRate(cfg.VATCategory)
	if !ok {
		return nil, fmt.Errorf("invoicing: categoría de IVA %d desconocida", cfg.VATCategory)
	}
	return &OrderMapper{
		cfg:  cfg,
		rate: rate,
		fold: cases.Fold(),
		now:  time.Now,
		log:  log,
	}, nil
}

// WithClock reemplaza el reloj (fecha de emisión y uid "timestamp").
func (m *OrderMapper) WithClock(now func() time.Time) *OrderMapper {
	m.now = now
	return m
}

// Map construye el documento. Un pedido incompleto devuelve domain.ErrNotMappable:
// el llamador lo registra y lo descarta.
func (m *OrderMapper) Map(order *entity.Order) (*entity.Invoice, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: pedido nulo", domain.ErrNotMappable)
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, fmt.Errorf("%w: pedido sin id", domain.ErrNotMappable)
	}
	if len(order.LineItems) == 0 {
		return nil, fmt.Errorf("%w: pedido %s sin líneas", domain.ErrNotMappable, order.ID)
	}
	log := m.log.With().Str("order_id", order.ID).Logger()
	now := m.now()

	// ═══ 1. Clasificación ═══
	invoiceType, counterpart := m.classify(order, log)

	// ═══ 2. Líneas ═══
	rows := make([]entity.InvoiceRow, 0, len(order.LineItems))
	for i, li := range order.LineItems {
		if li.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrNotMappable, i+1, li.Quantity)
		}
		if li.Price.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d con precio negativo %s", domain.ErrNotMappable, i+1, li.Price)
		}
		net, vat := m.rowAmounts(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))), order.TaxesIncluded)
		rows = append(rows, entity.InvoiceRow{
			LineNumber:     i + 1,
			NetValue:       net,
			VATCategory:    m.cfg.VATCategory,
			VATAmount:      vat,
			Classification: m.cfg.Classification,
		})
	}

	// ═══ 3. Totales ═══
	var totalNet, totalVAT decimal.Decimal
	for _, r := range rows {
		totalNet = totalNet.Add(r.NetValue)
		totalVAT = totalVAT.Add(r.VATAmount)
	}

	// ═══ 4. Ensamblado ═══
	uid, err := domainmydata.GenerateUID(m.cfg.UIDStrategy, order.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotMappable, err)
	}
	aa := strings.TrimSpace(order.OrderNumber)
	if aa == "" {
		aa = order.ID
	}
	currency := order.Currency
	if currency == "" {
		currency = "EUR"
	}

	inv := &entity.Invoice{
		UID:         uid,
		Issuer:      m.cfg.Issuer,
		Counterpart: counterpart,
		Type:        invoiceType,
		Series:      m.cfg.Series,
		AA:          aa,
		IssueDate:   now,
		Currency:    currency,
		Rows:        rows,
		Summary: entity.InvoiceSummary{
			TotalNetValue:   totalNet,
			TotalVATAmount:  totalVAT,
			TotalGrossValue: totalNet.Add(totalVAT),
		},
		PaymentMethod: m.cfg.PaymentMethod,
	}
	log.Debug().Str("uid", uid).Str("invoice_type", string(invoiceType)).Msg("invoicing: pedido convertido")
	return inv, nil
}

// classify decide B2B (1.1 con receptor) o B2C (11.1 sin receptor).
func (m *OrderMapper) classify(order *entity.Order, log zerolog.Logger) (entity.InvoiceType, *entity.Party) {
	addr := order.BillingAddress
	if addr == nil || strings.TrimSpace(addr.Company) == "" {
		return entity.InvoiceTypeRetail, nil
	}

	vatAttr, found := lo.Find(order.NoteAttributes, func(a entity.NoteAttribute) bool {
		return m.isVATAttribute(a.Name) && strings.TrimSpace(a.Value) != ""
	})
	if !found {
		log.Warn().Str("company", addr.Company).Msg("invoicing: empresa sin ΑΦΜ en note_attributes, se emite recibo de venta al público")
		return entity.InvoiceTypeRetail, nil
	}

	country := addr.CountryCode
	if country == "" {
		country = defaultCounterpartCountry
	}
	vat := strings.TrimSpace(vatAttr.Value)
	if mydata.IsGreekCountry(country) {
		if err := mydata.ValidateAFM(vat); err != nil {
			log.Warn().Err(err).Str("vat", vat).Msg("invoicing: ΑΦΜ del receptor no supera el dígito de control")
		}
	}
	return entity.InvoiceTypeSales, &entity.Party{
		VATNumber:  vat,
		Country:    country,
		Name:       strings.TrimSpace(addr.Company),
		Address:    addr.Address1,
		City:       addr.City,
		PostalCode: addr.Zip,
	}
}

func (m *OrderMapper) isVATAttribute(name string) bool {
	folded := m.fold.String(name)
	return lo.SomeBy(vatAttributeKeys, func(key string) bool {
		return strings.Contains(folded, key)
	})
}

// rowAmounts neto e IVA redondeados a 2 decimales. Por defecto el precio se
// considera sin IVA aunque el pedido indique lo contrario.
func (m *OrderMapper) rowAmounts(lineTotal decimal.Decimal, taxesIncluded bool) (net, vat decimal.Decimal) {
	if m.cfg.HonorTaxesIncluded && taxesIncluded {
		gross := lineTotal.Round(2)
		net = gross.Div(decimal.NewFromInt(1).Add(m.rate)).Round(2)
		return net, gross.Sub(net)
	}
	net = lineTotal.Round(2)
	return net, net.Mul(m.rate).Round(2)
}
