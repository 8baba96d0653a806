package invoicing_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/application/invoicing"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
	"github.com/jhoicas/mydata-invoicing/pkg/mydata"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func testMapperConfig() invoicing.MapperConfig {
	return invoicing.MapperConfig{
		Issuer:        entity.Party{VATNumber: "123456783", Country: "GR"},
		VATCategory:   mydata.VATCategory24,
		Series:        "A",
		PaymentMethod: mydata.PaymentMethodBankTransfer,
		Classification: entity.Classification{
			Type:     mydata.ClassificationTypeSalesOfGoods,
			Category: mydata.ClassificationCategoryGoods,
		},
		UIDStrategy: "deterministic",
	}
}

func newTestMapper(cfg invoicing.MapperConfig) *invoicing.OrderMapper {
	m, err := invoicing.NewOrderMapper(cfg, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return m.WithClock(func() time.Time { return fixedNow })
}

// acmeOrder pedido B2B de "Acme SA" con ΑΦΜ en note_attributes.
func acmeOrder() *entity.Order {
	return &entity.Order{
		ID:          "820982911946154508",
		OrderNumber: "1001",
		Currency:    "EUR",
		BillingAddress: &entity.Address{
			Company:     "Acme SA",
			CountryCode: "GR",
			Address1:    "Ermou 10",
			City:        "Athens",
			Zip:         "10563",
		},
		LineItems: []entity.LineItem{
			{Title: "Widget", Price: d("100.00"), Quantity: 1},
		},
		NoteAttributes: []entity.NoteAttribute{
			{Name: "VAT", Value: "EL123456789"},
		},
	}
}

// retailOrder pedido de un particular, sin empresa.
func retailOrder() *entity.Order {
	return &entity.Order{
		ID:          "820982911946154509",
		OrderNumber: "1002",
		Currency:    "EUR",
		LineItems: []entity.LineItem{
			{Title: "Mug", Price: d("7.50"), Quantity: 2},
			{Title: "Poster", Price: d("3.33"), Quantity: 3},
		},
	}
}

// fakeTransmitter simula una AADE que acepta todo y asigna marks consecutivos.
type fakeTransmitter struct {
	mu       sync.Mutex
	builder  *inframydata.XMLBuilderService
	calls    int
	last     *entity.Invoice
	rejected bool
}

func newFakeTransmitter() *fakeTransmitter {
	return &fakeTransmitter{builder: inframydata.NewXMLBuilderService()}
}

func (f *fakeTransmitter) Transmit(_ context.Context, inv *entity.Invoice) (*inframydata.TransmitResult, error) {
	payload, err := f.builder.Build(inv)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = inv

	if f.rejected {
		return &inframydata.TransmitResult{
			UID:        inv.UID,
			StatusCode: 200,
			Errors:     []inframydata.AuthorityError{{Code: "101", Message: "Invalid vat number"}},
			Error:      "[101] Invalid vat number",
			XML:        payload,
		}, nil
	}
	mark := fmt.Sprintf("4000012345678%02d", f.calls)
	return &inframydata.TransmitResult{
		Success:    true,
		UID:        inv.UID,
		Mark:       mark,
		QRURL:      "https://www1.aade.gr/tameiakes/myweb/q1.php?SIG=abc",
		StatusCode: 200,
		XML:        payload,
	}, nil
}

// MockMode el transmisor de prueba se comporta como el cliente real con credenciales.
func (f *fakeTransmitter) MockMode() bool { return false }

func (f *fakeTransmitter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var _ inframydata.Transmitter = (*fakeTransmitter)(nil)
