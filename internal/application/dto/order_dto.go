package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
)

// FlexibleID identificador que llega como número JSON (Shopify) o como string.
type FlexibleID string

// UnmarshalJSON acepta 820982911946154508 y "820982911946154508" sin perder precisión.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id debe ser número o string: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

// OrderPayload cuerpo del webhook orders/paid (subconjunto usado).
type OrderPayload struct {
	ID             FlexibleID             `json:"id" validate:"required"`
	OrderNumber    FlexibleID             `json:"order_number" validate:"required"`
	Currency       string                 `json:"currency" validate:"omitempty,len=3,alpha"`
	TaxesIncluded  bool                   `json:"taxes_included"`
	BillingAddress *AddressPayload        `json:"billing_address,omitempty"`
	LineItems      []LineItemPayload      `json:"line_items" validate:"dive"`
	NoteAttributes []NoteAttributePayload `json:"note_attributes" validate:"dive"`
}

// AddressPayload dirección de facturación.
type AddressPayload struct {
	Company     string `json:"company"`
	CountryCode string `json:"country_code" validate:"omitempty,len=2,alpha"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	Zip         string `json:"zip"`
}

// LineItemPayload línea del pedido; price llega como string decimal ("100.00").
type LineItemPayload struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=1"`
}

// NoteAttributePayload atributo nombre/valor del checkout.
type NoteAttributePayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ToEntity convierte el payload validado en el pedido de dominio.
func (p *OrderPayload) ToEntity() *entity.Order {
	o := &entity.Order{
		ID:            string(p.ID),
		OrderNumber:   string(p.OrderNumber),
		Currency:      strings.ToUpper(strings.TrimSpace(p.Currency)),
		TaxesIncluded: p.TaxesIncluded,
	}
	if o.Currency == "" {
		o.Currency = "EUR"
	}
	if a := p.BillingAddress; a != nil {
		o.BillingAddress = &entity.Address{
			Company:     strings.TrimSpace(a.Company),
			CountryCode: strings.ToUpper(strings.TrimSpace(a.CountryCode)),
			Address1:    strings.TrimSpace(a.Address1),
			City:        strings.TrimSpace(a.City),
			Zip:         strings.TrimSpace(a.Zip),
		}
	}
	for _, li := range p.LineItems {
		o.LineItems = append(o.LineItems, entity.LineItem{Title: li.Title, Price: li.Price, Quantity: li.Quantity})
	}
	for _, na := range p.NoteAttributes {
		o.NoteAttributes = append(o.NoteAttributes, entity.NoteAttribute{Name: na.Name, Value: na.Value})
	}
	return o
}
