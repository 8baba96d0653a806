package entity

import "github.com/shopspring/decimal"

// Order pedido pagado de la tienda, ya validado en la frontera HTTP.
type Order struct {
	ID             string
	OrderNumber    string
	Currency       string
	BillingAddress *Address
	LineItems      []LineItem
	TaxesIncluded  bool
	NoteAttributes []NoteAttribute
}

// Address dirección de facturación.
type Address struct {
	Company     string
	CountryCode string
	Address1    string
	City        string
	Zip         string
}

// LineItem línea del pedido. Price es el precio unitario.
type LineItem struct {
	Title    string
	Price    decimal.Decimal
	Quantity int
}

// NoteAttribute atributo libre nombre/valor del checkout (ej: "VAT Number").
type NoteAttribute struct {
	Name  string
	Value string
}
