package mydata

import (
	"errors"
	"fmt"
)

// ErrSerialization el documento no cumple los campos obligatorios del esquema.
// Indica una invariante interna rota, no un pedido mal formado.
var ErrSerialization = errors.New("mydata: documento no serializable")

var (
	ErrMissingRows        = fmt.Errorf("%w: el documento no tiene líneas", ErrSerialization)
	ErrMissingIssuerVAT   = fmt.Errorf("%w: falta el ΑΦΜ del emisor", ErrSerialization)
	ErrMissingIssueDate   = fmt.Errorf("%w: falta la fecha de emisión", ErrSerialization)
	ErrUnknownInvoiceType = fmt.Errorf("%w: tipo de documento desconocido", ErrSerialization)
)

// ErrMalformedDocument el XML recibido no es un InvoicesDoc legible.
var ErrMalformedDocument = errors.New("mydata: InvoicesDoc mal formado")
