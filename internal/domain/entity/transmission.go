package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transmisión a myDATA.
const (
	TransmissionStatusSuccess  = "SUCCESS"  // Aceptada por AADE (mark asignado)
	TransmissionStatusRejected = "REJECTED" // AADE respondió con errores de validación
	TransmissionStatusFailed   = "FAILED"   // Error de transporte o HTTP distinto de 200
	TransmissionStatusMock     = "MOCK"     // Simulada: credenciales ausentes
)

// TransmissionRecord registro de auditoría de un documento transmitido.
type TransmissionRecord struct {
	ID            string
	UID           string
	OrderID       string
	InvoiceType   InvoiceType
	Series        string
	AA            string
	IssueDate     time.Time
	NetTotal      decimal.Decimal
	VATTotal      decimal.Decimal
	GrossTotal    decimal.Decimal
	Status        string
	Mark          string
	QRURL         string
	HTTPStatus    int
	Errors        string // mensajes de AADE o del transporte
	XMLPayload    string
	PayloadDigest string // SHA-256 hex del XML canonicalizado
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Datos del receptor que AADE no admite en el XML; se guardan para
	// reimprimir el comprobante y para las notas de crédito.
	CounterpartName       string
	CounterpartAddress    string
	CounterpartCity       string
	CounterpartPostalCode string
}

// Transmitted indica si el documento ya tiene un mark válido de AADE.
func (r *TransmissionRecord) Transmitted() bool {
	return r != nil && r.Status == TransmissionStatusSuccess
}

// SetCounterpartDetails copia del receptor los campos que no viajan en el XML.
func (r *TransmissionRecord) SetCounterpartDetails(p *Party) {
	if p == nil {
		return
	}
	r.CounterpartName = p.Name
	r.CounterpartAddress = p.Address
	r.CounterpartCity = p.City
	r.CounterpartPostalCode = p.PostalCode
}

// ApplyCounterpartDetails completa un receptor reconstruido desde el XML.
func (r *TransmissionRecord) ApplyCounterpartDetails(p *Party) {
	if p == nil {
		return
	}
	p.Name = r.CounterpartName
	p.Address = r.CounterpartAddress
	p.City = r.CounterpartCity
	p.PostalCode = r.CounterpartPostalCode
}
