package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
)

// TransmissionResponse registro de transmisión para GET /api/invoices/:uid.
type TransmissionResponse struct {
	UID           string          `json:"uid"`
	OrderID       string          `json:"order_id"`
	InvoiceType   string          `json:"invoice_type"`
	Series        string          `json:"series"`
	AA            string          `json:"aa"`
	IssueDate     string          `json:"issue_date"`
	NetTotal      decimal.Decimal `json:"net_total"`
	VATTotal      decimal.Decimal `json:"vat_total"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	Status        string          `json:"status"`
	Mark          string          `json:"mark,omitempty"`
	QRURL         string          `json:"qr_url,omitempty"`
	HTTPStatus    int             `json:"http_status,omitempty"`
	Errors        string          `json:"errors,omitempty"`
	PayloadDigest string          `json:"payload_digest"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// TransmissionListResponse página de registros.
type TransmissionListResponse struct {
	Items []TransmissionResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// Estados de OrderAcceptedResponse.
const (
	OrderStatusAccepted = "accepted" // encolado para emisión
	OrderStatusSkipped  = "skipped"  // descartado sin emitir; la tienda no debe reenviarlo
)

// OrderAcceptedResponse respuesta inmediata del webhook.
type OrderAcceptedResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

// CreditNoteResponse resultado de POST /api/invoices/:uid/credit-note.
type CreditNoteResponse struct {
	UID            string `json:"uid"`
	CorrelatedUID  string `json:"correlated_uid"`
	CorrelatedMark string `json:"correlated_mark"`
	Status         string `json:"status"`
	Mark           string `json:"mark,omitempty"`
	Error          string `json:"error,omitempty"`
}

// InvoiceDocumentResponse documento parseado (CLI parse).
type InvoiceDocumentResponse struct {
	UID            string              `json:"uid,omitempty"`
	InvoiceType    string              `json:"invoice_type"`
	Series         string              `json:"series"`
	AA             string              `json:"aa"`
	IssueDate      string              `json:"issue_date"`
	Currency       string              `json:"currency"`
	IssuerVAT      string              `json:"issuer_vat"`
	CounterpartVAT string              `json:"counterpart_vat,omitempty"`
	CorrelatedMark string              `json:"correlated_mark,omitempty"`
	PaymentMethod  int                 `json:"payment_method"`
	Rows           []InvoiceRowPayload `json:"rows"`
	NetTotal       decimal.Decimal     `json:"net_total"`
	VATTotal       decimal.Decimal     `json:"vat_total"`
	GrossTotal     decimal.Decimal     `json:"gross_total"`
}

// InvoiceRowPayload línea del documento en JSON.
type InvoiceRowPayload struct {
	LineNumber             int             `json:"line_number"`
	NetValue               decimal.Decimal `json:"net_value"`
	VATCategory            int             `json:"vat_category"`
	VATAmount              decimal.Decimal `json:"vat_amount"`
	ClassificationType     string          `json:"classification_type"`
	ClassificationCategory string          `json:"classification_category"`
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05Z07:00"
)

// ToTransmissionResponse mapea el registro a su respuesta (sin el XML completo).
func ToTransmissionResponse(r *entity.TransmissionRecord) TransmissionResponse {
	return TransmissionResponse{
		UID:           r.UID,
		OrderID:       r.OrderID,
		InvoiceType:   string(r.InvoiceType),
		Series:        r.Series,
		AA:            r.AA,
		IssueDate:     r.IssueDate.Format(dateLayout),
		NetTotal:      r.NetTotal,
		VATTotal:      r.VATTotal,
		GrossTotal:    r.GrossTotal,
		Status:        r.Status,
		Mark:          r.Mark,
		QRURL:         r.QRURL,
		HTTPStatus:    r.HTTPStatus,
		Errors:        r.Errors,
		PayloadDigest: r.PayloadDigest,
		CreatedAt:     r.CreatedAt.Format(dateTimeLayout),
		UpdatedAt:     r.UpdatedAt.Format(dateTimeLayout),
	}
}

// ToInvoiceDocumentResponse mapea un documento de dominio a JSON.
func ToInvoiceDocumentResponse(inv *entity.Invoice) InvoiceDocumentResponse {
	out := InvoiceDocumentResponse{
		UID:            inv.UID,
		InvoiceType:    string(inv.Type),
		Series:         inv.Series,
		AA:             inv.AA,
		IssueDate:      inv.IssueDate.Format(dateLayout),
		Currency:       inv.Currency,
		IssuerVAT:      inv.Issuer.VATNumber,
		CorrelatedMark: inv.CorrelatedMark,
		PaymentMethod:  inv.PaymentMethod,
		NetTotal:       inv.Summary.TotalNetValue,
		VATTotal:       inv.Summary.TotalVATAmount,
		GrossTotal:     inv.Summary.TotalGrossValue,
		Rows:           make([]InvoiceRowPayload, 0, len(inv.Rows)),
	}
	if inv.Counterpart != nil {
		out.CounterpartVAT = inv.Counterpart.VATNumber
	}
	for _, r := range inv.Rows {
		out.Rows = append(out.Rows, InvoiceRowPayload{
			LineNumber:             r.LineNumber,
			NetValue:               r.NetValue,
			VATCategory:            r.VATCategory,
			VATAmount:              r.VATAmount,
			ClassificationType:     r.Classification.Type,
			ClassificationCategory: r.Classification.Category,
		})
	}
	return out
}
