package mydata

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// StatusCodeSuccess valor de <statusCode> para un documento aceptado.
const StatusCodeSuccess = "Success"

// AuthorityError error de validación devuelto por AADE.
type AuthorityError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseEntry una entrada <response> del ResponseDoc.
type ResponseEntry struct {
	Index      int
	UID        string
	Mark       string
	QRURL      string
	StatusCode string
	Errors     []AuthorityError
}

// Accepted indica si AADE aceptó el documento.
func (e ResponseEntry) Accepted() bool {
	return e.StatusCode == StatusCodeSuccess
}

// ErrorText concatena los errores devueltos ("[101] mensaje; [102] mensaje").
func (e ResponseEntry) ErrorText() string {
	parts := make([]string, 0, len(e.Errors))
	for _, er := range e.Errors {
		parts = append(parts, fmt.Sprintf("[%s] %s", er.Code, er.Message))
	}
	return strings.Join(parts, "; ")
}

// ── Estructuras de respuesta ResponseDoc ──────────────────────────────────────

type responseDoc struct {
	XMLName   xml.Name          `xml:"ResponseDoc"`
	Responses []responseElement `xml:"response"`
}

type responseElement struct {
	Index       int             `xml:"index"`
	InvoiceUID  string          `xml:"invoiceUid"`
	InvoiceMark string          `xml:"invoiceMark"`
	QRURL       string          `xml:"qrUrl"`
	StatusCode  string          `xml:"statusCode"`
	Errors      []responseError `xml:"errors>error"`
}

type responseError struct {
	Message string `xml:"message"`
	Code    string `xml:"code"`
}

// ParseResponseDoc desempaqueta el ResponseDoc de SendInvoices.
func ParseResponseDoc(body []byte) ([]ResponseEntry, error) {
	var doc responseDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("mydata: parsear ResponseDoc: %w", err)
	}
	if len(doc.Responses) == 0 {
		return nil, fmt.Errorf("mydata: ResponseDoc sin elementos <response>")
	}
	out := make([]ResponseEntry, 0, len(doc.Responses))
	for _, r := range doc.Responses {
		entry := ResponseEntry{
			Index:      r.Index,
			UID:        strings.TrimSpace(r.InvoiceUID),
			Mark:       strings.TrimSpace(r.InvoiceMark),
			QRURL:      strings.TrimSpace(r.QRURL),
			StatusCode: strings.TrimSpace(r.StatusCode),
		}
		for _, e := range r.Errors {
			entry.Errors = append(entry.Errors, AuthorityError{
				Code:    strings.TrimSpace(e.Code),
				Message: strings.TrimSpace(e.Message),
			})
		}
		out = append(out, entry)
	}
	return out, nil
}
