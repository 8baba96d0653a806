package invoicing

import (
	"fmt"
	"time"

	"github.com/jhoicas/mydata-invoicing/internal/domain"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	domainmydata "github.com/jhoicas/mydata-invoicing/internal/domain/mydata"
)

// CreditNoteSeries serie de las notas de crédito.
const CreditNoteSeries = "CN"

// BuildCreditNote construye la nota de crédito (5.1) que anula por completo el
// documento original. El original no se modifica.
func BuildCreditNote(original *entity.Invoice, originalMark string, now time.Time) (*entity.Invoice, error) {
	if original == nil {
		return nil, fmt.Errorf("%w: documento original nulo", domain.ErrInvalidInput)
	}
	if originalMark == "" {
		return nil, fmt.Errorf("%w: el documento %s no tiene mark", domain.ErrConflict, original.UID)
	}
	if original.Type == entity.InvoiceTypeCreditNote {
		return nil, fmt.Errorf("%w: el documento %s ya es una nota de crédito", domain.ErrConflict, original.UID)
	}

	rows := make([]entity.InvoiceRow, len(original.Rows))
	copy(rows, original.Rows)

	var counterpart *entity.Party
	if original.Counterpart != nil {
		cp := *original.Counterpart
		counterpart = &cp
	}

	return &entity.Invoice{
		UID:            domainmydata.CreditNoteUID(original.UID),
		CorrelatedMark: originalMark,
		Issuer:         original.Issuer,
		Counterpart:    counterpart,
		Type:           entity.InvoiceTypeCreditNote,
		Series:         CreditNoteSeries,
		AA:             CreditNoteSeries + "-" + original.AA,
		IssueDate:      now,
		Currency:       original.Currency,
		Rows:           rows,
		Summary:        original.Summary,
		PaymentMethod:  original.PaymentMethod,
	}, nil
}
