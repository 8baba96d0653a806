package invoicing

import (
	"context"
	"fmt"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/internal/domain/repository"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
)

// PDFUseCase genera el comprobante impreso de un documento ya registrado.
type PDFUseCase struct {
	repo      repository.TransmissionRepository
	parser    *inframydata.ParserService
	generator ReceiptGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repo repository.TransmissionRepository, generator ReceiptGenerator) *PDFUseCase {
	return &PDFUseCase{
		repo:      repo,
		parser:    inframydata.NewParserService(),
		generator: generator,
	}
}

// GetInvoicePDF reconstruye el documento desde el XML transmitido y genera el PDF.
func (uc *PDFUseCase) GetInvoicePDF(ctx context.Context, uid string) ([]byte, *entity.TransmissionRecord, error) {
	rec, err := uc.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	inv, err := restoreInvoice(uc.parser, rec)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := uc.generator.Generate(inv, rec)
	if err != nil {
		return nil, nil, fmt.Errorf("invoicing: generar PDF: %w", err)
	}
	return pdf, rec, nil
}
