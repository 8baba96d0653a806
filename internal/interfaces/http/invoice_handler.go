package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mydata-invoicing/internal/application/dto"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/internal/domain/repository"
	"github.com/jhoicas/mydata-invoicing/internal/validator"
)

// creditNoteIssuer lo implementa *invoicing.Orchestrator.
type creditNoteIssuer interface {
	IssueCreditNote(ctx context.Context, uid string) (*entity.TransmissionRecord, error)
}

// pdfRenderer lo implementa *invoicing.PDFUseCase.
type pdfRenderer interface {
	GetInvoicePDF(ctx context.Context, uid string) ([]byte, *entity.TransmissionRecord, error)
}

// InvoiceHandler consulta de transmisiones y notas de crédito (protegido).
type InvoiceHandler struct {
	repo     repository.TransmissionRepository
	credit   creditNoteIssuer
	renderer pdfRenderer
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(repo repository.TransmissionRepository, credit creditNoteIssuer, renderer pdfRenderer) *InvoiceHandler {
	return &InvoiceHandler{repo: repo, credit: credit, renderer: renderer}
}

// GetByUID obtiene el registro de transmisión de un documento.
// GET /api/invoices/:uid
func (h *InvoiceHandler) GetByUID(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "uid requerido"})
	}
	rec, err := h.repo.GetByUID(c.Context(), uid)
	if err != nil {
		return respondError(c, err, "documento no encontrado")
	}
	return c.JSON(dto.ToTransmissionResponse(rec))
}

// List lista las transmisiones más recientes.
// GET /api/invoices?limit=20&offset=0
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	if err := validator.ValidateRequest(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	recs, total, err := h.repo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err, "")
	}
	out := dto.TransmissionListResponse{
		Items: make([]dto.TransmissionResponse, 0, len(recs)),
		Page:  dto.NewPageResponse(page, total, len(recs)),
	}
	for _, r := range recs {
		out.Items = append(out.Items, dto.ToTransmissionResponse(r))
	}
	return c.JSON(out)
}

// GetPDF descarga el comprobante impreso.
// GET /api/invoices/:uid/pdf
func (h *InvoiceHandler) GetPDF(c *fiber.Ctx) error {
	uid := c.Params("uid")
	pdf, rec, err := h.renderer.GetInvoicePDF(c.Context(), uid)
	if err != nil {
		return respondError(c, err, "documento no encontrado")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+rec.Series+"-"+rec.AA+`.pdf"`)
	return c.Send(pdf)
}

// CreateCreditNote emite la nota de crédito que anula el documento.
// POST /api/invoices/:uid/credit-note
func (h *InvoiceHandler) CreateCreditNote(c *fiber.Ctx) error {
	uid := c.Params("uid")
	original, err := h.repo.GetByUID(c.Context(), uid)
	if err != nil {
		return respondError(c, err, "documento no encontrado")
	}
	note, err := h.credit.IssueCreditNote(c.Context(), uid)
	if err != nil {
		return respondError(c, err, "documento no encontrado")
	}
	status := fiber.StatusCreated
	if !note.Transmitted() && note.Status != entity.TransmissionStatusMock {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(dto.CreditNoteResponse{
		UID:            note.UID,
		CorrelatedUID:  original.UID,
		CorrelatedMark: original.Mark,
		Status:         note.Status,
		Mark:           note.Mark,
		Error:          note.Errors,
	})
}
