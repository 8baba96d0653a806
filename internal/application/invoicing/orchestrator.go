package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mydata-invoicing/internal/domain"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	domainmydata "github.com/jhoicas/mydata-invoicing/internal/domain/mydata"
	"github.com/jhoicas/mydata-invoicing/internal/domain/repository"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
)

const asyncTimeout = 30 * time.Second

// Orchestrator orquesta el ciclo de emisión de un pedido pagado:
//
//	Pedido → Documento myDATA → Validación → XML → SendInvoices → Registro de auditoría
//
// Un documento ya aceptado (SUCCESS) no se vuelve a transmitir: los reenvíos del
// webhook devuelven el registro existente.
type Orchestrator struct {
	mapper      *OrderMapper
	transmitter inframydata.Transmitter
	parser      *inframydata.ParserService
	repo        repository.TransmissionRepository
	now         func() time.Time
	log         zerolog.Logger
}

// NewOrchestrator construye el orquestador con todas sus dependencias.
func NewOrchestrator(
	mapper *OrderMapper,
	transmitter inframydata.Transmitter,
	repo repository.TransmissionRepository,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		mapper:      mapper,
		transmitter: transmitter,
		parser:      inframydata.NewParserService(),
		repo:        repo,
		now:         time.Now,
		log:         log,
	}
}

// WithClock reemplaza el reloj del orquestador (notas de crédito y auditoría).
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// ProcessAsync procesa el pedido en una goroutine independiente con su propio
// context.Background() + timeout, desacoplado del ciclo HTTP.
func (o *Orchestrator) ProcessAsync(order *entity.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if _, err := o.Process(ctx, order); err != nil {
			ev := o.log.Error()
			if errors.Is(err, domain.ErrNotMappable) {
				ev = o.log.Warn()
			}
			ev.Err(err).Msg("invoicing: pedido no procesado")
		}
	}()
}

// Process emite el documento del pedido y devuelve el registro de auditoría.
// Pedidos incompletos devuelven domain.ErrNotMappable sin llamar a AADE.
func (o *Orchestrator) Process(ctx context.Context, order *entity.Order) (*entity.TransmissionRecord, error) {
	inv, err := o.mapper.Map(order)
	if err != nil {
		return nil, err
	}
	return o.issue(ctx, inv, order.ID)
}

// IssueCreditNote emite una nota de crédito que anula el documento uid.
// Solo se admiten originales con mark (SUCCESS o MOCK). Un original MOCK solo
// se anula en modo simulado: su mark no existe en AADE.
func (o *Orchestrator) IssueCreditNote(ctx context.Context, uid string) (*entity.TransmissionRecord, error) {
	rec, err := o.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if rec.Status != entity.TransmissionStatusSuccess && rec.Status != entity.TransmissionStatusMock {
		return nil, fmt.Errorf("%w: el documento %s está en estado %s", domain.ErrConflict, uid, rec.Status)
	}
	if rec.Status == entity.TransmissionStatusMock && !o.transmitter.MockMode() {
		return nil, fmt.Errorf("%w: el documento %s se simuló y no tiene mark de AADE", domain.ErrConflict, uid)
	}

	original, err := restoreInvoice(o.parser, rec)
	if err != nil {
		return nil, err
	}

	note, err := BuildCreditNote(original, rec.Mark, o.now())
	if err != nil {
		return nil, err
	}
	return o.issue(ctx, note, rec.OrderID)
}

// issue es el núcleo común: validación, control de duplicados, envío y registro.
func (o *Orchestrator) issue(ctx context.Context, inv *entity.Invoice, orderID string) (*entity.TransmissionRecord, error) {
	log := o.log.With().Str("uid", inv.UID).Str("order_id", orderID).Logger()

	// ═══ 1. Validación ═══
	if err := domainmydata.ValidateInvoice(inv); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	// ═══ 2. Duplicados ═══
	existing, err := o.repo.GetByUID(ctx, inv.UID)
	switch {
	case err == nil && existing.Transmitted():
		log.Info().Str("mark", existing.Mark).Msg("invoicing: documento ya transmitido, se omite")
		return existing, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("invoicing: consultar registro: %w", err)
	}

	// ═══ 3. Envío ═══
	result, err := o.transmitter.Transmit(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("invoicing: serializar documento: %w", err)
	}

	// ═══ 4. Registro ═══
	rec := o.record(inv, orderID, result)
	if digest, err := inframydata.PayloadDigest(result.XML); err != nil {
		log.Warn().Err(err).Msg("invoicing: no se pudo calcular el digest del payload")
	} else {
		rec.PayloadDigest = digest
	}
	if err := o.repo.Save(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyTransmitted) {
			log.Info().Msg("invoicing: otro proceso transmitió el documento primero")
			return o.repo.GetByUID(ctx, inv.UID)
		}
		return nil, fmt.Errorf("invoicing: guardar registro: %w", err)
	}

	log.Info().Str("status", rec.Status).Str("mark", rec.Mark).Msg("invoicing: transmisión registrada")
	return rec, nil
}

func (o *Orchestrator) record(inv *entity.Invoice, orderID string, result *inframydata.TransmitResult) *entity.TransmissionRecord {
	now := o.now()
	rec := &entity.TransmissionRecord{
		ID:          uuid.New().String(),
		UID:         inv.UID,
		OrderID:     orderID,
		InvoiceType: inv.Type,
		Series:      inv.Series,
		AA:          inv.AA,
		IssueDate:   inv.IssueDate,
		NetTotal:    inv.Summary.TotalNetValue,
		VATTotal:    inv.Summary.TotalVATAmount,
		GrossTotal:  inv.Summary.TotalGrossValue,
		Status:      result.Status(),
		Mark:        result.Mark,
		QRURL:       result.QRURL,
		HTTPStatus:  result.StatusCode,
		Errors:      result.Error,
		XMLPayload:  string(result.XML),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec.SetCounterpartDetails(inv.Counterpart)
	return rec
}

// restoreInvoice reconstruye el documento transmitido a partir de su registro.
func restoreInvoice(parser *inframydata.ParserService, rec *entity.TransmissionRecord) (*entity.Invoice, error) {
	inv, err := parser.Parse([]byte(rec.XMLPayload))
	if err != nil {
		return nil, fmt.Errorf("invoicing: releer documento %s: %w", rec.UID, err)
	}
	inv.UID = rec.UID
	inv.Mark = rec.Mark
	rec.ApplyCounterpartDetails(inv.Counterpart)
	return inv, nil
}
