package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mydata-invoicing/internal/domain"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/internal/domain/repository"
)

var _ repository.TransmissionRepository = (*TransmissionRepo)(nil)

// TransmissionRepo implementación de TransmissionRepository (usable con pool o tx).
type TransmissionRepo struct {
	q Querier
}

// NewTransmissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransmissionRepository(q Querier) *TransmissionRepo {
	return &TransmissionRepo{q: q}
}

const transmissionColumns = `
	id, uid, order_id, invoice_type, series, aa, issue_date,
	net_total, vat_total, gross_total, status, mark, qr_url,
	http_status, errors, xml_payload, payload_digest, created_at, updated_at,
	counterpart_name, counterpart_address, counterpart_city, counterpart_postal_code`

// Save inserta el registro o lo actualiza por uid. Un registro SUCCESS no se
// sobrescribe: en ese caso devuelve domain.ErrAlreadyTransmitted. Al actualizar
// se conservan id y created_at de la fila existente y se copian a rec.
func (r *TransmissionRepo) Save(ctx context.Context, rec *entity.TransmissionRecord) error {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	query := `
		INSERT INTO mydata_transmissions (` + transmissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (uid) DO UPDATE
		SET status                  = EXCLUDED.status,
		    mark                    = EXCLUDED.mark,
		    qr_url                  = EXCLUDED.qr_url,
		    http_status             = EXCLUDED.http_status,
		    errors                  = EXCLUDED.errors,
		    xml_payload             = EXCLUDED.xml_payload,
		    payload_digest          = EXCLUDED.payload_digest,
		    updated_at              = EXCLUDED.updated_at,
		    counterpart_name        = EXCLUDED.counterpart_name,
		    counterpart_address     = EXCLUDED.counterpart_address,
		    counterpart_city        = EXCLUDED.counterpart_city,
		    counterpart_postal_code = EXCLUDED.counterpart_postal_code
		WHERE mydata_transmissions.status <> 'SUCCESS'
		RETURNING id, created_at`
	var id string
	var createdAt time.Time
	err := r.q.QueryRow(ctx, query,
		rec.ID, rec.UID, rec.OrderID, string(rec.InvoiceType), rec.Series, rec.AA, rec.IssueDate,
		rec.NetTotal, rec.VATTotal, rec.GrossTotal, rec.Status,
		nullIfEmpty(rec.Mark), nullIfEmpty(rec.QRURL), rec.HTTPStatus, nullIfEmpty(rec.Errors),
		rec.XMLPayload, rec.PayloadDigest, rec.CreatedAt, rec.UpdatedAt,
		rec.CounterpartName, rec.CounterpartAddress, rec.CounterpartCity, rec.CounterpartPostalCode,
	).Scan(&id, &createdAt)
	if err != nil {
		// Sin fila devuelta: el WHERE descartó la actualización de un SUCCESS.
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("uid %s: %w", rec.UID, domain.ErrAlreadyTransmitted)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("id de transmisión duplicado: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("guardar transmisión: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	return nil
}

// GetByUID obtiene el registro por uid del documento.
func (r *TransmissionRepo) GetByUID(ctx context.Context, uid string) (*entity.TransmissionRecord, error) {
	query := `SELECT ` + transmissionColumns + ` FROM mydata_transmissions WHERE uid = $1`
	rec, err := scanTransmission(r.q.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("obtener transmisión: %w", err)
	}
	return rec, nil
}

// List devuelve una página de registros, más recientes primero.
func (r *TransmissionRepo) List(ctx context.Context, limit, offset int) ([]*entity.TransmissionRecord, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM mydata_transmissions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contar transmisiones: %w", err)
	}

	query := `SELECT ` + transmissionColumns + `
		FROM mydata_transmissions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listar transmisiones: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransmissionRecord
	for rows.Next() {
		rec, err := scanTransmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("leer transmisión: %w", err)
		}
		list = append(list, rec)
	}
	return list, total, rows.Err()
}

func scanTransmission(row pgx.Row) (*entity.TransmissionRecord, error) {
	var rec entity.TransmissionRecord
	var invoiceType string
	var mark, qrURL, errs *string
	err := row.Scan(
		&rec.ID, &rec.UID, &rec.OrderID, &invoiceType, &rec.Series, &rec.AA, &rec.IssueDate,
		&rec.NetTotal, &rec.VATTotal, &rec.GrossTotal, &rec.Status, &mark, &qrURL,
		&rec.HTTPStatus, &errs, &rec.XMLPayload, &rec.PayloadDigest, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.CounterpartName, &rec.CounterpartAddress, &rec.CounterpartCity, &rec.CounterpartPostalCode,
	)
	if err != nil {
		return nil, err
	}
	rec.InvoiceType = entity.InvoiceType(invoiceType)
	rec.Mark = stringOrEmpty(mark)
	rec.QRURL = stringOrEmpty(qrURL)
	rec.Errors = stringOrEmpty(errs)
	return &rec, nil
}
