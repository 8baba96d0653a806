package repository

import (
	"context"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
)

// TransmissionRepository define el puerto de persistencia del registro de
// auditoría de transmisiones a myDATA.
type TransmissionRepository interface {
	// Save inserta o actualiza el registro identificado por UID.
	Save(ctx context.Context, rec *entity.TransmissionRecord) error
	// GetByUID devuelve domain.ErrNotFound si no existe.
	GetByUID(ctx context.Context, uid string) (*entity.TransmissionRecord, error)
	// List devuelve los registros más recientes primero y el total.
	List(ctx context.Context, limit, offset int) ([]*entity.TransmissionRecord, int, error)
}
