// Package memory repositorios en memoria para ejecutar sin PostgreSQL
// (desarrollo local y CLI). No persisten entre reinicios.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mydata-invoicing/internal/domain"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/internal/domain/repository"
)

var _ repository.TransmissionRepository = (*TransmissionRepo)(nil)

// TransmissionRepo registro de transmisiones protegido por mutex.
type TransmissionRepo struct {
	mu    sync.RWMutex
	byUID map[string]entity.TransmissionRecord
	now   func() time.Time
}

// NewTransmissionRepository crea un repositorio vacío.
func NewTransmissionRepository() *TransmissionRepo {
	return &TransmissionRepo{
		byUID: make(map[string]entity.TransmissionRecord),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Save mismas reglas que la versión PostgreSQL: upsert por uid, SUCCESS es definitivo.
func (r *TransmissionRepo) Save(_ context.Context, rec *entity.TransmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if prev, ok := r.byUID[rec.UID]; ok {
		if prev.Transmitted() {
			return fmt.Errorf("uid %s: %w", rec.UID, domain.ErrAlreadyTransmitted)
		}
		rec.ID = prev.ID
		rec.CreatedAt = prev.CreatedAt
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	r.byUID[rec.UID] = *rec
	return nil
}

// GetByUID devuelve una copia del registro.
func (r *TransmissionRepo) GetByUID(_ context.Context, uid string) (*entity.TransmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byUID[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// List ordena por fecha de creación descendente.
func (r *TransmissionRepo) List(_ context.Context, limit, offset int) ([]*entity.TransmissionRecord, int, error) {
	r.mu.RLock()
	all := make([]*entity.TransmissionRecord, 0, len(r.byUID))
	for _, rec := range r.byUID {
		rec := rec
		all = append(all, &rec)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].UID < all[j].UID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	if offset >= total {
		return []*entity.TransmissionRecord{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}
