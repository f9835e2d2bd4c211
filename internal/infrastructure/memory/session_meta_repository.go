// Package memory implementa los repositorios en memoria del proceso (sin base de datos).
package memory

import (
	"context"
	"fmt"
	"sync"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
)

var _ apppicking.MetaRepository = (*SessionMetaRepo)(nil)

// SessionMetaRepo cabecera por estación; se pierde al reiniciar.
type SessionMetaRepo struct {
	mu   sync.RWMutex
	data map[string]entity.SessionMeta
}

// NewSessionMetaRepository construye el repositorio vacío.
func NewSessionMetaRepository() *SessionMetaRepo {
	return &SessionMetaRepo{data: make(map[string]entity.SessionMeta)}
}

// Get devuelve una copia de la cabecera guardada.
func (r *SessionMetaRepo) Get(_ context.Context, station string) (*entity.SessionMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.data[station]
	if !ok {
		return nil, fmt.Errorf("estación %s: %w", station, domain.ErrNotFound)
	}
	return &m, nil
}

// Save reemplaza la cabecera de la estación.
func (r *SessionMetaRepo) Save(_ context.Context, station string, m entity.SessionMeta) error {
	m.Station = station
	r.mu.Lock()
	r.data[station] = m
	r.mu.Unlock()
	return nil
}
