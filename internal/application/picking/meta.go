package picking

import (
	"context"
	"fmt"

	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
)

// Meta cabecera actual.
func (s *Session) Meta() entity.SessionMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// UpdateMeta valida la cabecera contra el catálogo y la guarda para la estación.
// Si la persistencia falla la sesión conserva el cambio igual.
func (s *Session) UpdateMeta(ctx context.Context, m entity.SessionMeta) (entity.SessionMeta, error) {
	m = m.Sanitize()
	if err := ValidateMeta(s.catalog, m); err != nil {
		return entity.SessionMeta{}, err
	}
	m.Station = s.station
	m.UpdatedAt = s.clock.Now()

	s.mu.Lock()
	s.meta = m
	s.mu.Unlock()

	if s.metaRepo != nil {
		if err := s.metaRepo.Save(ctx, s.station, m); err != nil {
			s.log.Warn().Str("station", s.station).Err(err).Msg("no se pudo guardar la cabecera")
		}
	}
	return m, nil
}

// ValidateMeta exige que las selecciones no vacías pertenezcan al catálogo.
func ValidateMeta(cat entity.Catalog, m entity.SessionMeta) error {
	if m.Responsable != "" && !cat.HasResponsable(m.Responsable) {
		return fmt.Errorf("responsable %q: %w", m.Responsable, domain.ErrInvalidInput)
	}
	if m.Origen != "" && !cat.HasSucursal(m.Origen) {
		return fmt.Errorf("origen %q: %w", m.Origen, domain.ErrInvalidInput)
	}
	if m.Destino != "" && !cat.HasSucursal(m.Destino) {
		return fmt.Errorf("destino %q: %w", m.Destino, domain.ErrInvalidInput)
	}
	return nil
}
