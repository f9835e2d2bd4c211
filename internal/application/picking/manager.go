package picking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
	"github.com/jhoicas/picking-salida/pkg/logger"
)

// DefaultStation estación usada cuando el cliente no informa una.
const DefaultStation = "default"

// SessionConfig parámetros del lector y de las sesiones.
type SessionConfig struct {
	Idle     time.Duration
	MinLen   int
	MaxScans int
	Catalog  entity.Catalog
	Location *time.Location // nil = zona del proceso
}

// ManagerDeps dependencias compartidas por todas las sesiones.
type ManagerDeps struct {
	References *ReferenceCatalog
	Meta       MetaRepository
	Uploader   Uploader
	PDF        PickListPDFGenerator
	Clock      clockwork.Clock // nil = reloj real
	Logger     *logger.Logger
}

// SessionManager crea y guarda las sesiones de salida en memoria.
type SessionManager struct {
	cfg  SessionConfig
	deps ManagerDeps
	log  *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager construye el administrador de sesiones.
func NewSessionManager(cfg SessionConfig, deps ManagerDeps) *SessionManager {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &SessionManager{
		cfg:      cfg,
		deps:     deps,
		log:      deps.Logger.Component("picking-session"),
		sessions: make(map[string]*Session),
	}
}

// Catalog listas de responsables y sucursales configuradas.
func (m *SessionManager) Catalog() entity.Catalog {
	return m.cfg.Catalog
}

// UploadOrigins sucursales de origen con endpoint de subida, en orden del catálogo.
func (m *SessionManager) UploadOrigins() []string {
	var out []string
	if m.deps.Uploader == nil {
		return out
	}
	for _, s := range m.cfg.Catalog.Sucursales {
		if _, ok := m.deps.Uploader.Target(s); ok {
			out = append(out, s)
		}
	}
	return out
}

// Create abre una sesión para la estación y recupera su última cabecera guardada.
func (m *SessionManager) Create(ctx context.Context, station string) (*Session, error) {
	station = strings.TrimSpace(station)
	if station == "" {
		station = DefaultStation
	}

	s := &Session{
		id:        uuid.NewString(),
		station:   station,
		createdAt: m.deps.Clock.Now(),
		refs:      m.deps.References,
		catalog:   m.cfg.Catalog,
		metaRepo:  m.deps.Meta,
		uploader:  m.deps.Uploader,
		pdf:       m.deps.PDF,
		clock:     m.deps.Clock,
		loc:       m.cfg.Location,
		log:       m.log,
		scans:     picking.NewScanLog(m.cfg.MaxScans),
		meta:      entity.SessionMeta{Station: station},
	}
	s.committer = picking.NewCommitter(m.deps.Clock, m.cfg.Idle, m.cfg.MinLen, s.onIdleCommit)

	if m.deps.Meta != nil {
		saved, err := m.deps.Meta.Get(ctx, station)
		switch {
		case err == nil:
			s.meta = restoreMeta(m.cfg.Catalog, *saved, station)
		case errors.Is(err, domain.ErrNotFound):
		default:
			m.log.Warn().Str("station", station).Err(err).Msg("no se pudo leer la cabecera guardada")
		}
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.log.Info().Str("session", s.id).Str("station", station).Msg("sesión creada")
	return s, nil
}

// restoreMeta descarta selecciones guardadas que ya no están en el catálogo.
func restoreMeta(cat entity.Catalog, saved entity.SessionMeta, station string) entity.SessionMeta {
	saved = saved.Sanitize()
	if saved.Responsable != "" && !cat.HasResponsable(saved.Responsable) {
		saved.Responsable = ""
	}
	if saved.Origen != "" && !cat.HasSucursal(saved.Origen) {
		saved.Origen = ""
	}
	if saved.Destino != "" && !cat.HasSucursal(saved.Destino) {
		saved.Destino = ""
	}
	saved.Station = station
	return saved
}

// Get busca una sesión por id.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("sesión %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// Delete cierra la sesión y la olvida.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("sesión %s: %w", id, domain.ErrNotFound)
	}
	s.close()
	return nil
}

// List estado de todas las sesiones, las más nuevas primero.
func (m *SessionManager) List() []SessionInfo {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	out := make([]SessionInfo, 0, len(all))
	for _, s := range all {
		out = append(out, s.Info())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
