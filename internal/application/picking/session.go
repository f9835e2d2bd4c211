package picking

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
	"github.com/jhoicas/picking-salida/pkg/logger"
)

// DefaultRecent cantidad de lecturas de la tira de "últimos escaneos".
const DefaultRecent = 10

// SessionInfo estado resumido de una sesión.
type SessionInfo struct {
	ID        string
	Station   string
	CreatedAt time.Time
	Scans     int
	State     string
	Buffer    string
	Meta      entity.SessionMeta
}

// InputResult resultado de enviar caracteres del lector.
// Event solo viene cuando la entrada se confirmó con la marca de fin.
type InputResult struct {
	State  string
	Buffer string
	Event  *entity.ScanEvent
}

// Summary conteo por artículo más los totales de la sesión.
type Summary struct {
	TotalScans int
	Matched    int
	Unmatched  int
	Groups     []picking.ArticleGroup
}

// Session una salida de mercadería en curso: lecturas, acumulador del lector y cabecera.
// Las operaciones de una sesión se serializan con su mutex.
type Session struct {
	id        string
	station   string
	createdAt time.Time

	refs     *ReferenceCatalog
	catalog  entity.Catalog
	metaRepo MetaRepository
	uploader Uploader
	pdf      PickListPDFGenerator
	clock    clockwork.Clock
	loc      *time.Location
	log      *logger.Logger

	committer *picking.Committer

	mu    sync.Mutex
	scans *picking.ScanLog
	meta  entity.SessionMeta
}

// localNow hora actual en la zona de los depósitos, para nombres de archivo y documentos.
func (s *Session) localNow() time.Time {
	if s.loc == nil {
		return s.clock.Now()
	}
	return s.clock.Now().In(s.loc)
}

// ID identificador de la sesión.
func (s *Session) ID() string { return s.id }

// Station estación de trabajo asociada.
func (s *Session) Station() string { return s.station }

// Info estado actual.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:        s.id,
		Station:   s.station,
		CreatedAt: s.createdAt,
		Scans:     s.scans.Len(),
		State:     s.committer.State().String(),
		Buffer:    s.committer.Buffer(),
		Meta:      s.meta,
	}
}

// Scan registra una lectura completa contra el índice vigente.
func (s *Session) Scan(raw string) (entity.ScanEvent, error) {
	ix := s.refs.Current()

	s.mu.Lock()
	ev, err := s.scans.Record(ix, raw, s.clock.Now())
	s.mu.Unlock()
	if err != nil {
		s.log.Warn().Str("session", s.id).Err(err).Msg("lectura rechazada")
		return entity.ScanEvent{}, err
	}
	if !ev.Matched {
		s.log.Debug().Str("session", s.id).Str("code", ev.RawCode).Msg("lectura sin equivalencia")
	}
	return ev, nil
}

// Input recibe caracteres tal como los envía el lector. Con commit (Enter) la lectura se
// confirma en el acto; si no, se confirma sola al vencer el tiempo de inactividad.
func (s *Session) Input(chars string, commit bool) (InputResult, error) {
	s.committer.Type(chars)
	if !commit {
		return InputResult{State: s.committer.State().String(), Buffer: s.committer.Buffer()}, nil
	}

	ev, err := s.Scan(s.committer.Commit())
	res := InputResult{State: s.committer.State().String(), Buffer: s.committer.Buffer()}
	if err != nil {
		return res, err
	}
	res.Event = &ev
	return res, nil
}

// onIdleCommit sink del acumulador para las lecturas confirmadas por inactividad.
func (s *Session) onIdleCommit(code string) {
	_, _ = s.Scan(code)
}

// DeleteScan quita una lectura por id.
func (s *Session) DeleteScan(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scans.Delete(id) {
		return fmt.Errorf("lectura %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Reset descarta todas las lecturas y lo que haya en el acumulador.
func (s *Session) Reset() {
	s.committer.Clear()
	s.mu.Lock()
	s.scans.Clear()
	s.mu.Unlock()
}

// Scans lecturas de la más reciente a la más vieja; limit <= 0 devuelve todas.
func (s *Session) Scans(limit int) []entity.ScanEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans.Newest(limit)
}

// Recent últimas lecturas para la tira de la pantalla de escaneo.
func (s *Session) Recent() []entity.ScanEvent {
	return s.Scans(DefaultRecent)
}

// Summary conteo por artículo contra el índice vigente.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	events := s.scans.Events()
	s.mu.Unlock()
	return buildSummary(events, s.refs.Current())
}

func buildSummary(events []entity.ScanEvent, ix *picking.ReferenceIndex) Summary {
	sum := Summary{TotalScans: len(events), Groups: picking.BuildArticleSummary(events, ix)}
	for _, ev := range events {
		if ev.Matched {
			sum.Matched++
		} else {
			sum.Unmatched++
		}
	}
	return sum
}

// close cancela el temporizador pendiente del acumulador.
func (s *Session) close() {
	s.committer.Clear()
}
