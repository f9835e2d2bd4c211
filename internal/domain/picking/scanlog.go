package picking

import (
	"strings"
	"time"

	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
)

// DefaultMaxScans tope de lecturas retenidas por sesión; se descartan las más viejas.
const DefaultMaxScans = 5000

// Classify valida una lectura y la busca en el índice. Devuelve la lectura sin espacios
// en los extremos (conserva mayúsculas/minúsculas) y si tiene equivalencia.
func Classify(ix *ReferenceIndex, raw string) (string, bool, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "", false, domain.ErrEmptyScan
	}
	_, hit := ix.Lookup(clean)
	return clean, hit, nil
}

// ScanLog registro de lecturas de una sesión, en orden de llegada.
// No es seguro para uso concurrente: lo protege la sesión que lo contiene.
type ScanLog struct {
	seq    int64
	events []entity.ScanEvent
	max    int
}

// NewScanLog crea un registro vacío; max <= 0 usa DefaultMaxScans.
func NewScanLog(max int) *ScanLog {
	if max <= 0 {
		max = DefaultMaxScans
	}
	return &ScanLog{max: max}
}

// Record clasifica la lectura contra el índice vigente y la agrega.
// Una lectura vacía no genera evento.
func (l *ScanLog) Record(ix *ReferenceIndex, raw string, at time.Time) (entity.ScanEvent, error) {
	code, matched, err := Classify(ix, raw)
	if err != nil {
		return entity.ScanEvent{}, err
	}
	return l.Append(code, matched, at), nil
}

// Append agrega un evento con el siguiente id.
func (l *ScanLog) Append(code string, matched bool, at time.Time) entity.ScanEvent {
	l.seq++
	ev := entity.ScanEvent{ID: l.seq, RawCode: code, Matched: matched, At: at}
	l.events = append(l.events, ev)
	if over := len(l.events) - l.max; over > 0 {
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
	return ev
}

// Delete quita un evento por id sin alterar el resto.
func (l *ScanLog) Delete(id int64) bool {
	for i, ev := range l.events {
		if ev.ID == id {
			l.events = append(l.events[:i], l.events[i+1:]...)
			return true
		}
	}
	return false
}

// DropThrough quita los eventos con id <= id y devuelve cuántos quitó.
// Las lecturas llegadas después (ids mayores) se conservan.
func (l *ScanLog) DropThrough(id int64) int {
	kept := l.events[:0]
	for _, ev := range l.events {
		if ev.ID > id {
			kept = append(kept, ev)
		}
	}
	n := len(l.events) - len(kept)
	l.events = kept
	return n
}

// Clear vacía el registro. Los ids siguen creciendo.
func (l *ScanLog) Clear() {
	l.events = nil
}

// Len cantidad de eventos.
func (l *ScanLog) Len() int { return len(l.events) }

// Events copia en orden de llegada.
func (l *ScanLog) Events() []entity.ScanEvent {
	return append([]entity.ScanEvent(nil), l.events...)
}

// Newest devuelve hasta n eventos, el más reciente primero. n <= 0 devuelve todos.
func (l *ScanLog) Newest(n int) []entity.ScanEvent {
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	out := make([]entity.ScanEvent, 0, n)
	for i := len(l.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.events[i])
	}
	return out
}
