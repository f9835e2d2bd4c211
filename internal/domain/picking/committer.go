package picking

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
)

// Valores por defecto del autocommit del lector de códigos.
const (
	DefaultIdle   = 80 * time.Millisecond
	DefaultMinLen = 3
)

// CommitState estado del acumulador de teclas.
type CommitState int

const (
	StateIdle CommitState = iota
	StateAccumulating
)

func (s CommitState) String() string {
	if s == StateAccumulating {
		return "accumulating"
	}
	return "idle"
}

// Committer agrupa los caracteres que envía un lector (teclas muy rápidas) en una lectura
// completa. Cada carácter reinicia el temporizador de inactividad; al vencer, si el buffer
// alcanza MinLen se entrega al sink. La marca de fin (Enter) se resuelve con Commit, que
// devuelve el buffer al llamador.
type Committer struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	idle   time.Duration
	minLen int
	sink   func(code string)

	buf   strings.Builder
	state CommitState
	timer clockwork.Timer
	gen   uint64
}

// NewCommitter construye el acumulador. sink recibe cada lectura confirmada por inactividad
// y se invoca sin el lock tomado.
func NewCommitter(clock clockwork.Clock, idle time.Duration, minLen int, sink func(code string)) *Committer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if idle <= 0 {
		idle = DefaultIdle
	}
	if minLen <= 0 {
		minLen = DefaultMinLen
	}
	return &Committer{clock: clock, idle: idle, minLen: minLen, sink: sink}
}

// Type agrega caracteres al buffer y reinicia el temporizador.
func (c *Committer) Type(chars string) {
	if chars == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.WriteString(chars)
	c.state = StateAccumulating
	c.stopTimerLocked()
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.idle, func() { c.onIdle(gen) })
}

// Commit confirma el buffer sin esperar al temporizador (marca de fin del lector) y lo
// devuelve recortado; puede ser "". No pasa por el sink.
func (c *Committer) Commit() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.takeLocked()
}

// Clear descarta el buffer y cancela el temporizador pendiente.
func (c *Committer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.takeLocked()
}

// State estado actual.
func (c *Committer) State() CommitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Buffer contenido acumulado sin confirmar.
func (c *Committer) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *Committer) onIdle(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateAccumulating {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	if utf8.RuneCountInString(strings.TrimSpace(c.buf.String())) < c.minLen {
		// lectura incompleta: se espera más entrada o un Clear
		c.mu.Unlock()
		return
	}
	code := c.takeLocked()
	c.mu.Unlock()
	if c.sink != nil {
		c.sink(code)
	}
}

// takeLocked vacía el buffer, vuelve a Idle e invalida cualquier temporizador en vuelo.
func (c *Committer) takeLocked() string {
	c.stopTimerLocked()
	code := strings.TrimSpace(c.buf.String())
	c.buf.Reset()
	c.state = StateIdle
	return code
}

func (c *Committer) stopTimerLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
