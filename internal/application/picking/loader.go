package picking

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/picking-salida/internal/domain/picking"
	"github.com/jhoicas/picking-salida/pkg/logger"
)

// Estados del reporte de carga.
const (
	LoadOK      = "ok"
	LoadPartial = "partial"
	LoadNone    = "none"
)

const maxParallelReads = 8

// FileReport resultado de la carga de un archivo.
type FileReport struct {
	Name  string
	OK    bool
	Rows  int
	Error string
}

// LoadReport resumen de una carga de tablas de equivalencia.
type LoadReport struct {
	Files     []FileReport
	Loaded    int
	Total     int
	Codes     int
	Status    string
	Fallbacks []string
}

// Loader lee y decodifica las tablas configuradas y arma el índice.
type Loader struct {
	source  ReferenceSource
	decoder TableDecoder
	log     *logger.Logger
}

// NewLoader construye el cargador.
func NewLoader(source ReferenceSource, decoder TableDecoder, log *logger.Logger) *Loader {
	return &Loader{source: source, decoder: decoder, log: log.Component("reference-loader")}
}

// Load lee todos los archivos en paralelo. Un archivo que falla no cancela a los demás:
// el índice se arma con los que se pudieron leer, respetando el orden de names.
func (l *Loader) Load(ctx context.Context, names []string) (*picking.ReferenceIndex, LoadReport) {
	tables := make([]*picking.Table, len(names))
	reports := make([]FileReport, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, name := range names {
		g.Go(func() error {
			reports[i] = FileReport{Name: name}
			t, err := l.loadOne(gctx, name)
			if err != nil {
				reports[i].Error = err.Error()
				return nil
			}
			tables[i] = &t
			reports[i].OK = true
			reports[i].Rows = len(t.Rows)
			return nil
		})
	}
	_ = g.Wait()

	named := make([]picking.NamedTable, 0, len(names))
	for i, t := range tables {
		if t != nil {
			named = append(named, picking.NamedTable{Name: names[i], Table: *t})
		}
	}
	ix := picking.BuildIndex(named)

	report := LoadReport{
		Files:     reports,
		Loaded:    len(named),
		Total:     len(names),
		Codes:     ix.Len(),
		Status:    loadStatus(len(named), len(names)),
		Fallbacks: ix.FallbackTables(),
	}
	l.logReport(report)
	return ix, report
}

// loadOne lee y decodifica un archivo. Un pánico del decodificador queda como error del archivo.
func (l *Loader) loadOne(ctx context.Context, name string) (table picking.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = picking.Table{}, fmt.Errorf("decodificar %s: pánico: %v", name, r)
		}
	}()

	data, err := l.source.Read(ctx, name)
	if err != nil {
		return picking.Table{}, fmt.Errorf("leer %s: %w", name, err)
	}
	t, err := l.decoder.Decode(name, data)
	if err != nil {
		return picking.Table{}, fmt.Errorf("decodificar %s: %w", name, err)
	}
	return t, nil
}

func (l *Loader) logReport(r LoadReport) {
	for _, f := range r.Files {
		if !f.OK {
			l.log.Warn().Str("file", f.Name).Str("error", f.Error).Msg("tabla de equivalencias no disponible")
		}
	}
	for _, name := range r.Fallbacks {
		l.log.Warn().Str("file", name).Msg("sin columna de código reconocible, se usa la primera columna")
	}
	ev := l.log.Info()
	if r.Status != LoadOK {
		ev = l.log.Warn()
	}
	ev.Str("status", r.Status).
		Int("loaded", r.Loaded).
		Int("total", r.Total).
		Int("codes", r.Codes).
		Msg("equivalencias cargadas")
}

func loadStatus(loaded, total int) string {
	switch {
	case loaded == 0:
		return LoadNone
	case loaded < total:
		return LoadPartial
	default:
		return LoadOK
	}
}
