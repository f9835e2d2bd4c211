package picking

import (
	"context"
	"sync"

	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

// ReferenceCatalog índice vigente y reporte de la última carga.
// Las sesiones consultan Current en cada lectura; recargar no cambia los eventos ya registrados.
type ReferenceCatalog struct {
	loader *Loader
	files  []string

	mu     sync.RWMutex
	index  *picking.ReferenceIndex
	report LoadReport
}

// NewReferenceCatalog construye el catálogo vacío; llamar a Reload para cargarlo.
func NewReferenceCatalog(loader *Loader, files []string) *ReferenceCatalog {
	return &ReferenceCatalog{
		loader: loader,
		files:  append([]string(nil), files...),
		index:  picking.BuildIndex(nil),
		report: LoadReport{Status: LoadNone},
	}
}

// Reload vuelve a leer todas las tablas y reemplaza índice y reporte de una vez.
func (c *ReferenceCatalog) Reload(ctx context.Context) (LoadReport, error) {
	if len(c.files) == 0 {
		return LoadReport{Status: LoadNone}, domain.ErrNoReferenceFiles
	}
	ix, report := c.loader.Load(ctx, c.files)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	c.mu.Lock()
	c.index = ix
	c.report = report
	c.mu.Unlock()
	return report, nil
}

// Current índice vigente (nunca nil).
func (c *ReferenceCatalog) Current() *picking.ReferenceIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// Report reporte de la última carga.
func (c *ReferenceCatalog) Report() LoadReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

// Files nombres configurados, en orden de prioridad.
func (c *ReferenceCatalog) Files() []string {
	return append([]string(nil), c.files...)
}
